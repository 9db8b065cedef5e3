package renderer

import (
	"bytes"
	"context"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/director"
	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/emitter"
)

func buildClip(t *testing.T, pattern string, modify func(c *config.Config)) (*director.Clip, config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Pattern = pattern
	if modify != nil {
		modify(&cfg)
	}
	d := director.NewDirector(2)
	d.Verbose = false
	clip, err := d.Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return clip, cfg
}

func TestResampleAtKeys(t *testing.T) {
	clip, _ := buildClip(t, config.PatternHexGrid, nil)

	for _, c := range clip.Curves[:6] {
		e, _ := clip.Element(c.ElementID)
		for _, k := range c.Keys[:10] {
			got := Resample(c, e, float64(k.Frame))
			if got != k.Value {
				t.Errorf("%s/%s frame %d: expected %v, got %v", c.ElementID, c.Channel, k.Frame, k.Value, got)
			}
		}
	}
}

func TestResampleSmoothFollowsMotion(t *testing.T) {
	clip, _ := buildClip(t, config.PatternHexGrid, nil)
	e := clip.Elements[10]
	c, ok := clip.Curve(e.ID, emitter.ChannelPosition)
	if !ok {
		t.Fatal("no position curve")
	}

	// between keys the spline stays on the sine it was sampled from
	for _, frame := range []float64{10.5, 57.25, 120.75} {
		want := emitter.Evaluate(e, (frame-float64(clip.Window.FrameStart))/float64(clip.Window.FPS))
		got := Resample(c, e, frame)
		if math.Abs(got.Z-want.Position.Z) > 1e-4 {
			t.Errorf("frame %.2f: expected z=%.6f, got %.6f", frame, want.Position.Z, got.Z)
		}
	}
}

func TestResampleWrapsAround(t *testing.T) {
	c := emitter.Curve{
		Track: emitter.Track{Channel: emitter.ChannelScale, Axes: element.AxesXY, Interpolation: emitter.Smooth},
		Keys: []emitter.Key{
			{Frame: 1, Value: element.V(1, 1, 1)},
			{Frame: 2, Value: element.V(2, 2, 1)},
		},
	}

	tests := []struct {
		frame float64
		want  element.Vec3
	}{
		{0, element.V(2, 2, 1)},       // one loop back
		{5, element.V(1, 1, 1)},       // two loops on
		{2.5, element.V(1.5, 1.5, 1)}, // between the last key and the next loop
	}
	for _, tt := range tests {
		got := Resample(c, element.Element{}, tt.frame)
		if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 || got.Z != tt.want.Z {
			t.Errorf("frame %.2f: expected %v, got %v", tt.frame, tt.want, got)
		}
	}

	if got := Resample(emitter.Curve{}, element.Element{}, 1); got != (element.Vec3{}) {
		t.Errorf("Expected zero for an empty curve, got %v", got)
	}
}

func TestResampleSpinContinuesIntoNextLoop(t *testing.T) {
	c := emitter.Curve{
		Track: emitter.Track{Channel: emitter.ChannelRotation, Axes: element.AxesZ, Interpolation: emitter.Linear},
	}
	for f := 1; f <= 4; f++ {
		c.Keys = append(c.Keys, emitter.Key{Frame: f, Value: element.V(0, 0, float64(f-1)*math.Pi/2)})
	}

	// one turn per loop: after 3π/2 comes 2π, not a swing back to 0
	if got := Resample(c, element.Element{}, 4.5).Z; math.Abs(got-7*math.Pi/4) > 1e-12 {
		t.Errorf("Expected %f, got %f", 7*math.Pi/4, got)
	}
}

func TestResampleAfterLastKeyFollowsMotion(t *testing.T) {
	clip, _ := buildClip(t, config.PatternHexGrid, nil)
	e := clip.Elements[10]
	c, _ := clip.Curve(e.ID, emitter.ChannelPosition)
	w := clip.Window

	for _, frame := range []float64{240.25, 240.5, 240.75} {
		want := emitter.Evaluate(e, (frame-float64(w.FrameStart))/float64(w.FPS))
		got := Resample(c, e, frame)
		if math.Abs(got.Z-want.Position.Z) > 1e-4 {
			t.Errorf("frame %.2f: expected z=%.6f, got %.6f", frame, want.Position.Z, got.Z)
		}
	}
}

func TestResampleLinearWrap(t *testing.T) {
	e := element.Element{
		ID:       "p",
		Kind:     element.StreamWrap,
		Position: element.V(0, 0, 0),
		Motion:   element.Motion{Axis: element.AxisY, Span: 20},
	}
	c := emitter.Curve{
		ElementID: "p",
		Track:     emitter.Track{Channel: emitter.ChannelPosition, Axes: element.AxesY, Interpolation: emitter.Linear},
		Keys: []emitter.Key{
			{Frame: 1, Value: element.V(0, 9, 0)},
			{Frame: 2, Value: element.V(0, -9, 0)}, // wrapped: moved +2 through the seam
		},
	}

	tests := []struct {
		frame float64
		want  float64
	}{
		{1.25, 9.5},
		{1.5, -10},
		{1.75, -9.5},
	}

	for _, tt := range tests {
		got := Resample(c, e, tt.frame).Y
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("frame %.2f: expected y=%.2f, got %.6f", tt.frame, tt.want, got)
		}
		if got < -10 || got >= 10 {
			t.Errorf("frame %.2f: y=%.6f left the wrap range", tt.frame, got)
		}
	}

	// rotation drift is plain linear
	c.Channel = emitter.ChannelRotation
	if got := Resample(c, e, 1.5).Y; math.Abs(got) > 1e-6 {
		t.Errorf("Expected plain midpoint 0, got %f", got)
	}
}

func TestCatmullRomEndpoints(t *testing.T) {
	if v := catmullRom(0, 1, 2, 3, 0); v != 1 {
		t.Errorf("u=0: expected 1, got %f", v)
	}
	if v := catmullRom(0, 1, 2, 3, 1); v != 2 {
		t.Errorf("u=1: expected 2, got %f", v)
	}
	if v := catmullRom(0, 1, 2, 3, 0.5); math.Abs(v-1.5) > 1e-12 {
		t.Errorf("straight line: expected 1.5, got %f", v)
	}
}

func TestRotate(t *testing.T) {
	v := rotate(element.V(1, 0, 0), element.V(0, 0, math.Pi/2))
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y-1) > 1e-12 {
		t.Errorf("Z quarter turn: expected (0,1,0), got %v", v)
	}

	// X is applied before Z
	v = rotate(element.V(0, 1, 0), element.V(math.Pi/2, 0, math.Pi/2))
	if math.Abs(v.Z-1) > 1e-12 {
		t.Errorf("Expected (0,0,1), got %v", v)
	}
}

func TestFitCameraKeepsElementsInFrame(t *testing.T) {
	for _, pattern := range []string{config.PatternHexGrid, config.PatternStream, config.PatternRings} {
		t.Run(pattern, func(t *testing.T) {
			clip, _ := buildClip(t, pattern, nil)
			cam := FitCamera(clip.Elements, 270, 480)

			for _, e := range clip.Elements {
				x, y, _, ok := cam.Project(e.Position)
				if !ok {
					t.Fatalf("%s is behind the camera", e.ID)
				}
				if x < 0 || x > 270 || y < 0 || y > 480 {
					t.Errorf("%s projects outside the frame: (%.1f, %.1f)", e.ID, x, y)
				}
			}
		})
	}
}

func TestClipLoop(t *testing.T) {
	square := [][2]float64{{-5, -5}, {5, -5}, {5, 5}, {-5, 5}}
	out := clipLoop(square, 10, 10)
	for _, p := range out {
		if p[0] < 0 || p[0] > 10 || p[1] < 0 || p[1] > 10 {
			t.Errorf("Point %v outside the canvas", p)
		}
	}
	if len(out) != 4 {
		t.Errorf("Expected 4 points, got %d: %v", len(out), out)
	}

	if out := clipLoop([][2]float64{{-5, -5}, {-1, -5}, {-1, -1}}, 10, 10); out != nil {
		t.Errorf("Expected nothing for an off-canvas loop, got %v", out)
	}
}

func TestPreviewRender(t *testing.T) {
	clip, cfg := buildClip(t, config.PatternHexGrid, nil)
	cfg.Render.PreviewScale = 8
	p := NewPreview(clip, cfg.Render, 2)

	if p.Bounds() != image.Rect(0, 0, 134, 240) {
		t.Errorf("Unexpected preview size %v", p.Bounds())
	}
	if p.FrameCount() != 240 {
		t.Errorf("Expected 240 frames, got %d", p.FrameCount())
	}

	img := p.Frame(0)
	center := img.RGBAAt(67, 120)
	corner := img.RGBAAt(0, 0)
	if center == corner {
		t.Errorf("Expected a tile in the middle of the frame, got background %v", center)
	}
	t.Logf("center=%v corner=%v", center, corner)
}

func TestPreviewFPS(t *testing.T) {
	clip, cfg := buildClip(t, config.PatternOrigami, nil)
	cfg.Render.PreviewFPS = 15
	p := NewPreview(clip, cfg.Render, 1)

	if p.FrameCount() != 120 {
		t.Errorf("Expected 120 frames at 15 fps, got %d", p.FrameCount())
	}
	if p.ClipFrame(1) != 3 {
		t.Errorf("Expected preview frame 1 at clip frame 3, got %f", p.ClipFrame(1))
	}

	cfg.Render.PreviewFPS = 60
	p = NewPreview(clip, cfg.Render, 1)
	if p.ClipFrame(1) != 1.5 {
		t.Errorf("Expected preview frame 1 at clip frame 1.5, got %f", p.ClipFrame(1))
	}
}

func TestPreviewLastFramesKeepMoving(t *testing.T) {
	clip, cfg := buildClip(t, config.PatternHexGrid, nil)
	cfg.Render.PreviewFPS = 60
	p := NewPreview(clip, cfg.Render, 1)

	n := p.FrameCount()
	if n != 480 {
		t.Fatalf("Expected 480 frames at 60 fps, got %d", n)
	}
	if got := p.ClipFrame(n - 1); got != 240.5 {
		t.Errorf("Expected the last preview frame at clip frame 240.5, got %f", got)
	}

	// the half frame after the last key heads back to the first one
	if bytes.Equal(p.Frame(n-1).Pix, p.Frame(n-2).Pix) {
		t.Error("Last two preview frames are identical")
	}
}

func TestPreviewHidesStreamWraps(t *testing.T) {
	clip, cfg := buildClip(t, config.PatternStream, func(c *config.Config) { c.Stream.LoopLock = true })
	cfg.Render.PreviewFPS = 60
	p := NewPreview(clip, cfg.Render, 1)
	n := p.FrameCount()

	wraps := 0
	for _, e := range clip.Elements {
		curves := p.curves[e.ID]
		for i := 0; i < n; i++ {
			a := Pose(e, curves, p.ClipFrame(i))
			b := Pose(e, curves, p.ClipFrame((i+1)%n))
			if b.Position.Y >= a.Position.Y {
				continue
			}
			wraps++
			if a.Scale != (element.Vec3{}) || b.Scale != (element.Vec3{}) {
				t.Errorf("%s wraps between preview frames %d and %d at scale %v -> %v", e.ID, i, (i+1)%n, a.Scale, b.Scale)
			}
		}
	}
	if wraps == 0 {
		t.Fatal("no particle wrapped in the preview")
	}
	t.Logf("checked %d wraps", wraps)
}

func TestPreviewStamp(t *testing.T) {
	clip, cfg := buildClip(t, config.PatternOrigami, nil)
	p := NewPreview(clip, cfg.Render, 1)

	plain := p.Frame(5)
	if err := p.EnableStamp("test"); err != nil {
		t.Fatalf("EnableStamp failed: %v", err)
	}
	stamped := p.Frame(5)

	b := p.Bounds()
	size := min(b.Dx(), b.Dy()) / 6
	margin := size / 8
	changed := 0
	for y := b.Max.Y - margin - size; y < b.Max.Y-margin; y++ {
		for x := b.Max.X - margin - size; x < b.Max.X-margin; x++ {
			if plain.RGBAAt(x, y) != stamped.RGBAAt(x, y) {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("Stamp did not change the corner")
	}
}

func TestRenderSequence(t *testing.T) {
	clip, cfg := buildClip(t, config.PatternRings, func(c *config.Config) { c.Window.FrameEnd = 12 })
	cfg.Render.PreviewScale = 10
	p := NewPreview(clip, cfg.Render, 3)

	dir := filepath.Join(t.TempDir(), "frames")
	n, err := p.RenderSequence(context.Background(), dir)
	if err != nil {
		t.Fatalf("RenderSequence failed: %v", err)
	}
	if n != 12 {
		t.Errorf("Expected 12 frames, got %d", n)
	}

	for _, name := range []string{"frame_0001.png", "frame_0012.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Missing %s: %v", name, err)
		}
	}
}

func TestGenerateLoopFilter(t *testing.T) {
	filter := GenerateLoopFilter(240, 3, 270, 480)

	for _, part := range []string{"loop=loop=2:size=240:start=0", "scale=270:480", "pad=270:480"} {
		if !strings.Contains(filter, part) {
			t.Errorf("Filter should contain %q: %s", part, filter)
		}
	}

	if strings.Contains(GenerateLoopFilter(240, 1, 270, 480), "loop=") {
		t.Error("A single repeat needs no loop filter")
	}

	if d := LoopDuration(240, 2, 30); d != 16 {
		t.Errorf("Expected 16s, got %f", d)
	}

	t.Logf("Generated filter: %s", filter)
}
