package renderer

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/director"
	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/emitter"
	"github.com/ivlev/loopgen/internal/system"
	"github.com/ivlev/loopgen/internal/video"
)

var background = color.NRGBA{R: 10, G: 10, B: 24, A: 255}

// palette holds the base colours of the materials the patterns assign.
var palette = map[string]color.NRGBA{
	"hex_mint_peach":          {R: 152, G: 240, B: 200, A: 235},
	"origami_lavender":        {R: 196, G: 170, B: 255, A: 200},
	"glow_cyan":               {R: 40, G: 240, B: 255, A: 255},
	"glow_magenta":            {R: 255, G: 60, B: 230, A: 255},
	"energy_ring_purple_teal": {R: 140, G: 110, B: 255, A: 230},
}

// Preview rasterises a clip from its curves into flat-shaded frames. It
// reads the clip the way a scene collaborator does, so it shows what the
// exported keys produce, not what the kernel computed.
type Preview struct {
	Clip    *director.Clip
	Camera  Camera
	FPS     int
	Workers int

	stamp     image.Image
	stampSize int
	curves    map[string][]emitter.Curve
}

// NewPreview sizes the preview from the render settings: the output
// resolution divided by PreviewScale, rounded down to even numbers.
func NewPreview(clip *director.Clip, r config.RenderConfig, workers int) *Preview {
	scale := max(r.PreviewScale, 1)
	width, height := even(r.Width/scale), even(r.Height/scale)

	fps := r.PreviewFPS
	if fps <= 0 {
		fps = clip.Window.FPS
	}

	return &Preview{
		Clip:    clip,
		Camera:  FitCamera(clip.Elements, width, height),
		FPS:     fps,
		Workers: workers,
		curves:  clip.ElementCurves(),
	}
}

func even(n int) int {
	n -= n % 2
	return max(n, 2)
}

// EnableStamp adds a QR provenance stamp to every frame.
func (p *Preview) EnableStamp(build string) error {
	text := fmt.Sprintf("loopgen %s %s %s", build, p.Clip.Slot, p.Clip.Window)
	stamp, err := NewStamp(text)
	if err != nil {
		return fmt.Errorf("stamp: %w", err)
	}
	p.stamp = stamp
	p.stampSize = min(p.Camera.Width, p.Camera.Height) / 6
	return nil
}

// Bounds is the frame rectangle.
func (p *Preview) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Camera.Width, p.Camera.Height)
}

// FrameCount is the number of preview frames in one loop.
func (p *Preview) FrameCount() int {
	return max(int(math.Round(p.Clip.Window.PeriodSeconds()*float64(p.FPS))), 1)
}

// ClipFrame maps preview frame i (from 0) to a possibly fractional clip frame.
func (p *Preview) ClipFrame(i int) float64 {
	w := p.Clip.Window
	return float64(w.FrameStart) + float64(i)*float64(w.FPS)/float64(p.FPS)
}

type polygon struct {
	loops [][][2]float64
	depth float64
	fill  color.NRGBA
}

// Render draws preview frame i into dst, which must have Bounds().
func (p *Preview) Render(i int, dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	frame := p.ClipFrame(i)
	var polys []polygon

	for _, e := range p.Clip.Elements {
		pose := Pose(e, p.curves[e.ID], frame)
		if pose.Scale == (element.Vec3{}) {
			continue
		}
		tr := transformer{position: pose.Position, rotation: pose.Rotation, scale: pose.Scale}
		base := materialColor(e.Material)

		for _, f := range meshFor(e.Shape) {
			if poly, ok := p.project(f, e.Size, tr, base); ok {
				polys = append(polys, poly)
			}
		}
	}

	// far to near
	sort.SliceStable(polys, func(a, b int) bool { return polys[a].depth > polys[b].depth })

	z := vector.NewRasterizer(1, 1)
	for _, poly := range polys {
		fillPolygon(z, dst, poly)
	}

	if p.stamp != nil {
		DrawStamp(dst, p.stamp, p.stampSize)
	}
}

func (p *Preview) project(f face, size float64, tr transformer, base color.NRGBA) (polygon, bool) {
	poly := polygon{loops: make([][][2]float64, 0, len(f))}
	var world []element.Vec3
	n := 0

	for _, loop := range f {
		pts := make([][2]float64, 0, len(loop))
		for _, v := range loop {
			w := place(v, size, tr)
			x, y, depth, ok := p.Camera.Project(w)
			if !ok {
				return polygon{}, false
			}
			pts = append(pts, [2]float64{x, y})
			poly.depth += depth
			n++
			world = append(world, w)
		}
		poly.loops = append(poly.loops, pts)
	}
	if n == 0 {
		return polygon{}, false
	}
	poly.depth /= float64(n)
	poly.fill = shade(base, facing(world))
	return poly, true
}

// facing is |cos| of the angle between the face normal and the view axis.
func facing(pts []element.Vec3) float64 {
	if len(pts) < 3 {
		return 1
	}
	a, b, c := pts[0], pts[1], pts[2]
	ux, uy, uz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	vx, vy, vz := c.X-a.X, c.Y-a.Y, c.Z-a.Z
	n := element.V(uy*vz-uz*vy, uz*vx-ux*vz, ux*vy-uy*vx)
	l := n.Len()
	if l == 0 {
		return 1
	}
	return math.Abs(n.Z) / l
}

func shade(c color.NRGBA, facing float64) color.NRGBA {
	k := 0.45 + 0.55*facing
	return color.NRGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: c.A,
	}
}

// materialColor looks a material up in the palette; unknown materials get
// a stable colour derived from the name.
func materialColor(material string) color.NRGBA {
	if c, ok := palette[material]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(material))
	v := h.Sum32()
	return color.NRGBA{R: 96 + uint8(v%160), G: 96 + uint8((v>>8)%160), B: 96 + uint8((v>>16)%160), A: 230}
}

func fillPolygon(z *vector.Rasterizer, dst *image.RGBA, poly polygon) {
	b := dst.Bounds()

	var clipped [][][2]float64
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, loop := range poly.loops {
		c := clipLoop(loop, float64(b.Dx()), float64(b.Dy()))
		if len(c) < 3 {
			continue
		}
		for _, pt := range c {
			minX, maxX = math.Min(minX, pt[0]), math.Max(maxX, pt[0])
			minY, maxY = math.Min(minY, pt[1]), math.Max(maxY, pt[1])
		}
		clipped = append(clipped, c)
	}
	if len(clipped) == 0 {
		return
	}

	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY))).Intersect(b)
	if r.Empty() {
		return
	}

	z.Reset(r.Dx(), r.Dy())
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, loop := range clipped {
		z.MoveTo(float32(loop[0][0]-ox), float32(loop[0][1]-oy))
		for _, pt := range loop[1:] {
			z.LineTo(float32(pt[0]-ox), float32(pt[1]-oy))
		}
		z.ClosePath()
	}
	z.Draw(dst, r, image.NewUniform(poly.fill), image.Point{})
}

// clipLoop clips a closed polygon to [0,w]x[0,h] (Sutherland-Hodgman). The
// rasteriser has no clipping of its own.
func clipLoop(pts [][2]float64, w, h float64) [][2]float64 {
	edges := []struct {
		inside func(p [2]float64) bool
		cross  func(a, b [2]float64) [2]float64
	}{
		{func(p [2]float64) bool { return p[0] >= 0 }, func(a, b [2]float64) [2]float64 { return atX(a, b, 0) }},
		{func(p [2]float64) bool { return p[0] <= w }, func(a, b [2]float64) [2]float64 { return atX(a, b, w) }},
		{func(p [2]float64) bool { return p[1] >= 0 }, func(a, b [2]float64) [2]float64 { return atY(a, b, 0) }},
		{func(p [2]float64) bool { return p[1] <= h }, func(a, b [2]float64) [2]float64 { return atY(a, b, h) }},
	}

	out := pts
	for _, e := range edges {
		in := out
		out = nil
		for i, cur := range in {
			prev := in[(i+len(in)-1)%len(in)]
			switch {
			case e.inside(cur):
				if !e.inside(prev) {
					out = append(out, e.cross(prev, cur))
				}
				out = append(out, cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
		}
		if len(out) == 0 {
			return nil
		}
	}
	return out
}

func atX(a, b [2]float64, x float64) [2]float64 {
	t := (x - a[0]) / (b[0] - a[0])
	return [2]float64{x, a[1] + t*(b[1]-a[1])}
}

func atY(a, b [2]float64, y float64) [2]float64 {
	t := (y - a[1]) / (b[1] - a[1])
	return [2]float64{a[0] + t*(b[0]-a[0]), y}
}

// Frame renders preview frame i into a new image.
func (p *Preview) Frame(i int) *image.RGBA {
	img := image.NewRGBA(p.Bounds())
	p.Render(i, img)
	return img
}

// RenderSequence writes every preview frame of one loop into dir as
// numbered PNGs starting at 1. It returns the number of frames written.
func (p *Preview) RenderSequence(ctx context.Context, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	total := p.FrameCount()
	step := max(total/10, 1)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	if p.Workers > 0 {
		g.SetLimit(p.Workers)
	}

	for i := 0; i < total; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			img := system.GetImage(p.Bounds())
			defer system.PutImage(img)
			p.Render(i, img)

			path := filepath.Join(dir, fmt.Sprintf(video.FramePattern, i+1))
			if err := writePNG(path, img); err != nil {
				return fmt.Errorf("frame %d: %w", i+1, err)
			}

			if n := done.Add(1); n%int64(step) == 0 || n == int64(total) {
				fmt.Printf("[>] Кадры превью: %d/%d\n", n, total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pngEncoder.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
