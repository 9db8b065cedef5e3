package analyzer

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// squareFrames moves a white square step pixels right per frame over a
// black background.
func squareFrames(step int) FrameFunc {
	return func(i int) (image.Image, error) {
		img := image.NewGray(image.Rect(0, 0, 200, 100))
		x0 := 20 + i*step
		for y := 40; y < 60; y++ {
			for x := x0; x < x0+20; x++ {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
		return img, nil
	}
}

// circleFrames moves the square around a circle of frames so that frame
// count would equal frame 0.
func circleFrames(count int) FrameFunc {
	return func(i int) (image.Image, error) {
		k := i
		if k > count/2 {
			k = count - k
		}
		return squareFrames(4)(k)
	}
}

func TestLumaDetector(t *testing.T) {
	d := NewLumaDetector()
	a, _ := squareFrames(10)(0)
	b, _ := squareFrames(10)(1)

	same, err := d.Diff(a, a)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if same != 0 {
		t.Errorf("Expected 0 for identical frames, got %f", same)
	}

	diff, err := d.Diff(a, b)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	// 2 strips of 10x20 changed out of 200x100
	if want := 400.0 / 20000; diff < want*0.99 || diff > want*1.01 {
		t.Errorf("Expected %f, got %f", want, diff)
	}
}

func TestEdgeDetector(t *testing.T) {
	d := NewEdgeDetector()
	a, _ := squareFrames(10)(0)
	b, _ := squareFrames(10)(1)

	same, _ := d.Diff(a, a)
	if same != 0 {
		t.Errorf("Expected 0 for identical frames, got %f", same)
	}

	diff, err := d.Diff(a, b)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff <= 0 {
		t.Error("Expected moved edges to register")
	}
	t.Logf("Edge diff: %f", diff)
}

func TestDiffSizeMismatch(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 10, 10))
	b := image.NewGray(image.Rect(0, 0, 10, 12))

	for _, d := range []Detector{NewLumaDetector(), NewEdgeDetector()} {
		if _, err := d.Diff(a, b); err == nil {
			t.Errorf("%s: expected a size error", d.Name())
		}
	}
}

func TestAnalyzeSeamlessLoop(t *testing.T) {
	report, err := Analyze(NewLumaDetector(), 20, circleFrames(20), DefaultSeamRatio)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.Visible {
		t.Errorf("Expected no visible seam: %s", report)
	}
	if report.Ratio > 1.0001 {
		t.Errorf("Expected the wrap step to look like any other step: %s", report)
	}
	t.Logf("%s", report)
}

func TestAnalyzeVisibleSeam(t *testing.T) {
	for _, d := range []Detector{NewLumaDetector(), NewEdgeDetector()} {
		t.Run(d.Name(), func(t *testing.T) {
			// drifting square never returns: the wrap jumps back 19 steps
			report, err := Analyze(d, 20, squareFrames(1), DefaultSeamRatio)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if !report.Visible {
				t.Errorf("Expected a visible seam: %s", report)
			}
			t.Logf("%s", report)
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := Analyze(NewLumaDetector(), 2, squareFrames(1), DefaultSeamRatio); err == nil {
		t.Error("Expected an error for a two-frame loop")
	}

	boom := errors.New("render failed")
	failing := func(i int) (image.Image, error) {
		if i == 5 {
			return nil, boom
		}
		return squareFrames(1)(i)
	}
	if _, err := Analyze(NewLumaDetector(), 10, failing, DefaultSeamRatio); !errors.Is(err, boom) {
		t.Errorf("Expected the frame error, got %v", err)
	}
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		want    string
		wantErr bool
	}{
		{"luma", "luma", false},
		{"", "luma", false}, // default
		{"edge", "edge", false},
		{"contrast", "", true},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if detector.Name() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, detector.Name())
			}
		})
	}
}
