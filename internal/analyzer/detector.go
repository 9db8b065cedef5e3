package analyzer

import (
	"fmt"
	"image"
	"math"
)

// DefaultSeamRatio is how much larger than the largest step inside the loop
// the jump from the last frame back to the first may be before the seam
// counts as visible.
const DefaultSeamRatio = 1.5

// Detector measures how different two frames look, 0 for identical frames.
type Detector interface {
	Name() string
	Diff(a, b image.Image) (float64, error)
}

// SeamReport compares the jump at the loop point with the ordinary
// frame-to-frame change inside the loop.
type SeamReport struct {
	Detector string  `yaml:"detector"`
	Seam     float64 `yaml:"seam"`     // last frame -> first frame
	Baseline float64 `yaml:"baseline"` // mean of consecutive frames
	Peak     float64 `yaml:"peak"`     // largest consecutive step
	Ratio    float64 `yaml:"ratio"`    // Seam / Peak
	Visible  bool    `yaml:"visible"`
}

func (r SeamReport) String() string {
	state := "незаметен"
	if r.Visible {
		state = "ЗАМЕТЕН"
	}
	return fmt.Sprintf("шов %s (%s): скачок %.5f, шаг в среднем %.5f, максимум %.5f, x%.2f",
		state, r.Detector, r.Seam, r.Baseline, r.Peak, r.Ratio)
}

// FrameFunc returns frame i of a loop, 0 <= i < count.
type FrameFunc func(i int) (image.Image, error)

// Analyze renders the loop once through frame and compares the wrap step
// (count-1 -> 0) with the steps inside it. Only two frames are held at a
// time.
func Analyze(d Detector, count int, frame FrameFunc, ratio float64) (SeamReport, error) {
	report := SeamReport{Detector: d.Name()}
	if count < 3 {
		return report, fmt.Errorf("need at least 3 frames to analyze a loop, got %d", count)
	}

	first, err := frame(0)
	if err != nil {
		return report, err
	}

	prev := first
	var sum float64
	for i := 1; i < count; i++ {
		cur, err := frame(i)
		if err != nil {
			return report, err
		}
		diff, err := d.Diff(prev, cur)
		if err != nil {
			return report, fmt.Errorf("frames %d-%d: %w", i-1, i, err)
		}
		sum += diff
		report.Peak = math.Max(report.Peak, diff)
		prev = cur
	}

	report.Seam, err = d.Diff(prev, first)
	if err != nil {
		return report, fmt.Errorf("seam: %w", err)
	}
	report.Baseline = sum / float64(count-1)

	// a still loop has no steps to compare with: any change at the wrap shows
	switch {
	case report.Peak > 0:
		report.Ratio = report.Seam / report.Peak
	case report.Seam > 0:
		report.Ratio = math.Inf(1)
	default:
		report.Ratio = 1
	}
	report.Visible = report.Ratio > ratio
	return report, nil
}
