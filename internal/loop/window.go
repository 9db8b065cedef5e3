package loop

import (
	"fmt"
	"math"

	"github.com/ivlev/loopgen/internal/config"
)

// Window is the fixed frame range and frame rate of one loop repetition.
// Frame FrameEnd+1 is, by construction, the same instant as FrameStart.
type Window struct {
	FrameStart int `yaml:"frame_start"`
	FrameEnd   int `yaml:"frame_end"`
	FPS        int `yaml:"fps"`
}

// New validates the frame range and frame rate.
func New(frameStart, frameEnd, fps int) (Window, error) {
	if fps <= 0 {
		return Window{}, &config.ConfigError{Field: "window.fps", Reason: fmt.Sprintf("must be positive, got %d", fps)}
	}
	if frameEnd <= frameStart {
		return Window{}, &config.ConfigError{
			Field:  "window.frame_end",
			Reason: fmt.Sprintf("must be greater than frame_start (%d), got %d", frameStart, frameEnd),
		}
	}
	return Window{FrameStart: frameStart, FrameEnd: frameEnd, FPS: fps}, nil
}

// FromConfig builds a Window from its raw config section.
func FromConfig(c config.WindowConfig) (Window, error) {
	return New(c.FrameStart, c.FrameEnd, c.FPS)
}

// FrameCount is the number of frames in the window, both ends included.
func (w Window) FrameCount() int {
	return w.FrameEnd - w.FrameStart + 1
}

// PeriodSeconds is the duration of one repetition.
func (w Window) PeriodSeconds() float64 {
	return float64(w.FrameCount()) / float64(w.FPS)
}

// TimeAt maps a frame index to seconds since FrameStart. Frames outside the
// window are allowed: TimeAt(FrameEnd+1) == PeriodSeconds().
func (w Window) TimeAt(frame int) float64 {
	return float64(frame-w.FrameStart) / float64(w.FPS)
}

// Contains reports whether frame lies in [FrameStart, FrameEnd].
func (w Window) Contains(frame int) bool {
	return frame >= w.FrameStart && frame <= w.FrameEnd
}

// Frames lists every frame of the window in order.
func (w Window) Frames() []int {
	frames := make([]int, 0, w.FrameCount())
	for f := w.FrameStart; f <= w.FrameEnd; f++ {
		frames = append(frames, f)
	}
	return frames
}

// Cycles is the number of periods of a sinusoid with the given angular
// frequency that fit in one window.
func (w Window) Cycles(angularFrequency float64) float64 {
	return w.PeriodSeconds() * angularFrequency / (2 * math.Pi)
}

func (w Window) String() string {
	return fmt.Sprintf("frames %d-%d @ %d fps (%.3fs)", w.FrameStart, w.FrameEnd, w.FPS, w.PeriodSeconds())
}
