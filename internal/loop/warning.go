package loop

import (
	"fmt"
	"math"
)

// CycleTolerance is how far a cycle count may sit from an integer and still
// count as a whole number of cycles.
const CycleTolerance = 1e-9

// LoopMismatchWarning reports a motion parameter that does not repeat a
// whole number of times per window. Generation still proceeds with the given
// values; the seam is visible in the output.
type LoopMismatchWarning struct {
	Source   string  `yaml:"source"`   // generator or element that owns the parameter
	Quantity string  `yaml:"quantity"` // e.g. "angular_frequency", "travel"
	Value    float64 `yaml:"value"`
	Cycles   float64 `yaml:"cycles"`
}

func (w LoopMismatchWarning) String() string {
	return fmt.Sprintf("%s: %s=%g completes %.6f cycles per window (not a whole number)",
		w.Source, w.Quantity, w.Value, w.Cycles)
}

// CheckFrequency returns a warning when a sinusoid with angular frequency
// omega does not fit a whole number of cycles in the window.
func (w Window) CheckFrequency(source string, omega float64) *LoopMismatchWarning {
	cycles := w.Cycles(omega)
	if isWhole(cycles) {
		return nil
	}
	return &LoopMismatchWarning{Source: source, Quantity: "angular_frequency", Value: omega, Cycles: cycles}
}

// CheckTravel is the wrap-translation analogue of CheckFrequency: the
// distance covered in one window must be a whole multiple of span.
func (w Window) CheckTravel(source string, speed, span float64) *LoopMismatchWarning {
	if span <= 0 {
		return &LoopMismatchWarning{Source: source, Quantity: "travel", Value: speed, Cycles: math.NaN()}
	}
	cycles := speed * w.PeriodSeconds() / span
	if isWhole(cycles) {
		return nil
	}
	return &LoopMismatchWarning{Source: source, Quantity: "travel", Value: speed, Cycles: cycles}
}

// CheckRotation checks that a constant spin rate (rad/s) turns a whole
// number of revolutions per window.
func (w Window) CheckRotation(source string, rate float64) *LoopMismatchWarning {
	cycles := w.Cycles(rate)
	if isWhole(cycles) {
		return nil
	}
	return &LoopMismatchWarning{Source: source, Quantity: "spin", Value: rate, Cycles: cycles}
}

func isWhole(x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	return math.Abs(x-math.Round(x)) <= CycleTolerance*math.Max(1, math.Abs(x))
}
