// Package motion holds the stateless functions every pattern is animated
// with. All of them are total: any real input yields a finite value or the
// natural float result, and none of them fail.
package motion

import (
	"math"

	"github.com/tanema/gween/ease"
)

// FoldAngularFrequency is the fixed angular frequency of FoldRotate (one
// cycle per second of loop time).
const FoldAngularFrequency = 2 * math.Pi

// Oscillate returns amplitude*sin(angularFrequency*t + phase).
//
// The value at t=0 equals the value at t=PeriodSeconds of a loop window only
// when a whole number of cycles fits in the window; callers check that with
// loop.Window.CheckFrequency.
func Oscillate(t, phase, amplitude, angularFrequency float64) float64 {
	return amplitude * math.Sin(angularFrequency*t+phase)
}

// WrapTranslate maps an ever growing displacement startOffset+t*speed into
// [-span/2, span/2). The jump at the modulo boundary is a teleport; patterns
// place it off screen or hide it behind an identical element.
func WrapTranslate(t, startOffset, speed, span float64) float64 {
	if span <= 0 {
		return 0
	}
	d := math.Mod(startOffset+t*speed, span)
	if d < 0 {
		d += span
	}
	// d+span can round up to span for tiny negative d.
	if d >= span {
		d = 0
	}
	return d - span/2
}

// WrapFade is the visibility factor of a wrap-translated element at offset d
// in [-span/2, span/2). Within width/2 of the wrap point it is 0, so the
// teleport happens at zero size; it then eases in to 1 at width from the
// wrap point. A width of 0 disables the fade.
func WrapFade(d, span, width float64) float64 {
	if width <= 0 || span <= 0 {
		return 1
	}
	dist := math.Min(d+span/2, span/2-d)
	hold := width / 2
	switch {
	case dist >= width:
		return 1
	case dist <= hold:
		return 0
	}
	return float64(ease.InOutCubic(float32(dist-hold), 0, 1, float32(width-hold)))
}

// FoldRotate returns maxAngle*sin(2πt + phase).
func FoldRotate(t, phase, maxAngle float64) float64 {
	return maxAngle * math.Sin(FoldAngularFrequency*t+phase)
}
