// Package emitter samples motion elements over a loop window.
//
// Sampling is a pure map: each element's samples depend only on the element
// and the window, so Emit and EmitParallel return the same slice bit for bit.
package emitter

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/loop"
	"github.com/ivlev/loopgen/internal/motion"
)

// Tracks returns the channels animated for e, in sample order.
func Tracks(e element.Element) []Track {
	m := e.Motion
	var tracks []Track

	switch e.Kind {
	case element.WavePulse:
		tracks = append(tracks, Track{ChannelPosition, element.Only(m.Axis), Smooth})
	case element.FoldRotate:
		tracks = append(tracks, Track{ChannelRotation, element.Only(m.Axis), Smooth})
	case element.StreamWrap, element.RingPulseWrap:
		tracks = append(tracks, Track{ChannelPosition, element.Only(m.Axis), Linear})
	}

	scale, interp := m.PulseAxes, Smooth
	if e.Kind == element.StreamWrap {
		scale = element.AxesNone
	}
	// the fade drops to zero at the wrap; a spline would overshoot below it
	if e.Kind.Wraps() && m.Fade > 0 {
		scale, interp = element.AxesXYZ, Linear
	}
	if scale != element.AxesNone {
		tracks = append(tracks, Track{ChannelScale, scale, interp})
	}

	if e.Kind.Wraps() {
		if spin := spinAxes(m.Spin); spin != element.AxesNone {
			tracks = append(tracks, Track{ChannelRotation, spin, Linear})
		}
	}

	return tracks
}

func spinAxes(spin element.Vec3) element.Axes {
	var axes element.Axes
	for _, a := range []element.Axis{element.AxisX, element.AxisY, element.AxisZ} {
		if spin.Get(a) != 0 {
			axes |= element.Only(a)
		}
	}
	return axes
}

// Evaluate computes the transform of e at t seconds after the window start.
// t may lie outside the window; Evaluate(e, w.PeriodSeconds()) is the
// notional frame after the last one.
func Evaluate(e element.Element, t float64) Transform {
	m := e.Motion
	tr := Transform{Position: e.Position, Rotation: e.Rotation, Scale: e.Scale}

	switch e.Kind {
	case element.WavePulse:
		wave := motion.Oscillate(t, e.Phase, m.Amplitude, m.AngularFrequency)
		tr.Position = tr.Position.With(m.Axis, e.Position.Get(m.Axis)+wave)
		tr.Scale = pulse(e, t)

	case element.FoldRotate:
		fold := motion.FoldRotate(t, e.Phase, m.Amplitude)
		tr.Rotation = tr.Rotation.With(m.Axis, e.Rotation.Get(m.Axis)+fold)
		tr.Scale = pulse(e, t)

	case element.StreamWrap:
		tr.Position = travel(e, t)
		tr.Scale = e.Scale.Scale(fade(e, t))
		tr.Rotation = e.Rotation.Add(m.Spin.Scale(t))

	case element.RingPulseWrap:
		tr.Position = travel(e, t)
		tr.Scale = pulse(e, t).Scale(fade(e, t))
		tr.Rotation = e.Rotation.Add(m.Spin.Scale(t))
	}

	return tr
}

func pulse(e element.Element, t float64) element.Vec3 {
	k := 1 + motion.Oscillate(t, e.Phase, e.Motion.Pulse, e.Motion.AngularFrequency)
	return e.Scale.ScaleAxes(e.Motion.PulseAxes, k)
}

func travel(e element.Element, t float64) element.Vec3 {
	d := motion.WrapTranslate(t, e.StartOffset, e.Speed, e.Motion.Span)
	return e.Position.With(e.Motion.Axis, e.Position.Get(e.Motion.Axis)+d)
}

func fade(e element.Element, t float64) float64 {
	d := motion.WrapTranslate(t, e.StartOffset, e.Speed, e.Motion.Span)
	return motion.WrapFade(d, e.Motion.Span, e.Motion.Fade)
}

// SampleAt records the animated channels of e at one frame.
func SampleAt(e element.Element, w loop.Window, frame int) Sample {
	return sampleWith(e, Tracks(e), w, frame)
}

func sampleWith(e element.Element, tracks []Track, w loop.Window, frame int) Sample {
	tr := Evaluate(e, w.TimeAt(frame))
	channels := make([]ChannelSample, len(tracks))
	for i, track := range tracks {
		channels[i] = ChannelSample{Track: track, Value: tr.Get(track.Channel)}
	}
	return Sample{ElementID: e.ID, Frame: frame, Channels: channels}
}

func sampleElement(e element.Element, w loop.Window) []Sample {
	tracks := Tracks(e)
	samples := make([]Sample, 0, w.FrameCount())
	for f := w.FrameStart; f <= w.FrameEnd; f++ {
		samples = append(samples, sampleWith(e, tracks, w, f))
	}
	return samples
}

// Emit samples every element at every frame of w. Samples are ordered by
// element, then by frame.
func Emit(elements []element.Element, w loop.Window) []Sample {
	out := make([]Sample, 0, len(elements)*w.FrameCount())
	for _, e := range elements {
		out = append(out, sampleElement(e, w)...)
	}
	return out
}

// EmitParallel is Emit spread over up to workers goroutines (unbounded when
// workers <= 0). It only fails when ctx is cancelled.
func EmitParallel(ctx context.Context, elements []element.Element, w loop.Window, workers int) ([]Sample, error) {
	results := make([][]Sample, len(elements))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range elements {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = sampleElement(elements[i], w)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Sample, 0, len(elements)*w.FrameCount())
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
