package renderer

import (
	"math"
	"sort"

	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/emitter"
	"github.com/ivlev/loopgen/internal/motion"
)

// Resample returns the value of curve c at a fractional frame, the way a
// scene collaborator would evaluate it between keys. The curve is treated as
// one loop: the key after the last one is the first key again, one period
// on, and frames outside the keyed range wrap into it. e supplies the wrap
// range of wrap-translated position tracks.
func Resample(c emitter.Curve, e element.Element, frame float64) element.Vec3 {
	keys := c.Keys
	n := len(keys)
	if n == 0 {
		return element.Vec3{}
	}
	if n == 1 {
		return keys[0].Value
	}

	first := float64(keys[0].Frame)
	period := float64(keys[n-1].Frame-keys[0].Frame) + float64(keys[1].Frame-keys[0].Frame)
	frame = first + math.Mod(frame-first, period)
	if frame < first {
		frame += period
	}

	// last key at or before frame; j == n is the first key of the next loop
	j := sort.Search(n, func(i int) bool { return float64(keys[i].Frame) > frame })
	i := j - 1
	next := first + period
	if j < n {
		next = float64(keys[j].Frame)
	}
	u := (frame - float64(keys[i].Frame)) / (next - float64(keys[i].Frame))
	if u == 0 {
		return keys[i].Value
	}

	out := keys[i].Value
	for _, a := range c.Axes.List() {
		var v float64
		switch c.Interpolation {
		case emitter.Linear:
			v = lerpLinear(c, e, a, loopKey(c, i, a), loopKey(c, j, a), u)
		default:
			v = catmullRom(loopKey(c, i-1, a), loopKey(c, i, a), loopKey(c, j, a), loopKey(c, j+1, a), u)
		}
		out = out.With(a, v)
	}
	return out
}

// loopKey is component a of key k, with indices outside [0, n) taken from
// the neighbouring loop. Spin keys of the next loop are shifted by whole
// turns so the drift continues instead of unwinding.
func loopKey(c emitter.Curve, k int, a element.Axis) float64 {
	keys := c.Keys
	n := len(keys)
	switch {
	case k < 0:
		return keys[k+n].Value.Get(a)
	case k < n:
		return keys[k].Value.Get(a)
	}

	v := keys[k-n].Value.Get(a)
	if c.Channel == emitter.ChannelRotation && c.Interpolation == emitter.Linear {
		last, prev := keys[n-1].Value.Get(a), keys[n-2].Value.Get(a)
		want := last + float64(k-n+1)*(last-prev)
		v += 2 * math.Pi * math.Round((want-v)/(2*math.Pi))
	}
	return v
}

func lerpLinear(c emitter.Curve, e element.Element, a element.Axis, from, to, u float64) float64 {
	span := e.Motion.Span
	if c.Channel != emitter.ChannelPosition || !e.Kind.Wraps() || a != e.Motion.Axis || span <= 0 {
		return from + (to-from)*u
	}

	// travel the short way round and fold back into the wrap range
	d := to - from
	d -= span * math.Round(d/span)
	base := e.Position.Get(a)
	rel := from + d*u - base
	return base + motion.WrapTranslate(0, rel+span/2, 0, span)
}

// catmullRom is the uniform Catmull-Rom spline through p1 and p2.
func catmullRom(p0, p1, p2, p3, u float64) float64 {
	u2 := u * u
	u3 := u2 * u
	return 0.5 * (2*p1 +
		(p2-p0)*u +
		(2*p0-5*p1+4*p2-p3)*u2 +
		(3*p1-p0-3*p2+p3)*u3)
}

// Pose evaluates every curve of one element at a fractional frame. Channels
// without a curve keep the element's base value.
func Pose(e element.Element, curves []emitter.Curve, frame float64) emitter.Transform {
	tr := emitter.Transform{Position: e.Position, Rotation: e.Rotation, Scale: e.Scale}
	for _, c := range curves {
		v := Resample(c, e, frame)
		switch c.Channel {
		case emitter.ChannelPosition:
			tr.Position = v
		case emitter.ChannelRotation:
			tr.Rotation = v
		case emitter.ChannelScale:
			tr.Scale = v
		}
	}
	return tr
}
