package emitter

import "github.com/ivlev/loopgen/internal/element"

// Key is one keyframe of a curve.
type Key struct {
	Frame int          `yaml:"frame"`
	Value element.Vec3 `yaml:"value,flow"`
}

// Curve is the animation of one channel of one element across the window:
// the shape a scene collaborator applies keyframe by keyframe.
type Curve struct {
	ElementID string `yaml:"element"`
	Track     `yaml:",inline"`
	Keys      []Key `yaml:"keys"`
}

// Curves regroups samples per element and channel. Curves keep the order in
// which their element and channel first appear; keys keep sample order.
func Curves(samples []Sample) []Curve {
	type key struct {
		id string
		ch Channel
	}

	index := make(map[key]int)
	var curves []Curve

	for _, s := range samples {
		for _, c := range s.Channels {
			k := key{s.ElementID, c.Channel}
			i, ok := index[k]
			if !ok {
				i = len(curves)
				index[k] = i
				curves = append(curves, Curve{ElementID: s.ElementID, Track: c.Track})
			}
			curves[i].Keys = append(curves[i].Keys, Key{Frame: s.Frame, Value: c.Value})
		}
	}

	return curves
}
