package emitter

import (
	"fmt"

	"github.com/ivlev/loopgen/internal/element"
)

// Channel is one transform channel of an element.
type Channel int

const (
	ChannelPosition Channel = iota
	ChannelRotation
	ChannelScale
)

func (c Channel) String() string {
	switch c {
	case ChannelPosition:
		return "position"
	case ChannelRotation:
		return "rotation"
	case ChannelScale:
		return "scale"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

func (c Channel) MarshalYAML() (interface{}, error) { return c.String(), nil }

func (c *Channel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for _, ch := range []Channel{ChannelPosition, ChannelRotation, ChannelScale} {
		if ch.String() == s {
			*c = ch
			return nil
		}
	}
	return fmt.Errorf("unknown channel %q", s)
}

// Interpolation tells the scene collaborator how to fill the gap between two
// consecutive samples of a channel.
type Interpolation int

const (
	// Smooth is auto-tangent Bezier; used for continuous periodic signals.
	Smooth Interpolation = iota
	// Linear is used for wrap-translate and constant-rate drift. Smoothing
	// across a wrap would bend the teleport into a visible curve.
	Linear
)

func (i Interpolation) String() string {
	switch i {
	case Smooth:
		return "smooth"
	case Linear:
		return "linear"
	}
	return fmt.Sprintf("interpolation(%d)", int(i))
}

func (i Interpolation) MarshalYAML() (interface{}, error) { return i.String(), nil }

func (i *Interpolation) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch s {
	case "smooth":
		*i = Smooth
	case "linear":
		*i = Linear
	default:
		return fmt.Errorf("unknown interpolation %q", s)
	}
	return nil
}

// Track describes one animated channel of an element.
type Track struct {
	Channel       Channel       `yaml:"channel"`
	Axes          element.Axes  `yaml:"axes"` // components that change
	Interpolation Interpolation `yaml:"interpolation"`
}

// ChannelSample is the value of one track at one frame.
type ChannelSample struct {
	Track `yaml:",inline"`
	Value element.Vec3 `yaml:"value,flow"`
}

// Sample is every animated channel of one element at one frame. Channels
// the element kind does not animate are absent.
type Sample struct {
	ElementID string          `yaml:"element"`
	Frame     int             `yaml:"frame"`
	Channels  []ChannelSample `yaml:"channels"`
}

// Value returns the sampled value of ch, if the element animates it.
func (s Sample) Value(ch Channel) (element.Vec3, bool) {
	for _, c := range s.Channels {
		if c.Channel == ch {
			return c.Value, true
		}
	}
	return element.Vec3{}, false
}

// Transform is the full evaluated transform of an element.
type Transform struct {
	Position element.Vec3
	Rotation element.Vec3
	Scale    element.Vec3
}

// Get returns the value of one channel.
func (t Transform) Get(ch Channel) element.Vec3 {
	switch ch {
	case ChannelPosition:
		return t.Position
	case ChannelRotation:
		return t.Rotation
	default:
		return t.Scale
	}
}
