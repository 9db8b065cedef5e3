// Package element defines the motion element: one animated primitive with
// its placement and the parameters its motion functions are driven with.
//
// Elements are values. A pattern generator creates them once, after which
// they are only read: every animated value is a pure function of an element
// and a time, never a mutation of the element.
package element

import (
	"fmt"
	"strings"
)

// Kind selects which motion functions drive an element.
type Kind int

const (
	WavePulse     Kind = iota // Oscillate on one position axis and on scale
	FoldRotate                // FoldRotate on one rotation axis, Oscillate on scale
	StreamWrap                // WrapTranslate on the travel axis, spin drift
	RingPulseWrap             // Oscillate on scale, WrapTranslate on the travel axis, spin drift
)

var kindNames = map[Kind]string{
	WavePulse:     "wave_pulse",
	FoldRotate:    "fold_rotate",
	StreamWrap:    "stream_wrap",
	RingPulseWrap: "ring_pulse_wrap",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Wraps reports whether the kind translates with WrapTranslate.
func (k Kind) Wraps() bool { return k == StreamWrap || k == RingPulseWrap }

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown motion kind %q", s)
}

func (k Kind) MarshalYAML() (interface{}, error) { return k.String(), nil }

func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Motion holds the motion-function parameters of an element. Which fields
// matter depends on the element Kind.
type Motion struct {
	Axis             Axis    `yaml:"axis"`              // wave, fold or travel axis
	Amplitude        float64 `yaml:"amplitude"`         // wave displacement or fold max angle (radians)
	AngularFrequency float64 `yaml:"angular_frequency"` // wave and pulse
	Pulse            float64 `yaml:"pulse"`             // relative scale pulse amplitude
	PulseAxes        Axes    `yaml:"pulse_axes"`
	Span             float64 `yaml:"span"`           // wrap range
	Spin             Vec3    `yaml:"spin"`           // rotation drift, rad/s
	Fade             float64 `yaml:"fade,omitempty"` // wrap fade width, see motion.WrapFade
}

// Element is one animated visual primitive.
type Element struct {
	ID   string `yaml:"id"`
	Kind Kind   `yaml:"kind"`

	Position Vec3 `yaml:"position"`
	Rotation Vec3 `yaml:"rotation"`
	Scale    Vec3 `yaml:"scale"`

	Phase       float64 `yaml:"phase"`
	Speed       float64 `yaml:"speed"`
	StartOffset float64 `yaml:"start_offset"`
	Motion      Motion  `yaml:"motion"`

	// Passed through untouched for the scene collaborator.
	Material string  `yaml:"material,omitempty"`
	Shape    string  `yaml:"shape,omitempty"`
	Size     float64 `yaml:"size,omitempty"`
}

// Validate checks the ranges every motion function relies on.
func (e Element) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("element: empty id")
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("element %s: invalid kind %d", e.ID, int(e.Kind))
	}
	if !e.Motion.Axis.Valid() {
		return fmt.Errorf("element %s: invalid axis %d", e.ID, int(e.Motion.Axis))
	}
	if !e.Position.Finite() || !e.Rotation.Finite() || !e.Scale.Finite() || !e.Motion.Spin.Finite() {
		return fmt.Errorf("element %s: non-finite placement", e.ID)
	}
	for name, v := range map[string]float64{
		"phase":             e.Phase,
		"speed":             e.Speed,
		"start_offset":      e.StartOffset,
		"amplitude":         e.Motion.Amplitude,
		"angular_frequency": e.Motion.AngularFrequency,
		"pulse":             e.Motion.Pulse,
		"fade":              e.Motion.Fade,
	} {
		if !finite(v) {
			return fmt.Errorf("element %s: %s is not finite", e.ID, name)
		}
	}
	if e.Kind.Wraps() && !(e.Motion.Span > 0) {
		return fmt.Errorf("element %s: wrap span must be positive, got %g", e.ID, e.Motion.Span)
	}
	if e.Motion.Fade < 0 || e.Motion.Fade > e.Motion.Span/2 {
		return fmt.Errorf("element %s: fade must lie in [0, span/2], got %g", e.ID, e.Motion.Fade)
	}
	return nil
}
