package pattern

import (
	"fmt"
	"math"

	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/loop"
)

// Rings spaces rings evenly along the travel axis. The wrap span is exactly
// Spacing*NumRings, so when ring i wraps, ring i+1 is one spacing ahead of it
// and the lattice keeps the same gaps on both sides of the teleport.
type Rings struct {
	Config config.RingsConfig
}

func (g *Rings) Name() string { return config.PatternRings }

func (g *Rings) validate() error {
	c := g.Config
	err := config.FirstError(
		config.Positive("rings.num_rings", c.NumRings),
		config.PositiveFloat("rings.spacing", c.Spacing),
		config.Finite("rings.speed", c.Speed),
		config.Finite("rings.phase_step", c.PhaseStep),
		config.Finite("rings.pulse_amplitude", c.PulseAmplitude),
		config.Finite("rings.spin", c.Spin),
		config.PositiveFloat("rings.major_radius", c.MajorRadius),
		config.PositiveFloat("rings.minor_radius", c.MinorRadius),
	)
	if err != nil {
		return err
	}
	if len(c.Materials) == 0 {
		return &config.ConfigError{Field: "rings.materials", Reason: "at least one material is required"}
	}
	return nil
}

// Span is the wrap range shared by every ring.
func (g *Rings) Span() float64 {
	return g.Config.Spacing * float64(g.Config.NumRings)
}

func (g *Rings) Generate() ([]element.Element, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	c := g.Config
	span := g.Span()
	elements := make([]element.Element, 0, c.NumRings)

	for i := 0; i < c.NumRings; i++ {
		elements = append(elements, element.Element{
			ID:          fmt.Sprintf("ring_%02d", i),
			Kind:        element.RingPulseWrap,
			Scale:       element.One,
			Phase:       float64(i) * c.PhaseStep,
			Speed:       c.Speed,
			StartOffset: float64(i) * c.Spacing,
			Motion: element.Motion{
				Axis:             element.AxisY,
				AngularFrequency: 2 * math.Pi,
				Pulse:            c.PulseAmplitude,
				PulseAxes:        element.AxesXYZ,
				Span:             span,
				Spin:             element.V(0, 0, c.Spin),
			},
			Material: c.Materials[i%len(c.Materials)],
			Shape:    "torus",
			Size:     c.MajorRadius,
		})
	}

	return validateAll(elements)
}

// HandoffFrames is the number of frames ring i needs to reach the position
// ring i+1 holds now. whole is false when that is not an integer frame count.
func (g *Rings) HandoffFrames(w loop.Window) (frames float64, whole bool) {
	if g.Config.Speed == 0 {
		return math.Inf(1), false
	}
	frames = g.Config.Spacing / math.Abs(g.Config.Speed) * float64(w.FPS)
	return frames, math.Abs(frames-math.Round(frames)) < 1e-9
}

// Check covers the pulse and the travel. Each ring carries its own pulse
// phase, so the set only repeats when every ring covers whole spans. The
// spin turns a torus about its own symmetry axis and is not checked.
func (g *Rings) Check(w loop.Window) []loop.LoopMismatchWarning {
	var out []loop.LoopMismatchWarning
	out = appendWarning(out, w.CheckFrequency(g.Name()+".pulse", 2*math.Pi))
	out = appendWarning(out, w.CheckTravel(g.Name()+".travel", g.Config.Speed, g.Span()))
	return out
}
