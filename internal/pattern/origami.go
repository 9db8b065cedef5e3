package pattern

import (
	"fmt"
	"math"

	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/loop"
	"github.com/ivlev/loopgen/internal/motion"
)

// Origami fans planes around the vertical axis and folds them about X.
// Phase follows the plane index, not its distance.
type Origami struct {
	Config config.OrigamiConfig
}

func (g *Origami) Name() string { return config.PatternOrigami }

func (g *Origami) validate() error {
	c := g.Config
	return config.FirstError(
		config.Positive("origami.num_planes", c.NumPlanes),
		config.PositiveFloat("origami.plane_size", c.PlaneSize),
		config.Finite("origami.phase_step", c.PhaseStep),
		config.Finite("origami.max_angle_deg", c.MaxAngleDeg),
		config.Finite("origami.pulse_amplitude", c.PulseAmplitude),
	)
}

func (g *Origami) Generate() ([]element.Element, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	c := g.Config
	step := 2 * math.Pi / float64(c.NumPlanes)
	elements := make([]element.Element, 0, c.NumPlanes)

	for i := 0; i < c.NumPlanes; i++ {
		elements = append(elements, element.Element{
			ID:       fmt.Sprintf("fold_%02d", i),
			Kind:     element.FoldRotate,
			Rotation: element.V(0, 0, float64(i)*step),
			Scale:    element.One,
			Phase:    float64(i) * c.PhaseStep,
			Motion: element.Motion{
				Axis:             element.AxisX,
				Amplitude:        c.MaxAngleDeg * math.Pi / 180,
				AngularFrequency: motion.FoldAngularFrequency,
				Pulse:            c.PulseAmplitude,
				PulseAxes:        element.AxesXY,
			},
			Material: c.Material,
			Shape:    "plane",
			Size:     c.PlaneSize,
		})
	}

	return validateAll(elements)
}

// Check also covers the fold itself: its one cycle per second is only whole
// for windows lasting a whole number of seconds.
func (g *Origami) Check(w loop.Window) []loop.LoopMismatchWarning {
	var out []loop.LoopMismatchWarning
	return appendWarning(out, w.CheckFrequency(g.Name()+".fold", motion.FoldAngularFrequency))
}
