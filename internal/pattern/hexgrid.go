package pattern

import (
	"fmt"
	"math"

	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/loop"
)

// HexGrid places tiles on a hexagonal lattice. Phase grows with the distance
// from the origin, so the shared wave reads as a ripple moving outwards.
type HexGrid struct {
	Config config.HexGridConfig
}

func (g *HexGrid) Name() string { return config.PatternHexGrid }

func (g *HexGrid) validate() error {
	c := g.Config
	return config.FirstError(
		config.Positive("hexgrid.grid_size", c.GridSize),
		config.PositiveFloat("hexgrid.radius", c.Radius),
		config.Finite("hexgrid.phase_factor", c.PhaseFactor),
		config.Finite("hexgrid.wave_amplitude", c.WaveAmplitude),
		config.Finite("hexgrid.pulse_amplitude", c.PulseAmplitude),
		config.PositiveFloat("hexgrid.angular_frequency", c.AngularFrequency),
	)
}

// Offset returns the lattice position of a tile.
func (g *HexGrid) Offset(row, col int) (x, y float64) {
	r := g.Config.Radius
	x = float64(col) * r * math.Sqrt(3)
	y = float64(row) * r * 1.5
	if col%2 != 0 {
		y += r * 0.75
	}
	return x, y
}

func (g *HexGrid) Generate() ([]element.Element, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	c := g.Config
	n := c.GridSize
	elements := make([]element.Element, 0, (2*n+1)*(2*n+1))

	for row := -n; row <= n; row++ {
		for col := -n; col <= n; col++ {
			x, y := g.Offset(row, col)
			dist := math.Hypot(x, y)

			elements = append(elements, element.Element{
				ID:       fmt.Sprintf("hex_r%+d_c%+d", row, col),
				Kind:     element.WavePulse,
				Position: element.V(x, y, 0),
				Scale:    element.One,
				Phase:    c.PhaseFactor * dist,
				Motion: element.Motion{
					Axis:             element.AxisZ,
					Amplitude:        c.WaveAmplitude,
					AngularFrequency: c.AngularFrequency,
					Pulse:            c.PulseAmplitude,
					PulseAxes:        element.AxesXY,
				},
				Material: c.Material,
				Shape:    "hexagon",
				Size:     c.Radius * 0.9,
			})
		}
	}

	return validateAll(elements)
}

func (g *HexGrid) Check(w loop.Window) []loop.LoopMismatchWarning {
	var out []loop.LoopMismatchWarning
	return appendWarning(out, w.CheckFrequency(g.Name(), g.Config.AngularFrequency))
}
