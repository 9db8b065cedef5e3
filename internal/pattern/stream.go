package pattern

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/loop"
)

// spinRatio spreads one spin rate over the three rotation axes.
var spinRatio = element.V(1, 0.7, 0.5)

// Stream scatters vertical columns of particles that rise and wrap around.
// All randomness comes from one generator seeded with Config.Seed; the draw
// order (column x, column z, then shape and speed per particle) is part of
// the output contract.
type Stream struct {
	Config config.StreamConfig
	// Window is only read when Config.LoopLock is set.
	Window config.WindowConfig
}

func (g *Stream) Name() string { return config.PatternStream }

func (g *Stream) validate() error {
	c := g.Config
	if c.Seed == nil {
		return &config.ConfigError{Field: "stream.seed", Reason: "an explicit seed is required for reproducible output"}
	}
	err := config.FirstError(
		config.Positive("stream.num_streams", c.NumStreams),
		config.Positive("stream.particles_per_stream", c.ParticlesPerStream),
		config.PositiveFloat("stream.spread", c.Spread),
		config.PositiveFloat("stream.unit_spacing", c.UnitSpacing),
		config.PositiveFloat("stream.travel_span", c.TravelSpan),
		config.PositiveFloat("stream.min_speed", c.MinSpeed),
		config.PositiveFloat("stream.max_speed", c.MaxSpeed),
		config.Finite("stream.spin_per_unit", c.SpinPerUnit),
		config.PositiveFloat("stream.particle_size", c.ParticleSize),
	)
	if err != nil {
		return err
	}
	if c.MaxSpeed < c.MinSpeed {
		return &config.ConfigError{Field: "stream.max_speed", Reason: fmt.Sprintf("must be >= min_speed (%g), got %g", c.MinSpeed, c.MaxSpeed)}
	}
	if c.FadeDistance < 0 || c.FadeDistance > c.TravelSpan/2 || math.IsNaN(c.FadeDistance) {
		return &config.ConfigError{Field: "stream.fade_distance", Reason: fmt.Sprintf("must lie in [0, travel_span/2], got %g", c.FadeDistance)}
	}
	if len(c.Materials) == 0 {
		return &config.ConfigError{Field: "stream.materials", Reason: "at least one material is required"}
	}
	return nil
}

func (g *Stream) Generate() ([]element.Element, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	var period float64
	if g.Config.LoopLock {
		w, err := loop.FromConfig(g.Window)
		if err != nil {
			return nil, err
		}
		period = w.PeriodSeconds()
	}
	return g.generate(period)
}

// generate places the particles; a non-zero period locks speeds and spins
// to whole cycles of that many seconds.
func (g *Stream) generate(period float64) ([]element.Element, error) {
	c := g.Config

	r := rand.New(rand.NewSource(*c.Seed))
	elements := make([]element.Element, 0, c.NumStreams*c.ParticlesPerStream)

	for s := 0; s < c.NumStreams; s++ {
		x := -c.Spread + r.Float64()*2*c.Spread
		z := -c.Spread + r.Float64()*2*c.Spread
		material := c.Materials[s%len(c.Materials)]

		for p := 0; p < c.ParticlesPerStream; p++ {
			shape := "icosphere"
			if r.Float64() > 0.5 {
				shape = "cube"
			}
			speed := c.MinSpeed + r.Float64()*(c.MaxSpeed-c.MinSpeed)
			spin := spinRatio.Scale(speed * c.SpinPerUnit)

			if period > 0 {
				speed = lockTravel(speed, c.TravelSpan, period)
				spin = element.V(lockTurns(spin.X, period), lockTurns(spin.Y, period), lockTurns(spin.Z, period))
			}

			elements = append(elements, element.Element{
				ID:          fmt.Sprintf("stream_%02d_p%02d", s, p),
				Kind:        element.StreamWrap,
				Position:    element.V(x, 0, z),
				Scale:       element.One,
				Speed:       speed,
				StartOffset: float64(p) * c.UnitSpacing,
				Motion: element.Motion{
					Axis: element.AxisY,
					Span: c.TravelSpan,
					Spin: spin,
					Fade: c.FadeDistance,
				},
				Material: material,
				Shape:    shape,
				Size:     c.ParticleSize,
			})
		}
	}

	return validateAll(elements)
}

// Check aggregates per-particle mismatches into one warning per quantity.
// With LoopLock set the speeds are locked to g.Window; checking against a
// window of another length adds a loop_lock warning ahead of the rest.
func (g *Stream) Check(w loop.Window) []loop.LoopMismatchWarning {
	elements, err := g.Generate()
	if err != nil {
		return nil
	}

	var out []loop.LoopMismatchWarning
	if g.Config.LoopLock {
		locked, _ := loop.FromConfig(g.Window)
		if lp := locked.PeriodSeconds(); math.Abs(lp-w.PeriodSeconds()) > loop.CycleTolerance*lp {
			out = append(out, loop.LoopMismatchWarning{
				Source:   g.Name() + ".loop_lock",
				Quantity: "loop_lock",
				Value:    lp,
				Cycles:   w.PeriodSeconds() / lp,
			})
		}
	}

	var travel, spin *loop.LoopMismatchWarning
	var travelCount, spinCount int
	for _, e := range elements {
		if tw := w.CheckTravel(e.ID, e.Speed, e.Motion.Span); tw != nil {
			travelCount++
			if travel == nil {
				travel = tw
			}
		}
		for _, rate := range e.Motion.Spin.Components() {
			if sw := w.CheckRotation(e.ID, rate); sw != nil {
				spinCount++
				if spin == nil {
					spin = sw
				}
				break
			}
		}
	}

	if travel != nil {
		travel.Source = fmt.Sprintf("%s (%d/%d particles, first %s)", g.Name(), travelCount, len(elements), travel.Source)
		out = append(out, *travel)
	}
	if spin != nil {
		spin.Source = fmt.Sprintf("%s (%d/%d particles, first %s)", g.Name(), spinCount, len(elements), spin.Source)
		out = append(out, *spin)
	}
	return out
}

// lockTravel rounds speed to the nearest non-zero multiple of span/period so
// a particle covers whole spans per window.
func lockTravel(speed, span, period float64) float64 {
	step := span / period
	k := math.Round(speed / step)
	if k < 1 {
		k = 1
	}
	return k * step
}

// lockTurns rounds a spin rate to whole turns per window.
func lockTurns(rate, period float64) float64 {
	step := 2 * math.Pi / period
	return math.Round(rate/step) * step
}
