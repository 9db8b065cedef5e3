// Package pattern places motion elements. Each generator owns one placement
// algorithm; the motion functions and the emitter are shared by all of them.
package pattern

import (
	"fmt"

	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/loop"
)

// Generator is the interface every pattern implements.
type Generator interface {
	// Name is the config.Pattern* name of the generator.
	Name() string
	// Generate returns freshly placed elements, or a *config.ConfigError and
	// no elements when the configuration is invalid.
	Generate() ([]element.Element, error)
	// Check reports motion parameters that do not repeat a whole number of
	// times in w.
	Check(w loop.Window) []loop.LoopMismatchWarning
}

// New creates the generator selected by cfg.Pattern.
func New(cfg config.Config) (Generator, error) {
	switch cfg.Pattern {
	case config.PatternHexGrid, "":
		return &HexGrid{Config: cfg.HexGrid}, nil
	case config.PatternOrigami:
		return &Origami{Config: cfg.Origami}, nil
	case config.PatternStream:
		return &Stream{Config: cfg.Stream, Window: cfg.Window}, nil
	case config.PatternRings:
		return &Rings{Config: cfg.Rings}, nil
	default:
		return nil, &config.ConfigError{Field: "pattern", Reason: fmt.Sprintf("unknown pattern %q", cfg.Pattern)}
	}
}

// Generate places the elements of the pattern selected by cfg.
func Generate(cfg config.Config) ([]element.Element, error) {
	g, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return g.Generate()
}

// Names lists the known patterns in slot order.
func Names() []string {
	return []string{config.PatternHexGrid, config.PatternOrigami, config.PatternStream, config.PatternRings}
}

// validateAll runs Element.Validate over a freshly built set. A failure here
// is a generator bug surfaced as a config error on the offending element.
func validateAll(elements []element.Element) ([]element.Element, error) {
	for _, e := range elements {
		if err := e.Validate(); err != nil {
			return nil, &config.ConfigError{Field: e.ID, Reason: err.Error()}
		}
	}
	return elements, nil
}

func appendWarning(dst []loop.LoopMismatchWarning, w *loop.LoopMismatchWarning) []loop.LoopMismatchWarning {
	if w == nil {
		return dst
	}
	return append(dst, *w)
}
