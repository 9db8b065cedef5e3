package director

import (
	"context"
	"fmt"
	"log"

	"github.com/ivlev/loopgen/internal/config"
	"github.com/ivlev/loopgen/internal/emitter"
	"github.com/ivlev/loopgen/internal/loop"
	"github.com/ivlev/loopgen/internal/pattern"
)

// Director turns a run configuration into a clip
type Director struct {
	Workers int  // emitter goroutines, <= 0 means one per element
	Verbose bool // print loop warnings as they are found
}

// NewDirector creates a new Director with default settings
func NewDirector(workers int) *Director {
	return &Director{
		Workers: workers,
		Verbose: true,
	}
}

// Build generates the elements of cfg.Pattern, checks them against the loop
// window and samples every frame. Loop warnings are kept in the clip; only
// configuration errors and cancellation fail the build.
func (d *Director) Build(ctx context.Context, cfg config.Config) (*Clip, error) {
	w, err := loop.FromConfig(cfg.Window)
	if err != nil {
		return nil, err
	}

	gen, err := pattern.New(cfg)
	if err != nil {
		return nil, err
	}

	elements, err := gen.Generate()
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("pattern %s produced no elements", gen.Name())
	}

	warnings := gen.Check(w)
	if d.Verbose {
		for _, warn := range warnings {
			log.Printf("[!] Шов петли: %s", warn)
		}
	}

	samples, err := emitter.EmitParallel(ctx, elements, w, d.Workers)
	if err != nil {
		return nil, fmt.Errorf("emit %s: %w", gen.Name(), err)
	}

	return &Clip{
		Version:  ClipVersion,
		Pattern:  gen.Name(),
		Slot:     config.Slot(gen.Name()),
		Window:   w,
		Render:   RenderHints{Width: cfg.Render.Width, Height: cfg.Render.Height, Preset: cfg.Render.Preset},
		Warnings: warnings,
		Elements: elements,
		Curves:   emitter.Curves(samples),
	}, nil
}
