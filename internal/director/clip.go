package director

import (
	"github.com/ivlev/loopgen/internal/element"
	"github.com/ivlev/loopgen/internal/emitter"
	"github.com/ivlev/loopgen/internal/loop"
)

// ClipVersion is the clip document format version.
const ClipVersion = "1.0"

// Clip is everything a scene collaborator needs to build one background loop
type Clip struct {
	Version  string                     `yaml:"version"`
	Pattern  string                     `yaml:"pattern"`
	Slot     string                     `yaml:"slot"` // output name, e.g. 01_expanding_hexagon_grid
	Window   loop.Window                `yaml:"window"`
	Render   RenderHints                `yaml:"render"`
	Warnings []loop.LoopMismatchWarning `yaml:"warnings,omitempty"`
	Elements []element.Element          `yaml:"elements"`
	Curves   []emitter.Curve            `yaml:"curves"`
}

// RenderHints are the output settings the clip was built for
type RenderHints struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Preset string `yaml:"preset,omitempty"`
}

// Element returns the element record with the given id
func (c *Clip) Element(id string) (element.Element, bool) {
	for _, e := range c.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return element.Element{}, false
}

// Curve returns the curve of one channel of one element
func (c *Clip) Curve(id string, ch emitter.Channel) (emitter.Curve, bool) {
	for _, cv := range c.Curves {
		if cv.ElementID == id && cv.Channel == ch {
			return cv, true
		}
	}
	return emitter.Curve{}, false
}

// ElementCurves groups curves by element id
func (c *Clip) ElementCurves() map[string][]emitter.Curve {
	out := make(map[string][]emitter.Curve, len(c.Elements))
	for _, cv := range c.Curves {
		out[cv.ElementID] = append(out[cv.ElementID], cv)
	}
	return out
}

// Looped reports whether the clip was built without loop warnings
func (c *Clip) Looped() bool {
	return len(c.Warnings) == 0
}
