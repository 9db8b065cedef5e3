package renderer

import (
	"math"

	"github.com/ivlev/loopgen/internal/element"
)

// face is one filled polygon of a mesh. Extra loops wound the other way cut
// holes.
type face [][]element.Vec3

// torusTube is the tube radius of the preview torus relative to its size.
const torusTube = 0.08

// meshFor returns the unit mesh of a shape; size scales it.
func meshFor(shape string) []face {
	switch shape {
	case "hexagon":
		return []face{{circle(1, 6, math.Pi/6, false)}}
	case "plane":
		return []face{{{
			element.V(-0.5, -0.5, 0), element.V(0.5, -0.5, 0),
			element.V(0.5, 0.5, 0), element.V(-0.5, 0.5, 0),
		}}}
	case "cube":
		return cube()
	case "icosphere":
		return octahedron()
	case "torus":
		return []face{{
			circle(1+torusTube, 32, 0, false),
			circle(1-torusTube, 32, 0, true),
		}}
	default:
		return []face{{circle(0.5, 4, math.Pi/4, false)}}
	}
}

func circle(r float64, n int, start float64, reverse bool) []element.Vec3 {
	pts := make([]element.Vec3, n)
	for i := range pts {
		k := i
		if reverse {
			k = n - 1 - i
		}
		a := start + 2*math.Pi*float64(k)/float64(n)
		pts[i] = element.V(r*math.Cos(a), r*math.Sin(a), 0)
	}
	return pts
}

func cube() []face {
	v := func(x, y, z float64) element.Vec3 { return element.V(x/2, y/2, z/2) }
	return []face{
		{{v(-1, -1, 1), v(1, -1, 1), v(1, 1, 1), v(-1, 1, 1)}},
		{{v(-1, -1, -1), v(-1, 1, -1), v(1, 1, -1), v(1, -1, -1)}},
		{{v(-1, -1, -1), v(1, -1, -1), v(1, -1, 1), v(-1, -1, 1)}},
		{{v(-1, 1, -1), v(-1, 1, 1), v(1, 1, 1), v(1, 1, -1)}},
		{{v(-1, -1, -1), v(-1, -1, 1), v(-1, 1, 1), v(-1, 1, -1)}},
		{{v(1, -1, -1), v(1, 1, -1), v(1, 1, 1), v(1, -1, 1)}},
	}
}

// octahedron stands in for the icosphere at preview resolution.
func octahedron() []face {
	top, bottom := element.V(0, 0, 0.5), element.V(0, 0, -0.5)
	ring := circle(0.5, 4, 0, false)
	var faces []face
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		faces = append(faces, face{{a, b, top}}, face{{b, a, bottom}})
	}
	return faces
}
