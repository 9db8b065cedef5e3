package renderer

import (
	"math"

	"github.com/ivlev/loopgen/internal/element"
)

// Camera is a perspective camera on the +Z axis looking at the origin,
// Y up.
type Camera struct {
	Distance float64
	FOV      float64 // vertical field of view, radians
	Width    int
	Height   int
}

const (
	defaultFOV = 50 * math.Pi / 180
	nearPlane  = 0.1
)

// FitCamera places the camera so that every element, including the full
// wrap range of travelling ones, fits the frame. The wrap point is in view;
// stream particles pass it at zero scale.
func FitCamera(elements []element.Element, width, height int) Camera {
	c := Camera{FOV: defaultFOV, Width: width, Height: height}

	var ex, ey, ez float64
	for _, e := range elements {
		r := e.Size
		x := math.Abs(e.Position.X) + r
		y := math.Abs(e.Position.Y) + r
		z := math.Abs(e.Position.Z) + r
		if e.Kind.Wraps() {
			reach := e.Motion.Span/2 + r
			switch e.Motion.Axis {
			case element.AxisX:
				x = math.Max(x, reach)
			case element.AxisY:
				y = math.Max(y, reach)
			case element.AxisZ:
				z = math.Max(z, reach)
			}
		}
		ex, ey, ez = math.Max(ex, x), math.Max(ey, y), math.Max(ez, z)
	}

	tanY := math.Tan(c.FOV / 2)
	tanX := tanY * float64(width) / float64(height)
	c.Distance = 1.1*math.Max(ey/tanY, ex/tanX) + ez
	if c.Distance < 1 {
		c.Distance = 1
	}
	return c
}

// focal is the focal length in pixels.
func (c Camera) focal() float64 {
	return float64(c.Height) / 2 / math.Tan(c.FOV/2)
}

// Project maps a world point to pixel coordinates. ok is false for points
// behind the near plane.
func (c Camera) Project(p element.Vec3) (x, y, depth float64, ok bool) {
	depth = c.Distance - p.Z
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	f := c.focal()
	x = float64(c.Width)/2 + f*p.X/depth
	y = float64(c.Height)/2 - f*p.Y/depth
	return x, y, depth, true
}

// rotate applies Euler XYZ angles: X first, then Y, then Z.
func rotate(v, angles element.Vec3) element.Vec3 {
	sx, cx := math.Sincos(angles.X)
	sy, cy := math.Sincos(angles.Y)
	sz, cz := math.Sincos(angles.Z)

	y, z := v.Y*cx-v.Z*sx, v.Y*sx+v.Z*cx
	v = element.V(v.X, y, z)

	x, z := v.X*cy+v.Z*sy, -v.X*sy+v.Z*cy
	v = element.V(x, v.Y, z)

	x, y = v.X*cz-v.Y*sz, v.X*sz+v.Y*cz
	return element.V(x, y, v.Z)
}

// place transforms a local mesh point into world space.
func place(local element.Vec3, size float64, tr transformer) element.Vec3 {
	s := element.V(local.X*size*tr.scale.X, local.Y*size*tr.scale.Y, local.Z*size*tr.scale.Z)
	return rotate(s, tr.rotation).Add(tr.position)
}

type transformer struct {
	position, rotation, scale element.Vec3
}
