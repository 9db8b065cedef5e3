package element

import (
	"fmt"
	"math"
	"strings"
)

// Vec3 is a position, Euler rotation (radians, XYZ order) or scale.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// One is the identity scale.
var One = Vec3{1, 1, 1}

func (v Vec3) Add(o Vec3) Vec3        { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(k float64) Vec3   { return Vec3{v.X * k, v.Y * k, v.Z * k} }
func (v Vec3) Len() float64           { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) String() string         { return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z) }
func (v Vec3) Finite() bool           { return finite(v.X) && finite(v.Y) && finite(v.Z) }
func (v Vec3) Components() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// Get returns the component on axis a.
func (v Vec3) Get(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// With returns a copy of v with the component on axis a replaced.
func (v Vec3) With(a Axis, value float64) Vec3 {
	switch a {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// ScaleAxes multiplies only the components selected by axes.
func (v Vec3) ScaleAxes(axes Axes, k float64) Vec3 {
	for _, a := range axes.List() {
		v = v.With(a, v.Get(a)*k)
	}
	return v
}

// Axis names one component of a Vec3.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

func (a Axis) Valid() bool { return a >= AxisX && a <= AxisZ }

func (a Axis) MarshalYAML() (interface{}, error) { return a.String(), nil }

func (a *Axis) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseAxis(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// Axes is a set of axes.
type Axes uint8

const (
	AxesNone Axes = 0
	AxesX    Axes = 1 << AxisX
	AxesY    Axes = 1 << AxisY
	AxesZ    Axes = 1 << AxisZ
	AxesXY        = AxesX | AxesY
	AxesXYZ       = AxesX | AxesY | AxesZ
)

// Only returns the set holding a single axis.
func Only(a Axis) Axes { return Axes(1) << a }

func (s Axes) Has(a Axis) bool { return s&Only(a) != 0 }

// List returns the axes in X, Y, Z order.
func (s Axes) List() []Axis {
	var out []Axis
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s Axes) String() string {
	var b strings.Builder
	for _, a := range s.List() {
		b.WriteString(a.String())
	}
	return b.String()
}

func (s Axes) MarshalYAML() (interface{}, error) { return s.String(), nil }

func (s *Axes) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	var out Axes
	for _, r := range str {
		a, err := ParseAxis(string(r))
		if err != nil {
			return err
		}
		out |= Only(a)
	}
	*s = out
	return nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
