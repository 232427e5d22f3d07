package dpad

import "math"

// Remap applies the squareness power curve to a single axis value:
//
//	v' = sign(v) * |v|^(1+squareness) * deadzone / deadzone^(1+squareness)
//
// The trailing factor keeps a point on the deadzone radius where it was, so
// changing squareness reshapes the response without growing or shrinking the
// deadzone. With deadzone <= 0 the factor is 1. Squareness 0 is the identity.
func Remap(v, squareness, deadzone float64) float64 {
	exp := 1 + squareness
	scale := 1.0
	if deadzone > 0 {
		scale = deadzone / math.Pow(deadzone, exp)
	}
	m := math.Pow(math.Abs(v), exp) * scale
	if v < 0 {
		return -m
	}
	return m
}

// remap applies Remap to both axes of s.
func (c Config) remap(s Sample) (x, y float64) {
	return Remap(s.X, c.Squareness, c.Deadzone), Remap(s.Y, c.Squareness, c.Deadzone)
}
