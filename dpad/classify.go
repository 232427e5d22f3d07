package dpad

import "math"

// Sample is one stick reading; both axes are conventionally in [-1, 1] with
// +X pointing right and +Y pointing up.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Classify dispatches to Classify4 or Classify8 depending on c.Mode.
func Classify(s Sample, c Config) State {
	if c.Mode == FourWay {
		return Classify4(s, c)
	}
	return Classify8(s, c)
}

// cardinal8 returns the sign of the axis described by value if the point
// clears the margin-reduced deadzone, lies beyond the margin-reduced offset
// along that axis, and stays inside the slope-bounded cone around it.
func cardinal8(value, other, margin float64, c Config) int8 {
	near := c.Deadzone - margin
	if value*value+other*other < near*near {
		return 0
	}

	offset := c.Offset - margin
	if value > offset {
		if math.Abs(other/(value-offset))*c.Slope < 1 {
			return 1
		}
	} else if value < -offset {
		if math.Abs(other/(value+offset))*c.Slope < 1 {
			return -1
		}
	}
	return 0
}

// Classify8 classifies s with independent per-axis evaluation. Both axes
// active yields a diagonal.
func Classify8(s Sample, c Config) State {
	x, y := c.remap(s)

	ix := cardinal8(x, y, 0, c)
	nx := cardinal8(x, y, c.Debounce, c)
	iy := cardinal8(y, x, 0, c)
	ny := cardinal8(y, x, c.Debounce, c)

	switch {
	case ix != 0 && iy != 0:
		return State{Kind: Diagonal, Dir: fromAxes(ix, iy)}
	case nx != 0 && iy != 0:
		return State{Kind: DiagonalTransition, Dir: fromAxes(nx, iy)}
	case ny != 0 && ix != 0:
		return State{Kind: DiagonalTransition, Dir: fromAxes(ix, ny)}
	case nx != 0 && ny != 0:
		return State{Kind: DualTransition, Dir: fromAxes(nx, ny)}
	case ix != 0 || iy != 0:
		return State{Kind: Cardinal, Dir: fromAxes(ix, iy)}
	case nx != 0:
		return State{Kind: CardinalTransition, Dir: fromAxes(nx, 0)}
	case ny != 0:
		return State{Kind: CardinalTransition, Dir: fromAxes(0, ny)}
	}
	return State{Kind: Center}
}

// cardinal4 picks at most one active axis. The debounce values bias both the
// thresholds and the magnitude comparison in favor of their axis. Equal
// biased magnitudes go to y.
func cardinal4(x, y, dbx, dby float64, c Config) (rx, ry int8) {
	deadzone := math.Max(0, c.Deadzone-(dbx+dby))
	dist2 := x*x + y*y
	ox := c.Offset - dbx
	oy := c.Offset - dby

	if dist2 > deadzone*deadzone && (math.Abs(x) > ox || math.Abs(y) > oy) {
		if math.Abs(x)+dbx > math.Abs(y)+dby {
			return sign(x), 0
		}
		return 0, sign(y)
	}
	return 0, 0
}

// Classify4 classifies s so that at most one axis is ever reported.
func Classify4(s Sample, c Config) State {
	x, y := c.remap(s)

	ix, iy := cardinal4(x, y, 0, 0, c)
	nx, _ := cardinal4(x, y, c.Debounce, 0, c)
	_, ny := cardinal4(x, y, 0, c.Debounce, c)

	switch {
	case ix != 0 || iy != 0:
		return State{Kind: Cardinal, Dir: fromAxes(ix, iy)}
	case nx != 0 && ny != 0:
		// Both biased passes fire; report the x class so the result stays
		// on a single axis.
		return State{Kind: DualTransition, Dir: fromAxes(nx, 0)}
	case nx != 0:
		return State{Kind: CardinalTransition, Dir: fromAxes(nx, 0)}
	case ny != 0:
		return State{Kind: CardinalTransition, Dir: fromAxes(0, ny)}
	}
	return State{Kind: Center}
}

func sign(v float64) int8 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
