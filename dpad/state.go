package dpad

import "strings"

// Direction is a d-pad bitmask, laid out like the gamepad dpad byte.
type Direction uint8

const (
	Up    Direction = 1 << 0
	Down  Direction = 1 << 1
	Left  Direction = 1 << 2
	Right Direction = 1 << 3

	Horizontal = Left | Right
	Vertical   = Up | Down
)

// Hat switch values, clockwise from north. HatCenter means released.
const (
	HatN uint8 = iota
	HatNE
	HatE
	HatSE
	HatS
	HatSW
	HatW
	HatNW
	HatCenter
)

// fromAxes builds a Direction from per-axis signs (+x right, +y up).
func fromAxes(x, y int8) Direction {
	var d Direction
	switch {
	case x > 0:
		d |= Right
	case x < 0:
		d |= Left
	}
	switch {
	case y > 0:
		d |= Up
	case y < 0:
		d |= Down
	}
	return d
}

// Axes returns the per-axis signs encoded in d. Opposing bits cancel out.
func (d Direction) Axes() (x, y int8) {
	if d&Right != 0 {
		x++
	}
	if d&Left != 0 {
		x--
	}
	if d&Up != 0 {
		y++
	}
	if d&Down != 0 {
		y--
	}
	return x, y
}

// Reflect returns the point reflection of d through the stick center.
func (d Direction) Reflect() Direction {
	x, y := d.Axes()
	return fromAxes(-x, -y)
}

// Hat converts d to a HID hat switch value.
func (d Direction) Hat() uint8 {
	x, y := d.Axes()
	switch {
	case x == 0 && y > 0:
		return HatN
	case x > 0 && y > 0:
		return HatNE
	case x > 0 && y == 0:
		return HatE
	case x > 0 && y < 0:
		return HatSE
	case x == 0 && y < 0:
		return HatS
	case x < 0 && y < 0:
		return HatSW
	case x < 0 && y == 0:
		return HatW
	case x < 0 && y > 0:
		return HatNW
	}
	return HatCenter
}

func (d Direction) String() string {
	x, y := d.Axes()
	var parts []string
	switch {
	case y > 0:
		parts = append(parts, "up")
	case y < 0:
		parts = append(parts, "down")
	}
	switch {
	case x > 0:
		parts = append(parts, "right")
	case x < 0:
		parts = append(parts, "left")
	}
	if len(parts) == 0 {
		return "center"
	}
	return strings.Join(parts, "-")
}

// Kind is the classification outcome, independent of direction.
type Kind uint8

const (
	// Center means no axis is active, not even within its debounce margin.
	Center Kind = iota
	// Cardinal means exactly one axis is fully active.
	Cardinal
	// Diagonal means both axes are fully active (8-way only).
	Diagonal
	// DiagonalTransition means one axis is fully active and the other only
	// clears its debounce-widened threshold (8-way only).
	DiagonalTransition
	// DualTransition means both axes only clear their debounce-widened
	// thresholds.
	DualTransition
	// CardinalTransition means a single axis only clears its
	// debounce-widened threshold.
	CardinalTransition
)

var kindNames = [...]string{
	Center:             "center",
	Cardinal:           "cardinal",
	Diagonal:           "diagonal",
	DiagonalTransition: "diagonal-transition",
	DualTransition:     "dual-transition",
	CardinalTransition: "cardinal-transition",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Tier is the confidence level of a classification.
type Tier uint8

const (
	TierCenter Tier = iota
	TierDebounce
	TierActive
)

func (t Tier) String() string {
	switch t {
	case TierActive:
		return "active"
	case TierDebounce:
		return "debounce"
	default:
		return "center"
	}
}

// Axis identifies which stick axes a State involves.
type Axis uint8

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisBoth
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisBoth:
		return "xy"
	default:
		return "none"
	}
}

// State is the result of classifying one stick sample.
type State struct {
	Kind Kind
	Dir  Direction
}

// Tier reports whether s is fully active, transitioning or centered.
func (s State) Tier() Tier {
	switch s.Kind {
	case Cardinal, Diagonal:
		return TierActive
	case DiagonalTransition, DualTransition, CardinalTransition:
		return TierDebounce
	default:
		return TierCenter
	}
}

// Axis reports the axes present in s.Dir.
func (s State) Axis() Axis {
	h := s.Dir&Horizontal != 0
	v := s.Dir&Vertical != 0
	switch {
	case h && v:
		return AxisBoth
	case h:
		return AxisX
	case v:
		return AxisY
	default:
		return AxisNone
	}
}

// Reflect returns s with its direction mirrored through the center.
func (s State) Reflect() State {
	return State{Kind: s.Kind, Dir: s.Dir.Reflect()}
}

func (s State) String() string {
	if s.Kind == Center {
		return "center"
	}
	return s.Kind.String() + " " + s.Dir.String()
}
