// Package preview paints classifier output onto a raster so the decision
// boundaries of a configuration can be inspected. The palette is a
// visualization aid only; callers that need the classification itself
// should use dpad.State.
package preview

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/Alia5/analogdpad/dpad"
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// ErrorColor is returned by ParseHex for input it cannot parse.
var ErrorColor = Color{R: 255, G: 0, B: 255}

// ParseHex parses "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return ErrorColor, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return ErrorColor, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseHex is like ParseHex but panics on error.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA converts c to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Mix linearly interpolates from a (t=0) to b (t=1).
func Mix(a, b Color, t float64) Color {
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x)*(1-t) + float64(y)*t))
	}
	return Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B)}
}

// Palette assigns a color to each classification outcome. CardinalY is only
// used in 4-way mode, where the x and y axes are told apart.
type Palette struct {
	Deadzone  Color
	Cardinal  Color
	CardinalY Color
	Diagonal  Color
	Debounce  Color
}

// DefaultPalette returns the built-in colors.
func DefaultPalette() Palette {
	return Palette{
		Deadzone:  MustParseHex("#303030"),
		Cardinal:  MustParseHex("#3fb950"),
		CardinalY: MustParseHex("#58a6ff"),
		Diagonal:  MustParseHex("#d29922"),
		Debounce:  MustParseHex("#f85149"),
	}
}

// ColorFor returns the color of st for the given mode. Transitions are drawn
// as a 50/50 mix of their cardinal color and the deadzone.
func (p Palette) ColorFor(mode dpad.Mode, st dpad.State) Color {
	switch st.Kind {
	case dpad.Cardinal:
		return p.cardinal(mode, st.Axis())
	case dpad.Diagonal:
		return p.Diagonal
	case dpad.DiagonalTransition:
		return p.Debounce
	case dpad.DualTransition:
		return Mix(p.Cardinal, p.Deadzone, 0.5)
	case dpad.CardinalTransition:
		return Mix(p.cardinal(mode, st.Axis()), p.Deadzone, 0.5)
	}
	return p.Deadzone
}

func (p Palette) cardinal(mode dpad.Mode, axis dpad.Axis) Color {
	if mode == dpad.FourWay && axis == dpad.AxisY {
		return p.CardinalY
	}
	return p.Cardinal
}
