package dpad

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Mode selects the classifier variant.
type Mode string

const (
	EightWay Mode = "8way"
	FourWay  Mode = "4way"
)

// ParseMode accepts "8way", "8-way", "8", "eight" and the 4-way equivalents.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "8way", "8-way", "8", "eight":
		return EightWay, nil
	case "4way", "4-way", "4", "four":
		return FourWay, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Config holds classifier parameters in working units. Deadzone, Offset,
// Slope and Debounce are fractions of full stick travel; Squareness biases
// the exponent of the per-axis power curve (0 is linear).
//
// Slope only applies to EightWay. Callers must keep 1+Squareness > 0 and
// Debounce <= min(Deadzone, Offset); see Settings.Validate.
type Config struct {
	Mode       Mode
	Deadzone   float64
	Squareness float64
	Offset     float64
	Slope      float64
	Debounce   float64
}

// EightWaySettings are the 8-way parameters on the 0-100 integer scale the
// configuration UI and firmware storage use.
type EightWaySettings struct {
	Deadzone   int `json:"deadzone" yaml:"deadzone" toml:"deadzone" help:"Deadzone radius (1-100)" default:"50"`
	Squareness int `json:"squareness" yaml:"squareness" toml:"squareness" help:"Squareness (0-100)" default:"0"`
	Slope      int `json:"slope" yaml:"slope" toml:"slope" help:"Diagonal slope (0-100)" default:"20"`
	Offset     int `json:"offset" yaml:"offset" toml:"offset" help:"Cardinal offset (0-100)" default:"20"`
	Debounce   int `json:"debounce" yaml:"debounce" toml:"debounce" help:"Debounce margin (0-100)" default:"5"`
}

// FourWaySettings are the 4-way parameters on the 0-100 integer scale.
// Squareness may go down to -50 for a concave response.
type FourWaySettings struct {
	Deadzone   int `json:"deadzone" yaml:"deadzone" toml:"deadzone" help:"Deadzone radius (1-100)" default:"50"`
	Squareness int `json:"squareness" yaml:"squareness" toml:"squareness" help:"Squareness (-50-100)" default:"0"`
	Offset     int `json:"offset" yaml:"offset" toml:"offset" help:"Cardinal offset (0-100)" default:"20"`
	Debounce   int `json:"debounce" yaml:"debounce" toml:"debounce" help:"Debounce margin (0-100)" default:"5"`
}

// Settings is the persisted addon configuration.
type Settings struct {
	Enabled  bool             `json:"enabled" yaml:"enabled" toml:"enabled" help:"Enable the analog to d-pad mapping" default:"true"`
	Mode     Mode             `json:"mode" yaml:"mode" toml:"mode" help:"Classifier mode" enum:"8way,4way" default:"8way"`
	EightWay EightWaySettings `json:"eightWay" yaml:"eightWay" toml:"eightWay" embed:"" prefix:"eight-way."`
	FourWay  FourWaySettings  `json:"fourWay" yaml:"fourWay" toml:"fourWay" embed:"" prefix:"four-way."`
}

// DefaultSettings returns the factory defaults.
func DefaultSettings() Settings {
	return Settings{
		Enabled: true,
		Mode:    EightWay,
		EightWay: EightWaySettings{
			Deadzone:   50,
			Squareness: 0,
			Slope:      20,
			Offset:     20,
			Debounce:   5,
		},
		FourWay: FourWaySettings{
			Deadzone:   50,
			Squareness: 0,
			Offset:     20,
			Debounce:   5,
		},
	}
}

// UnmarshalJSON decodes data on top of DefaultSettings, so fields missing
// from a partial document keep their factory values.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	p := plain(DefaultSettings())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Settings(p)
	return nil
}

// Config scales the settings of the active mode into a Config.
func (s Settings) Config() Config {
	return s.ConfigFor(s.Mode)
}

// ConfigFor scales the settings of mode m into a Config.
func (s Settings) ConfigFor(m Mode) Config {
	if m == FourWay {
		return Config{
			Mode:       FourWay,
			Deadzone:   percent(s.FourWay.Deadzone),
			Squareness: percent(s.FourWay.Squareness),
			Offset:     percent(s.FourWay.Offset),
			Debounce:   percent(s.FourWay.Debounce),
		}
	}
	return Config{
		Mode:       EightWay,
		Deadzone:   percent(s.EightWay.Deadzone),
		Squareness: percent(s.EightWay.Squareness),
		Offset:     percent(s.EightWay.Offset),
		Slope:      percent(s.EightWay.Slope),
		Debounce:   percent(s.EightWay.Debounce),
	}
}

func percent(v int) float64 { return float64(v) / 100 }

// Validate checks every field range and the debounce ordering and returns
// all violations joined together.
func (s Settings) Validate() error {
	var errs []error
	if s.Mode != EightWay && s.Mode != FourWay {
		errs = append(errs, fmt.Errorf("mode: unknown mode %q", s.Mode))
	}

	e := s.EightWay
	errs = append(errs,
		checkRange("eightWay.deadzone", e.Deadzone, 1, 100),
		checkRange("eightWay.squareness", e.Squareness, 0, 100),
		checkRange("eightWay.slope", e.Slope, 0, 100),
		checkRange("eightWay.offset", e.Offset, 0, 100),
		checkRange("eightWay.debounce", e.Debounce, 0, 100),
		checkDebounce("eightWay", e.Debounce, e.Deadzone, e.Offset),
	)

	f := s.FourWay
	errs = append(errs,
		checkRange("fourWay.deadzone", f.Deadzone, 1, 100),
		checkRange("fourWay.squareness", f.Squareness, -50, 100),
		checkRange("fourWay.offset", f.Offset, 0, 100),
		checkRange("fourWay.debounce", f.Debounce, 0, 100),
		checkDebounce("fourWay", f.Debounce, f.Deadzone, f.Offset),
	)
	return errors.Join(errs...)
}

func checkRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s: %d out of range [%d, %d]", name, v, lo, hi)
	}
	return nil
}

func checkDebounce(group string, debounce, deadzone, offset int) error {
	if debounce > deadzone {
		return fmt.Errorf("%s.debounce: %d exceeds deadzone %d", group, debounce, deadzone)
	}
	if debounce > offset {
		return fmt.Errorf("%s.debounce: %d exceeds offset %d", group, debounce, offset)
	}
	return nil
}
