package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/analogdpad/apitypes"
	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/store"
)

// SettingsFlags resolves the classifier settings of a one-shot command,
// either from flags or from the settings store.
type SettingsFlags struct {
	Settings    dpad.Settings     `embed:""`
	Stored      bool              `help:"Use the persisted settings instead of the settings flags"`
	StoreConfig store.StoreConfig `embed:"" prefix:"store."`
}

func (f *SettingsFlags) resolve(ctx context.Context) (dpad.Settings, error) {
	if !f.Stored {
		if err := f.Settings.Validate(); err != nil {
			return dpad.Settings{}, fmt.Errorf("invalid settings:\n%w", err)
		}
		return f.Settings, nil
	}
	st, err := store.Open(f.StoreConfig)
	if err != nil {
		return dpad.Settings{}, err
	}
	defer st.Close()
	return store.LoadOrDefault(ctx, st)
}

type Classify struct {
	X      float64 `arg:"" help:"Stick x position, -1 (left) to 1 (right). Put -- before negative values."`
	Y      float64 `arg:"" help:"Stick y position, -1 (down) to 1 (up)."`
	Raw    bool    `help:"Treat x and y as raw axis readings (0-65535, center 32767)"`
	Format string  `help:"Output format" enum:"text,json" default:"text"`

	SettingsFlags `embed:""`
}

// Run is called by Kong when the classify command is executed.
func (c *Classify) Run(logger *slog.Logger) error {
	return c.run(context.Background(), os.Stdout, logger)
}

func (c *Classify) run(ctx context.Context, w io.Writer, logger *slog.Logger) error {
	s, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	sample := dpad.Sample{X: c.X, Y: c.Y}
	if c.Raw {
		if c.X < 0 || c.X > float64(dpad.AxisMax) || c.Y < 0 || c.Y > float64(dpad.AxisMax) {
			return fmt.Errorf("raw axis values must be within [0, %d]", dpad.AxisMax)
		}
		sample = dpad.SampleFromRaw(uint16(c.X), uint16(c.Y))
	}
	logger.Debug("classifying", "x", sample.X, "y", sample.Y, "mode", s.Mode)

	st := dpad.Classify(sample, s.Config())
	resp := apitypes.NewClassifyResponse(s.Mode, st)
	if c.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	_, err = fmt.Fprintf(w, "%s %s %s (tier=%s dpad=0x%02x hat=%d)\n",
		resp.Mode, resp.Kind, resp.Direction, resp.Tier, resp.Dpad, resp.Hat)
	return err
}
