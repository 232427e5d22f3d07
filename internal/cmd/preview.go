package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/Alia5/analogdpad/internal/configpaths"
	"github.com/Alia5/analogdpad/internal/util"
	"github.com/Alia5/analogdpad/preview"
)

type Preview struct {
	Out     string `help:"Write a PNG to this file instead of drawing in the terminal" type:"path" short:"o"`
	Size    int    `help:"PNG edge length in pixels" default:"256"`
	Cols    int    `help:"Terminal columns (defaults to the terminal size)"`
	Ansi    bool   `help:"Draw with ANSI colors even if stdout is not a terminal"`
	Palette string `help:"Comma separated hex colors: deadzone,cardinal,cardinal-y,diagonal,debounce"`

	SettingsFlags `embed:""`
}

// Run is called by Kong when the preview command is executed.
func (p *Preview) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	isTerm := term.IsTerminal(int(os.Stdout.Fd()))
	cols, rows := p.Cols, 0
	if isTerm {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if cols == 0 {
				cols = w
			}
			rows = h - 1
		}
		if err := util.EnableVirtualTerminal(os.Stdout); err != nil {
			logger.Debug("enable virtual terminal", "error", err)
		}
	}
	return p.run(ctx, os.Stdout, isTerm, cols, rows, logger)
}

func (p *Preview) run(ctx context.Context, w io.Writer, isTerm bool, cols, rows int, logger *slog.Logger) error {
	s, err := p.resolve(ctx)
	if err != nil {
		return err
	}
	pal, err := parsePalette(p.Palette)
	if err != nil {
		return err
	}
	cfg := s.Config()

	if p.Out != "" {
		if p.Size < 1 {
			return fmt.Errorf("invalid size %d", p.Size)
		}
		img, err := preview.Render(ctx, cfg, preview.Options{Width: p.Size, Height: p.Size, Palette: pal})
		if err != nil {
			return err
		}
		if err := configpaths.EnsureDir(p.Out); err != nil {
			return err
		}
		f, err := os.Create(p.Out)
		if err != nil {
			return err
		}
		if err := preview.EncodePNG(f, img); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode png: %w", err)
		}
		logger.Info("Preview written", "path", p.Out, "mode", s.Mode, "size", p.Size)
		return f.Close()
	}

	if !isTerm && !p.Ansi {
		return errors.New("stdout is not a terminal; use --out to write a PNG or --ansi to force colors")
	}
	if cols <= 0 {
		cols = 64
	}
	// Terminal cells are about twice as tall as wide; one cell covers two
	// pixel rows, so a square raster needs cols/2 cell rows.
	r := cols / 2
	if rows > 0 && r > rows {
		r = rows
		cols = 2 * rows
	}
	return preview.RenderANSI(ctx, w, cfg, cols, r, pal)
}

func parsePalette(list string) (preview.Palette, error) {
	pal := preview.DefaultPalette()
	if list == "" {
		return pal, nil
	}
	slots := []*preview.Color{&pal.Deadzone, &pal.Cardinal, &pal.CardinalY, &pal.Diagonal, &pal.Debounce}
	parts := strings.Split(list, ",")
	if len(parts) > len(slots) {
		return pal, fmt.Errorf("palette has %d colors, at most %d allowed", len(parts), len(slots))
	}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := preview.ParseHex(part)
		if err != nil {
			return pal, fmt.Errorf("palette color %d: %w", i+1, err)
		}
		*slots[i] = c
	}
	return pal, nil
}
