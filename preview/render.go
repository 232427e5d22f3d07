package preview

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/Alia5/analogdpad/dpad"
)

// Options control a raster pass.
type Options struct {
	Width  int
	Height int
	// Palette defaults to DefaultPalette when left zero.
	Palette Palette
	// Workers bounds the number of rows rendered concurrently.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int
}

// SamplePoint returns the stick position at the center of pixel (i, j) of a
// w×h raster spanning [-1, 1]² with +y pointing up.
func SamplePoint(i, j, w, h int) dpad.Sample {
	return dpad.Sample{
		X: (2*float64(i)+1)/float64(w) - 1,
		Y: 1 - (2*float64(j)+1)/float64(h),
	}
}

// Render classifies every pixel of the raster. Rows are independent and are
// rendered in parallel; a cancelled ctx aborts the pass.
func Render(ctx context.Context, cfg dpad.Config, opts Options) (*image.RGBA, error) {
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", w, h)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pal := opts.Palette
	if pal == (Palette{}) {
		pal = DefaultPalette()
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithCancelOnError()
	for j := 0; j < h; j++ {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := 0; i < w; i++ {
				st := dpad.Classify(SamplePoint(i, j, w, h), cfg)
				img.SetRGBA(i, j, pal.ColorFor(cfg.Mode, st).RGBA())
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return img, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
