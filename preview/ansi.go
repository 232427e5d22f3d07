package preview

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/Alia5/analogdpad/dpad"
)

// RenderANSI draws the raster as cols×rows terminal cells using 24-bit
// colors. Each cell holds two vertically stacked pixels (upper half block).
func RenderANSI(ctx context.Context, w io.Writer, cfg dpad.Config, cols, rows int, pal Palette) error {
	img, err := Render(ctx, cfg, Options{Width: cols, Height: rows * 2, Palette: pal})
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			top := img.RGBAAt(c, 2*r)
			bottom := img.RGBAAt(c, 2*r+1)
			fmt.Fprintf(bw, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		bw.WriteString("\x1b[0m\n")
	}
	return bw.Flush()
}
