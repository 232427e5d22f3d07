package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Alia5/analogdpad/apitypes"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/store"
	"github.com/Alia5/analogdpad/preview"
)

// Preview renders the classification raster of the mode in the path and
// returns it as PNG.
func Preview(st store.Store, cfg api.ServerConfig) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		mode, err := modeParam(req)
		if err != nil {
			return err
		}
		var body apitypes.PreviewRequest
		if req.Payload != "" {
			if err := decodePayload(req, &body); err != nil {
				return err
			}
		}
		s, err := settings(req.Ctx, st, body.Settings)
		if err != nil {
			return err
		}

		w, h := body.Width, body.Height
		if w == 0 {
			w = cfg.PreviewSize
		}
		if h == 0 {
			h = w
		}
		if w < 1 || h < 1 || (cfg.MaxPreviewSize > 0 && (w > cfg.MaxPreviewSize || h > cfg.MaxPreviewSize)) {
			return api.ErrBadRequest(fmt.Sprintf("invalid preview size %dx%d (max %d)", w, h, cfg.MaxPreviewSize))
		}

		img, err := preview.Render(req.Ctx, s.ConfigFor(mode), preview.Options{Width: w, Height: h})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return api.ErrBadRequest("preview canceled")
			}
			return api.ErrInternal(err.Error())
		}
		var buf bytes.Buffer
		if err := preview.EncodePNG(&buf, img); err != nil {
			return api.ErrInternal(fmt.Sprintf("encode png: %v", err))
		}
		logger.Debug("preview rendered", "mode", mode, "width", w, "height", h, "bytes", buf.Len())
		return writeJSON(res, apitypes.PreviewResponse{Mode: mode, Width: w, Height: h, PNG: buf.Bytes()})
	}
}
