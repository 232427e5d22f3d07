package handler

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/analogdpad/apitypes"
	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/store"
)

// MaxBatchSamples bounds classify/{mode}/batch.
const MaxBatchSamples = 4096

// Classify classifies one sample with the mode taken from the path.
func Classify(st store.Store) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		mode, err := modeParam(req)
		if err != nil {
			return err
		}
		var body apitypes.ClassifyRequest
		if err := decodePayload(req, &body); err != nil {
			return err
		}
		s, err := settings(req.Ctx, st, body.Settings)
		if err != nil {
			return err
		}

		state := dpad.Classify(dpad.Sample{X: body.X, Y: body.Y}, s.ConfigFor(mode))
		logger.Debug("classified", "x", body.X, "y", body.Y, "state", state)
		return writeJSON(res, apitypes.NewClassifyResponse(mode, state))
	}
}

// ClassifyBatch classifies every sample in the payload with one settings set.
func ClassifyBatch(st store.Store) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		mode, err := modeParam(req)
		if err != nil {
			return err
		}
		var body apitypes.ClassifyBatchRequest
		if err := decodePayload(req, &body); err != nil {
			return err
		}
		if len(body.Samples) > MaxBatchSamples {
			return api.ErrBadRequest(fmt.Sprintf("too many samples: %d > %d", len(body.Samples), MaxBatchSamples))
		}
		s, err := settings(req.Ctx, st, body.Settings)
		if err != nil {
			return err
		}

		cfg := s.ConfigFor(mode)
		out := apitypes.ClassifyBatchResponse{Results: make([]apitypes.ClassifyResponse, len(body.Samples))}
		for i, sample := range body.Samples {
			out.Results[i] = apitypes.NewClassifyResponse(mode, dpad.Classify(sample, cfg))
		}
		return writeJSON(res, out)
	}
}
