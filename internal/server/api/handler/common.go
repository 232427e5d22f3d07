package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/store"
)

func modeParam(req *api.Request) (dpad.Mode, error) {
	m, err := dpad.ParseMode(req.Params["mode"])
	if err != nil {
		return "", api.ErrNotFound(err.Error())
	}
	return m, nil
}

func decodePayload(req *api.Request, v any) error {
	if req.Payload == "" {
		return api.ErrBadRequest("missing payload")
	}
	if err := json.Unmarshal([]byte(req.Payload), v); err != nil {
		return api.ErrBadRequest(fmt.Sprintf("invalid json: %v", err))
	}
	return nil
}

// settings resolves the request override, falling back to the store. An
// override was decoded on top of dpad.DefaultSettings.
func settings(ctx context.Context, st store.Store, override *dpad.Settings) (dpad.Settings, error) {
	if override != nil {
		if err := override.Validate(); err != nil {
			return dpad.Settings{}, api.ErrUnprocessable(err.Error())
		}
		return *override, nil
	}
	s, err := store.LoadOrDefault(ctx, st)
	if err != nil {
		return dpad.Settings{}, api.ErrInternal(fmt.Sprintf("load settings: %v", err))
	}
	return s, nil
}

func writeJSON(res *api.Response, v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return api.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
	}
	res.JSON = string(out)
	return nil
}
