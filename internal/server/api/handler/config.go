package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Alia5/analogdpad/apitypes"
	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/store"
)

// ConfigGet returns the persisted settings, or the defaults if none were saved.
func ConfigGet(st store.Store) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		s, err := settings(req.Ctx, st, nil)
		if err != nil {
			return err
		}
		return writeJSON(res, apitypes.SettingsResponse{Settings: s})
	}
}

// ConfigSet validates and persists the settings in the payload. Fields
// missing from the payload keep their default values.
func ConfigSet(st store.Store) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		s := dpad.DefaultSettings()
		if err := decodePayload(req, &s); err != nil {
			return err
		}
		if err := s.Validate(); err != nil {
			return api.ErrUnprocessable(err.Error())
		}
		if err := st.Save(req.Ctx, s); err != nil {
			return api.ErrInternal(fmt.Sprintf("save settings: %v", err))
		}
		logger.Info("settings updated", "enabled", s.Enabled, "mode", s.Mode)
		return writeJSON(res, apitypes.SettingsResponse{Settings: s})
	}
}

// ConfigHistory lists the saved revisions of a versioned store, newest first.
func ConfigHistory(st store.Store) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		v, err := versioned(st)
		if err != nil {
			return err
		}
		var hr apitypes.HistoryRequest
		if req.Payload != "" {
			if err := decodePayload(req, &hr); err != nil {
				return err
			}
		}
		if hr.Limit < 0 {
			return api.ErrBadRequest(fmt.Sprintf("invalid limit %d", hr.Limit))
		}

		revs, err := v.History(req.Ctx, hr.Limit)
		if err != nil {
			return api.ErrInternal(fmt.Sprintf("load history: %v", err))
		}
		active, err := v.Active(req.Ctx)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return api.ErrInternal(fmt.Sprintf("load active revision: %v", err))
		}

		out := apitypes.HistoryResponse{Revisions: make([]apitypes.SettingsRevision, 0, len(revs))}
		for _, r := range revs {
			out.Revisions = append(out.Revisions, apitypes.SettingsRevision{
				ID:        r.ID,
				ParentID:  r.ParentID,
				Active:    r.ID == active.ID,
				Settings:  r.Settings,
				CreatedAt: r.CreatedAt,
			})
		}
		return writeJSON(res, out)
	}
}

// ConfigRollback activates an earlier revision and returns its settings.
func ConfigRollback(st store.Store) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		v, err := versioned(st)
		if err != nil {
			return err
		}
		var rr apitypes.RollbackRequest
		if err := decodePayload(req, &rr); err != nil {
			return err
		}
		if rr.ID == "" {
			return api.ErrBadRequest("missing revision id")
		}

		if err := v.Rollback(req.Ctx, rr.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return api.ErrNotFound(fmt.Sprintf("unknown revision %q", rr.ID))
			}
			return api.ErrInternal(fmt.Sprintf("rollback: %v", err))
		}
		s, err := st.Load(req.Ctx)
		if err != nil {
			return api.ErrInternal(fmt.Sprintf("load settings: %v", err))
		}
		logger.Info("settings rolled back", "revision", rr.ID, "mode", s.Mode)
		return writeJSON(res, apitypes.SettingsResponse{Settings: s})
	}
}

func versioned(st store.Store) (store.Versioned, error) {
	v, err := store.AsVersioned(st)
	if err != nil {
		return nil, api.ErrNotImplemented(err.Error())
	}
	return v, nil
}
