package handler

import (
	"log/slog"

	"github.com/Alia5/analogdpad/apitypes"
	"github.com/Alia5/analogdpad/internal/server/api"
)

// ServerName is reported by ping.
const ServerName = "analogdpad"

func Ping(version string) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		return writeJSON(res, apitypes.PingResponse{Server: ServerName, Version: version})
	}
}
