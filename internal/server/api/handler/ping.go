package handler

import (
	"log/slog"

	"github.com/Alia5/padmap/apitypes"
	"github.com/Alia5/padmap/internal/server/api"
)

// Ping returns a handler for the "ping" endpoint.
// It provides a minimal identity + version response.
func Ping(version string) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		if version == "" {
			version = "dev"
		}
		return reply(res, apitypes.PingResponse{Server: "padmap", Version: version})
	}
}
