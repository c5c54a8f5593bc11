package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"

	"github.com/Alia5/padmap/internal/emulator"
	"github.com/Alia5/padmap/internal/server/api"
)

// ReportsStream writes every changed input report as one JSON line until the
// client disconnects.
func ReportsStream(dev *emulator.Device) api.StreamHandlerFunc {
	return func(conn net.Conn, req *api.Request, logger *slog.Logger) error {
		reports, cancel := dev.Subscribe()
		defer cancel()

		gone := make(chan struct{})
		go func() {
			_, _ = io.Copy(io.Discard, conn)
			close(gone)
		}()

		enc := json.NewEncoder(conn)
		for {
			select {
			case <-gone:
				return nil
			case <-req.Ctx.Done():
				return nil
			case r := <-reports:
				if err := enc.Encode(ReportJSON(r)); err != nil {
					logger.Debug("report stream write failed", "error", err)
					return nil
				}
			}
		}
	}
}
