package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Alia5/padmap/device/gamepad"
	"github.com/Alia5/padmap/device/mapping"
	"github.com/Alia5/padmap/internal/emulator"
	"github.com/Alia5/padmap/internal/server/api"
)

// MappingGet returns the working mapping record.
func MappingGet(dev *emulator.Device) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		return reply(res, mappingResponse(dev.Store().Record()))
	}
}

// MappingSet assigns usages to buttons and persists the table. Each argument
// is button=usage; unnamed buttons keep their assignment.
func MappingSet(dev *emulator.Device) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		if len(req.Args) == 0 {
			return errors.New("usage: mapping/set <button>=<usage>...")
		}
		t, err := ApplyAssignments(dev.Store().Table(), req.Args)
		if err != nil {
			return err
		}
		if err := dev.Store().Save(t); err != nil {
			return err
		}
		logger.Info("mapping set via api", "table", t)
		out := mappingResponse(dev.Store().Record())
		out.Saved = true
		return reply(res, out)
	}
}

// MappingReset restores and persists the default table.
func MappingReset(dev *emulator.Device) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, logger *slog.Logger) error {
		if err := dev.Store().Save(mapping.DefaultTable); err != nil {
			return err
		}
		logger.Info("mapping reset via api")
		out := mappingResponse(dev.Store().Record())
		out.Saved = true
		return reply(res, out)
	}
}

// ApplyAssignments applies button=usage pairs to t.
func ApplyAssignments(t mapping.Table, args []string) (mapping.Table, error) {
	for _, a := range args {
		name, val, ok := strings.Cut(a, "=")
		if !ok {
			return t, fmt.Errorf("invalid assignment %q", a)
		}
		b, err := gamepad.ParseButton(name)
		if err != nil {
			return t, err
		}
		u, err := gamepad.ParseUsage(val)
		if err != nil {
			return t, err
		}
		t[b] = uint8(u)
	}
	return t, nil
}
