package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Alia5/padmap/apitypes"
	"github.com/Alia5/padmap/device/gamepad"
	"github.com/Alia5/padmap/internal/emulator"
	"github.com/Alia5/padmap/internal/server/api"
)

// State returns a snapshot of modes, input and counters.
func State(dev *emulator.Device) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		return reply(res, stateResponse(dev.State()))
	}
}

// InputPress holds inputs on the API source: input/press <a+start> [duration].
// Without a duration the inputs stay held until input/release.
func InputPress(dev *emulator.Device) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, _ *slog.Logger) error {
		if len(req.Args) < 1 {
			return errors.New("usage: input/press <inputs> [duration]")
		}
		s, err := gamepad.ParseSnapshot(req.Args[0])
		if err != nil {
			return err
		}
		var d time.Duration
		if len(req.Args) > 1 {
			if d, err = time.ParseDuration(req.Args[1]); err != nil {
				return err
			}
		}
		if d > 0 {
			dev.Manual().Hold(s, d)
		} else {
			dev.Manual().Set(s)
		}
		names := s.Names()
		if names == nil {
			names = []string{}
		}
		return reply(res, apitypes.PressResponse{Pressed: names, HoldMs: d.Milliseconds()})
	}
}

// InputRelease releases everything held on the API source.
func InputRelease(dev *emulator.Device) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		dev.Manual().Clear()
		return reply(res, apitypes.PressResponse{Pressed: []string{}})
	}
}

// ModeSet overrides the volatile mode flags: mode/set [mapping=on|off] [dpad=<mode>].
// Without arguments it returns the current flags.
func ModeSet(dev *emulator.Device) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		f := dev.Modes().Flags()
		for _, a := range req.Args {
			k, v, ok := strings.Cut(a, "=")
			if !ok {
				return fmt.Errorf("invalid mode argument %q", a)
			}
			switch strings.ToLower(k) {
			case "mapping":
				switch strings.ToLower(v) {
				case "on", "true", "1":
					f.MappingEnabled = true
				case "off", "false", "0":
					f.MappingEnabled = false
				default:
					return fmt.Errorf("invalid mapping value %q", v)
				}
			case "dpad":
				m, err := gamepad.ParseDPadMode(v)
				if err != nil {
					return err
				}
				f.DPad = m
			default:
				return fmt.Errorf("unknown mode %q", k)
			}
		}
		if len(req.Args) > 0 {
			dev.Modes().SetFlags(f)
			logger.Info("mode set via api", "mapping", f.MappingEnabled, "dpad", f.DPad)
		}
		return reply(res, modeResponse(f))
	}
}
