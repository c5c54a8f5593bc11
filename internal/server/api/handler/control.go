package handler

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Alia5/padmap/apitypes"
	"github.com/Alia5/padmap/device/feature"
	"github.com/Alia5/padmap/internal/emulator"
	"github.com/Alia5/padmap/internal/server/api"
)

// Control injects a control request: control <setup-hex> [data-hex].
func Control(dev *emulator.Device) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, _ *slog.Logger) error {
		if len(req.Args) < 1 {
			return errors.New("usage: control <setup-hex> [data-hex]")
		}
		raw, err := hex.DecodeString(req.Args[0])
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		var setup feature.SetupPacket
		if err := feature.ParseSetupPacket(raw, &setup); err != nil {
			return err
		}
		var data []byte
		if len(req.Args) > 1 {
			if data, err = hex.DecodeString(req.Args[1]); err != nil {
				return fmt.Errorf("data: %w", err)
			}
		}
		resp, handled := dev.HandleControl(setup, data)
		return reply(res, apitypes.ControlResponse{Handled: handled, Data: hex.EncodeToString(resp)})
	}
}

// EndpointOut completes an OUT transfer: endpoint/{ep}/out <data-hex>.
func EndpointOut(dev *emulator.Device) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, _ *slog.Logger) error {
		ep, err := strconv.ParseUint(req.Params["ep"], 10, 8)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		if uint8(ep) != feature.JoystickEP {
			return fmt.Errorf("endpoint %d has no OUT pipe", ep)
		}
		if len(req.Args) < 1 {
			return errors.New("usage: endpoint/{ep}/out <data-hex>")
		}
		data, err := hex.DecodeString(req.Args[0])
		if err != nil {
			return fmt.Errorf("data: %w", err)
		}
		return reply(res, apitypes.OutResponse{Accepted: dev.HandleOut(data)})
	}
}
