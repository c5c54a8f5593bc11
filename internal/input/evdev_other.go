//go:build !linux

package input

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Alia5/padmap/device/gamepad"
)

var ErrEvdevUnsupported = errors.New("input: evdev devices are only available on linux")

// Evdev is unavailable on this platform.
type Evdev struct{}

func OpenEvdev(string, bool, *slog.Logger) (*Evdev, error) { return nil, ErrEvdevUnsupported }

func (*Evdev) Run(context.Context) error  { return ErrEvdevUnsupported }
func (*Evdev) Snapshot() gamepad.Snapshot { return gamepad.Snapshot{} }
func (*Evdev) Close() error               { return nil }
