//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/Alia5/padmap/device/gamepad"
)

// DefaultEvdevMap binds Linux key codes to gamepad inputs.
var DefaultEvdevMap = map[uint16]Key{
	evdev.BTN_A:      {Button: gamepad.ButtonA},
	evdev.BTN_B:      {Button: gamepad.ButtonB},
	evdev.BTN_C:      {Button: gamepad.ButtonC},
	evdev.BTN_X:      {Button: gamepad.ButtonX},
	evdev.BTN_Y:      {Button: gamepad.ButtonY},
	evdev.BTN_Z:      {Button: gamepad.ButtonZ},
	evdev.BTN_TL:     {Button: gamepad.ButtonTL},
	evdev.BTN_TR:     {Button: gamepad.ButtonTR},
	evdev.BTN_START:  {Button: gamepad.ButtonStart},
	evdev.BTN_SELECT: {Button: gamepad.ButtonAux9},
	evdev.BTN_MODE:   {Button: gamepad.ButtonAux10},
	evdev.BTN_TL2:    {Button: gamepad.ButtonAux11},
	evdev.BTN_TR2:    {Button: gamepad.ButtonAux12},
	evdev.BTN_THUMBL: {Button: gamepad.ButtonAux13},
	evdev.KEY_UP:     {Direction: gamepad.DirUp, IsDir: true},
	evdev.KEY_DOWN:   {Direction: gamepad.DirDown, IsDir: true},
	evdev.KEY_LEFT:   {Direction: gamepad.DirLeft, IsDir: true},
	evdev.KEY_RIGHT:  {Direction: gamepad.DirRight, IsDir: true},
}

// Evdev reads a Linux input device. Key events drive buttons, and the first
// hat axes drive the D-pad.
type Evdev struct {
	dev    *evdev.InputDevice
	keys   map[uint16]Key
	logger *slog.Logger

	mu    sync.Mutex
	state gamepad.Snapshot
}

// OpenEvdev opens the device at path, or the first /dev/input/event* whose
// name contains path when path is not a file. With grab set the device's
// events are withheld from other readers.
func OpenEvdev(path string, grab bool, logger *slog.Logger) (*Evdev, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dev, err := openEvdev(path)
	if err != nil {
		return nil, err
	}
	if grab {
		if err := dev.Grab(); err != nil {
			_ = dev.File.Close()
			return nil, fmt.Errorf("grab %s: %w", dev.Name, err)
		}
	}
	logger.Info("input device opened", "name", dev.Name, "path", dev.Fn, "grab", grab)
	return &Evdev{dev: dev, keys: DefaultEvdevMap, logger: logger}, nil
}

func openEvdev(path string) (*evdev.InputDevice, error) {
	if _, err := os.Stat(path); err == nil {
		return evdev.Open(path)
	}
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		dev, err := evdev.Open(m)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(dev.Name), strings.ToLower(path)) {
			return dev, nil
		}
		_ = dev.File.Close()
	}
	return nil, fmt.Errorf("no input device matching %q", path)
}

// Run reads events until ctx is done or the device fails.
func (e *Evdev) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = e.dev.File.Close()
	}()
	for {
		ev, err := e.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read %s: %w", e.dev.Name, err)
		}
		e.apply(ev)
	}
}

func (e *Evdev) apply(ev *evdev.InputEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch ev.Type {
	case evdev.EV_KEY:
		key, ok := e.keys[ev.Code]
		if !ok {
			return
		}
		down := ev.Value != 0
		if key.IsDir {
			setDirection(&e.state, key.Direction, down)
		} else {
			e.state.Buttons[key.Button] = down
		}
	case evdev.EV_ABS:
		switch ev.Code {
		case evdev.ABS_HAT0X:
			e.state.Left, e.state.Right = ev.Value < 0, ev.Value > 0
		case evdev.ABS_HAT0Y:
			e.state.Up, e.state.Down = ev.Value < 0, ev.Value > 0
		}
	}
}

func setDirection(s *gamepad.Snapshot, d gamepad.Direction, down bool) {
	switch d {
	case gamepad.DirUp:
		s.Up = down
	case gamepad.DirDown:
		s.Down = down
	case gamepad.DirLeft:
		s.Left = down
	case gamepad.DirRight:
		s.Right = down
	}
}

func (e *Evdev) Snapshot() gamepad.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Close releases the grab and closes the device.
func (e *Evdev) Close() error {
	_ = e.dev.Release()
	return e.dev.File.Close()
}
