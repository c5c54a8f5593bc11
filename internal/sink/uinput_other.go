//go:build !linux

package sink

import (
	"errors"

	"github.com/Alia5/padmap/device/gamepad"
)

var ErrUinputUnsupported = errors.New("sink: uinput is only available on linux")

// Uinput is unavailable on this platform.
type Uinput struct{}

func NewUinput(string, string, uint16, uint16) (*Uinput, error) {
	return nil, ErrUinputUnsupported
}

func (*Uinput) Send(gamepad.Report) error { return ErrUinputUnsupported }
func (*Uinput) Close() error              { return nil }
