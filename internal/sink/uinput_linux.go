//go:build linux

package sink

import (
	"errors"

	"github.com/bendahl/uinput"
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/Alia5/padmap/device/gamepad"
)

// UinputPath is the default uinput control node.
const UinputPath = "/dev/uinput"

// usageKeys maps report usages to Linux button codes.
var usageKeys = map[gamepad.Usage]int{
	gamepad.UsageA:          evdev.BTN_A,
	gamepad.UsageB:          evdev.BTN_B,
	gamepad.UsageC:          evdev.BTN_C,
	gamepad.UsageX:          evdev.BTN_X,
	gamepad.UsageY:          evdev.BTN_Y,
	gamepad.UsageZ:          evdev.BTN_Z,
	gamepad.UsageL1:         evdev.BTN_TL,
	gamepad.UsageR1:         evdev.BTN_TR,
	gamepad.UsageStart:      evdev.BTN_START,
	gamepad.UsageL2:         evdev.BTN_TL2,
	gamepad.UsageR2:         evdev.BTN_TR2,
	gamepad.UsageHome:       evdev.BTN_MODE,
	gamepad.UsageRightStick: evdev.BTN_THUMBR,
	gamepad.UsageLeftStick:  evdev.BTN_THUMBL,
}

var hatDirections = map[gamepad.Hat][]uinput.HatDirection{
	gamepad.HatNorth:     {uinput.HatUp},
	gamepad.HatNorthEast: {uinput.HatUp, uinput.HatRight},
	gamepad.HatEast:      {uinput.HatRight},
	gamepad.HatSouthEast: {uinput.HatDown, uinput.HatRight},
	gamepad.HatSouth:     {uinput.HatDown},
	gamepad.HatSouthWest: {uinput.HatDown, uinput.HatLeft},
	gamepad.HatWest:      {uinput.HatLeft},
	gamepad.HatNorthWest: {uinput.HatUp, uinput.HatLeft},
}

// Uinput mirrors reports onto a kernel gamepad device. Only changes are
// written.
type Uinput struct {
	pad  uinput.Gamepad
	last gamepad.Report
}

// NewUinput creates the kernel device.
func NewUinput(path, name string, vendor, product uint16) (*Uinput, error) {
	if path == "" {
		path = UinputPath
	}
	pad, err := uinput.CreateGamepad(path, []byte(name), vendor, product)
	if err != nil {
		return nil, err
	}
	return &Uinput{pad: pad, last: gamepad.NewReport()}, nil
}

func (u *Uinput) Send(r gamepad.Report) error {
	var errs []error
	for usage, key := range usageKeys {
		was, is := u.last.Has(usage), r.Has(usage)
		switch {
		case is && !was:
			errs = append(errs, u.pad.ButtonDown(key))
		case was && !is:
			errs = append(errs, u.pad.ButtonUp(key))
		}
	}
	if r.Hat != u.last.Hat {
		for _, d := range hatDirections[u.last.Hat] {
			errs = append(errs, u.pad.HatRelease(d))
		}
		for _, d := range hatDirections[r.Hat] {
			errs = append(errs, u.pad.HatPress(d))
		}
	}
	if r.X != u.last.X || r.Y != u.last.Y {
		errs = append(errs, u.pad.LeftStickMove(axis(r.X), axis(r.Y)))
	}
	if r.Z != u.last.Z || r.Rz != u.last.Rz {
		errs = append(errs, u.pad.RightStickMove(axis(r.Z), axis(r.Rz)))
	}
	u.last = r
	return errors.Join(errs...)
}

// axis maps 0x00..0xFF onto -1..1 with 0x80 at 0.
func axis(v uint8) float32 {
	if v >= gamepad.AxisCenter {
		return float32(v-gamepad.AxisCenter) / float32(gamepad.AxisMax-gamepad.AxisCenter)
	}
	return -float32(gamepad.AxisCenter-v) / float32(gamepad.AxisCenter)
}

func (u *Uinput) Close() error { return u.pad.Close() }
