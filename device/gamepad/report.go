package gamepad

import (
	"fmt"
	"io"
	"strings"
)

// Hat is the hat-switch nibble. 0..7 run clockwise from north.
type Hat uint8

const (
	HatNorth Hat = iota
	HatNorthEast
	HatEast
	HatSouthEast
	HatSouth
	HatSouthWest
	HatWest
	HatNorthWest
	HatNull
)

var hatNames = [...]string{"n", "ne", "e", "se", "s", "sw", "w", "nw", "null"}

func (h Hat) String() string {
	if int(h) >= len(hatNames) {
		return fmt.Sprintf("hat(%d)", uint8(h))
	}
	return hatNames[h]
}

// Axis values.
const (
	AxisMin    uint8 = 0x00
	AxisCenter uint8 = 0x80
	AxisMax    uint8 = 0xFF
)

// ReportSize is the length of the interface 0 input report.
const ReportSize = 7

// Report is the joystick input report.
//
// Layout:
//
//	0-1: button bitmask (usage 1 = byte 0 bit 0)
//	2:   hat switch (low nibble)
//	3-6: X, Y, Z, Rz
type Report struct {
	Buttons [2]uint8
	Hat     Hat
	X, Y    uint8
	Z, Rz   uint8
}

// NewReport returns a report with no buttons, a null hat and centered axes.
func NewReport() Report {
	return Report{Hat: HatNull, X: AxisCenter, Y: AxisCenter, Z: AxisCenter, Rz: AxisCenter}
}

// Set sets the bit of u. Invalid usages are ignored.
func (r *Report) Set(u Usage) {
	if i, m, ok := u.Bit(); ok {
		r.Buttons[i] |= m
	}
}

// Has reports whether the bit of u is set.
func (r Report) Has(u Usage) bool {
	i, m, ok := u.Bit()
	return ok && r.Buttons[i]&m != 0
}

// Usages lists the set usages in ascending order.
func (r Report) Usages() []Usage {
	var out []Usage
	for u := UsageA; u <= MaxUsage; u++ {
		if r.Has(u) {
			out = append(out, u)
		}
	}
	return out
}

// MarshalBinary encodes the report to ReportSize bytes.
func (r *Report) MarshalBinary() ([]byte, error) {
	return []byte{r.Buttons[0], r.Buttons[1], uint8(r.Hat) & 0x0F, r.X, r.Y, r.Z, r.Rz}, nil
}

// UnmarshalBinary decodes ReportSize bytes into the report.
func (r *Report) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}
	r.Buttons = [2]uint8{data[0], data[1]}
	r.Hat = Hat(data[2] & 0x0F)
	r.X, r.Y, r.Z, r.Rz = data[3], data[4], data[5], data[6]
	return nil
}

func (r Report) String() string {
	names := make([]string, 0, NumButtons)
	for _, u := range r.Usages() {
		names = append(names, u.String())
	}
	return fmt.Sprintf("buttons=[%s] hat=%s x=%d y=%d z=%d rz=%d",
		strings.Join(names, " "), r.Hat, r.X, r.Y, r.Z, r.Rz)
}
