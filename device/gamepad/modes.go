package gamepad

import (
	"fmt"
	"strings"
)

// DPadMode selects how the directional switches are rendered.
type DPadMode uint8

const (
	DPadAnalogXY DPadMode = iota
	DPadHatSwitch
	DPadZRz
)

const numDPadModes = 3

var dpadNames = [numDPadModes]string{"analog-xy", "hat", "z-rz"}

// Next returns the following mode in the AnalogXY, HatSwitch, ZRz cycle.
func (m DPadMode) Next() DPadMode { return (m + 1) % numDPadModes }

func (m DPadMode) String() string {
	if m >= numDPadModes {
		return fmt.Sprintf("dpad(%d)", uint8(m))
	}
	return dpadNames[m]
}

// ParseDPadMode parses the names returned by String.
func ParseDPadMode(s string) (DPadMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range dpadNames {
		if n == s {
			return DPadMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dpad mode %q", s)
}

// ModeFlags are the volatile mode bits. They reset on every power cycle.
type ModeFlags struct {
	MappingEnabled bool
	DPad           DPadMode
}

// DefaultModeFlags is the power-on state.
func DefaultModeFlags() ModeFlags {
	return ModeFlags{MappingEnabled: true, DPad: DPadAnalogXY}
}
