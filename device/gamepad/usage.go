package gamepad

import (
	"fmt"
	"strconv"
	"strings"
)

// Usage is a logical button of the input report. 0 means unassigned.
type Usage uint8

const (
	UsageNone Usage = iota
	UsageA
	UsageB
	UsageC
	UsageX
	UsageY
	UsageZ
	UsageL1
	UsageR1
	UsageStart
	UsageL2
	UsageR2
	UsageHome
	UsageRightStick
	UsageLeftStick
)

// MaxUsage is the highest assignable usage.
const MaxUsage = UsageLeftStick

var usageNames = [...]string{
	"none", "a", "b", "c", "x", "y", "z", "l1", "r1",
	"start", "l2", "r2", "home", "rs", "ls",
}

func (u Usage) String() string {
	if int(u) >= len(usageNames) {
		return fmt.Sprintf("usage(%d)", uint8(u))
	}
	return usageNames[u]
}

// ParseUsage accepts a usage name or its numeric value.
func ParseUsage(s string) (Usage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range usageNames {
		if n == s {
			return Usage(i), nil
		}
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil || Usage(v) > MaxUsage {
		return 0, fmt.Errorf("unknown usage %q", s)
	}
	return Usage(v), nil
}

// Valid reports whether u sets a bit in the report.
func (u Usage) Valid() bool { return u >= UsageA && u <= MaxUsage }

// Bit returns the report byte and bit mask of u. ok is false for unassigned
// or out-of-range usages.
//
//	usage 1..8  -> byte 0 bit 0..7
//	usage 9..14 -> byte 1 bit 0..5
func (u Usage) Bit() (byteIdx int, mask uint8, ok bool) {
	if !u.Valid() {
		return 0, 0, false
	}
	n := int(u) - 1
	return n / 8, 1 << (n % 8), true
}

// LegacyUsage is the fixed assignment used while mapping is disabled.
func LegacyUsage(b Button) Usage { return Usage(b + 1) }
