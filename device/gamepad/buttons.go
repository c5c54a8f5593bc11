// Package gamepad turns physical button state into the 14-button joystick
// input report.
package gamepad

import (
	"fmt"
	"strconv"
	"strings"
)

// NumButtons is the number of physical button slots.
const NumButtons = 14

// Button is a physical button index.
type Button int

// Physical buttons of the reference board. Aux9..Aux13 have no switch wired
// and only ever report pressed when driven externally.
const (
	ButtonA Button = iota
	ButtonB
	ButtonC
	ButtonX
	ButtonY
	ButtonZ
	ButtonTL
	ButtonTR
	ButtonStart
	ButtonAux9
	ButtonAux10
	ButtonAux11
	ButtonAux12
	ButtonAux13
)

var buttonNames = [NumButtons]string{
	"a", "b", "c", "x", "y", "z", "tl", "tr", "start",
	"aux9", "aux10", "aux11", "aux12", "aux13",
}

func (b Button) String() string {
	if b < 0 || int(b) >= NumButtons {
		return fmt.Sprintf("button(%d)", int(b))
	}
	return buttonNames[b]
}

// ParseButton accepts a button name or its numeric index.
func ParseButton(s string) (Button, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range buttonNames {
		if n == s {
			return Button(i), nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < NumButtons {
		return Button(i), nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// Direction is one of the four D-pad switches.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Snapshot is the state of all physical inputs for one polling cycle.
type Snapshot struct {
	Buttons               [NumButtons]bool
	Up, Down, Left, Right bool
}

// Pressed reports whether b is held. Out-of-range buttons are never held.
func (s Snapshot) Pressed(b Button) bool {
	if b < 0 || int(b) >= NumButtons {
		return false
	}
	return s.Buttons[b]
}

// Press marks b as held.
func (s *Snapshot) Press(b Button) {
	if b >= 0 && int(b) < NumButtons {
		s.Buttons[b] = true
	}
}

// PressDirection marks d as held.
func (s *Snapshot) PressDirection(d Direction) {
	switch d {
	case DirUp:
		s.Up = true
	case DirDown:
		s.Down = true
	case DirLeft:
		s.Left = true
	case DirRight:
		s.Right = true
	}
}

// Merge returns the union of held inputs.
func (s Snapshot) Merge(o Snapshot) Snapshot {
	for i, p := range o.Buttons {
		s.Buttons[i] = s.Buttons[i] || p
	}
	s.Up = s.Up || o.Up
	s.Down = s.Down || o.Down
	s.Left = s.Left || o.Left
	s.Right = s.Right || o.Right
	return s
}

// ParseSnapshot builds a snapshot from button and direction names, for
// example "start+tl" or "a, up".
func ParseSnapshot(list string) (Snapshot, error) {
	var s Snapshot
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
	for _, f := range fields {
		if d, ok := parseDirection(f); ok {
			s.PressDirection(d)
			continue
		}
		b, err := ParseButton(f)
		if err != nil {
			return Snapshot{}, err
		}
		s.Press(b)
	}
	return s, nil
}

func parseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == s {
			return Direction(i), true
		}
	}
	return 0, false
}

// Names returns the held inputs in index order, directions last.
func (s Snapshot) Names() []string {
	var out []string
	for i, p := range s.Buttons {
		if p {
			out = append(out, buttonNames[i])
		}
	}
	for i, p := range []bool{s.Up, s.Down, s.Left, s.Right} {
		if p {
			out = append(out, directionNames[i])
		}
	}
	return out
}
