package gamepad

// UsageSource resolves a physical index to its configured usage.
type UsageSource interface {
	Usage(phys int) uint8
}

// Translate builds the input report for one polling cycle.
func Translate(s Snapshot, flags ModeFlags, usages UsageSource) Report {
	r := NewReport()

	for phys := range NumButtons {
		if !s.Buttons[phys] {
			continue
		}
		var u Usage
		if flags.MappingEnabled {
			u = Usage(usages.Usage(phys))
		} else {
			u = LegacyUsage(Button(phys))
		}
		r.Set(u)
	}

	switch flags.DPad {
	case DPadHatSwitch:
		r.Hat = hat(s)
	case DPadZRz:
		r.Z, r.Rz = axes(s)
	default:
		r.X, r.Y = axes(s)
	}

	if s.Buttons[ButtonStart] && s.Buttons[ButtonTL] {
		r.Set(UsageHome)
	}
	return r
}

// axes returns the horizontal and vertical axis values. Right and down are
// evaluated last and win over their opposites.
func axes(s Snapshot) (h, v uint8) {
	h, v = AxisCenter, AxisCenter
	if s.Left {
		h = AxisMin
	}
	if s.Right {
		h = AxisMax
	}
	if s.Up {
		v = AxisMin
	}
	if s.Down {
		v = AxisMax
	}
	return h, v
}

func hat(s Snapshot) Hat {
	up, down, left, right := s.Up, s.Down, s.Left, s.Right
	if (up && down) || (left && right) {
		return HatNull
	}
	switch {
	case up && left:
		return HatNorthWest
	case up && right:
		return HatNorthEast
	case down && left:
		return HatSouthWest
	case down && right:
		return HatSouthEast
	case up:
		return HatNorth
	case right:
		return HatEast
	case down:
		return HatSouth
	case left:
		return HatWest
	}
	return HatNull
}
