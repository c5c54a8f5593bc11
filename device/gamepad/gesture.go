package gamepad

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// TickPeriod is the period of the gesture tick counter.
	TickPeriod = 4 * time.Millisecond
	// HoldTicks is how long a chord must be held: 250 ticks, one second.
	HoldTicks uint32 = 250
)

// TickSource is a free-running tick counter. It may wrap.
type TickSource interface {
	Ticks() uint32
}

// ClockTicks derives ticks from the wall clock.
type ClockTicks struct {
	start  time.Time
	period time.Duration
}

// NewClockTicks starts a counter that advances once per period.
func NewClockTicks(period time.Duration) *ClockTicks {
	if period <= 0 {
		period = TickPeriod
	}
	return &ClockTicks{start: time.Now(), period: period}
}

func (c *ClockTicks) Ticks() uint32 {
	return uint32(time.Since(c.start) / c.period)
}

// ManualTicks is advanced explicitly. Used by tests and scripted input.
type ManualTicks struct{ n atomic.Uint32 }

func (m *ManualTicks) Ticks() uint32 { return m.n.Load() }

// Advance moves the counter forward by n ticks.
func (m *ManualTicks) Advance(n uint32) { m.n.Add(n) }

// HoldState is the state of a HoldDetector.
type HoldState int

const (
	HoldIdle HoldState = iota
	HoldHolding
	HoldLatched
)

func (s HoldState) String() string {
	switch s {
	case HoldHolding:
		return "holding"
	case HoldLatched:
		return "latched"
	}
	return "idle"
}

// HoldDetector fires once when a chord has been held for Threshold ticks.
// It re-arms only after the chord is released.
type HoldDetector struct {
	Chord     []Button
	Threshold uint32

	state HoldState
	start uint32
}

// NewHoldDetector returns a detector for chord using HoldTicks.
func NewHoldDetector(chord ...Button) *HoldDetector {
	return &HoldDetector{Chord: chord, Threshold: HoldTicks}
}

func (d *HoldDetector) held(s Snapshot) bool {
	if len(d.Chord) == 0 {
		return false
	}
	for _, b := range d.Chord {
		if !s.Pressed(b) {
			return false
		}
	}
	return true
}

// Update advances the detector and reports whether the action fires now.
func (d *HoldDetector) Update(s Snapshot, now uint32) bool {
	if !d.held(s) {
		d.state = HoldIdle
		return false
	}
	switch d.state {
	case HoldIdle:
		d.state = HoldHolding
		d.start = now
		if d.Threshold == 0 {
			d.state = HoldLatched
			return true
		}
	case HoldHolding:
		if now-d.start >= d.Threshold {
			d.state = HoldLatched
			return true
		}
	}
	return false
}

// State returns the current state.
func (d *HoldDetector) State() HoldState { return d.state }

// ModeController owns the mode flags and the two gestures that change them:
// Start+TR toggles mapping, Start+TL cycles the D-pad mode.
type ModeController struct {
	mu     sync.Mutex
	flags  ModeFlags
	toggle *HoldDetector
	cycle  *HoldDetector
	logger *slog.Logger
}

// NewModeController starts at DefaultModeFlags.
func NewModeController(logger *slog.Logger) *ModeController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModeController{
		flags:  DefaultModeFlags(),
		toggle: NewHoldDetector(ButtonStart, ButtonTR),
		cycle:  NewHoldDetector(ButtonStart, ButtonTL),
		logger: logger,
	}
}

// Update feeds one snapshot to both gestures and returns the resulting flags.
func (c *ModeController) Update(s Snapshot, now uint32) ModeFlags {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.toggle.Update(s, now) {
		c.flags.MappingEnabled = !c.flags.MappingEnabled
		c.logger.Info("mapping mode toggled", "enabled", c.flags.MappingEnabled)
	}
	if c.cycle.Update(s, now) {
		c.flags.DPad = c.flags.DPad.Next()
		c.logger.Info("dpad mode changed", "mode", c.flags.DPad)
	}
	return c.flags
}

// Flags returns the current flags.
func (c *ModeController) Flags() ModeFlags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags
}

// SetFlags overrides the current flags.
func (c *ModeController) SetFlags(f ModeFlags) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flags = f
}

// Holding reports whether either gesture is mid-hold.
func (c *ModeController) Holding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toggle.State() == HoldHolding || c.cycle.State() == HoldHolding
}
