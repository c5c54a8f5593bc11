package gamepad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/padmap/device/gamepad"
)

func TestHoldDetector(t *testing.T) {
	chord := press(gamepad.ButtonStart, gamepad.ButtonTR)
	released := press(gamepad.ButtonStart)

	tests := []struct {
		name  string
		start uint32
	}{
		{name: "from zero", start: 0},
		{name: "across counter wrap", start: 0xFFFFFF80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gamepad.NewHoldDetector(gamepad.ButtonStart, gamepad.ButtonTR)
			now := tt.start

			assert.False(t, d.Update(chord, now))
			assert.Equal(t, gamepad.HoldHolding, d.State())
			assert.False(t, d.Update(chord, now+gamepad.HoldTicks-1))
			assert.True(t, d.Update(chord, now+gamepad.HoldTicks))
			assert.Equal(t, gamepad.HoldLatched, d.State())
			assert.False(t, d.Update(chord, now+10*gamepad.HoldTicks), "fires once per hold")

			assert.False(t, d.Update(released, now+10*gamepad.HoldTicks+1))
			assert.Equal(t, gamepad.HoldIdle, d.State())

			now += 20 * gamepad.HoldTicks
			assert.False(t, d.Update(chord, now))
			assert.True(t, d.Update(chord, now+gamepad.HoldTicks), "re-armed after release")
		})
	}
}

func TestHoldDetectorEarlyRelease(t *testing.T) {
	d := gamepad.NewHoldDetector(gamepad.ButtonStart, gamepad.ButtonTL)
	chord := press(gamepad.ButtonStart, gamepad.ButtonTL)

	assert.False(t, d.Update(chord, 0))
	assert.False(t, d.Update(chord, 200))
	assert.False(t, d.Update(press(gamepad.ButtonTL), 201))
	assert.False(t, d.Update(chord, 300))
	assert.False(t, d.Update(chord, 300+gamepad.HoldTicks-1), "timer restarts on re-press")
	assert.True(t, d.Update(chord, 300+gamepad.HoldTicks))
}

// hold drives c through one complete gesture and release.
func hold(c *gamepad.ModeController, ticks *gamepad.ManualTicks, chord gamepad.Snapshot) gamepad.ModeFlags {
	c.Update(chord, ticks.Ticks())
	ticks.Advance(gamepad.HoldTicks)
	f := c.Update(chord, ticks.Ticks())
	ticks.Advance(1)
	c.Update(gamepad.Snapshot{}, ticks.Ticks())
	return f
}

func TestModeController(t *testing.T) {
	var ticks gamepad.ManualTicks
	c := gamepad.NewModeController(nil)
	assert.Equal(t, gamepad.DefaultModeFlags(), c.Flags())

	toggle := press(gamepad.ButtonStart, gamepad.ButtonTR)
	cycle := press(gamepad.ButtonStart, gamepad.ButtonTL)

	assert.False(t, hold(c, &ticks, toggle).MappingEnabled)
	assert.True(t, hold(c, &ticks, toggle).MappingEnabled)

	assert.Equal(t, gamepad.DPadHatSwitch, hold(c, &ticks, cycle).DPad)
	assert.Equal(t, gamepad.DPadZRz, hold(c, &ticks, cycle).DPad)
	assert.Equal(t, gamepad.DPadAnalogXY, hold(c, &ticks, cycle).DPad, "cycle length is 3")
	assert.True(t, c.Flags().MappingEnabled)
}

func TestModeControllerHolding(t *testing.T) {
	c := gamepad.NewModeController(nil)
	c.Update(press(gamepad.ButtonStart, gamepad.ButtonTL), 0)
	assert.True(t, c.Holding())
	c.Update(press(gamepad.ButtonStart, gamepad.ButtonTL), gamepad.HoldTicks)
	assert.False(t, c.Holding(), "latched is not holding")
	c.Update(gamepad.Snapshot{}, gamepad.HoldTicks+1)
	assert.False(t, c.Holding())
}

func TestDPadModeNext(t *testing.T) {
	m := gamepad.DPadAnalogXY
	seen := []gamepad.DPadMode{}
	for range 4 {
		seen = append(seen, m)
		m = m.Next()
	}
	assert.Equal(t, []gamepad.DPadMode{gamepad.DPadAnalogXY, gamepad.DPadHatSwitch, gamepad.DPadZRz, gamepad.DPadAnalogXY}, seen)
}
