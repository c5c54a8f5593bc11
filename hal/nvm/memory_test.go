package nvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/hal/nvm"
)

func TestMemoryErasedOnCreate(t *testing.T) {
	m := nvm.NewMemory(nvm.HEFGeometry)
	for _, w := range m.Row(0x1F80) {
		assert.Equal(t, uint16(0x3FFF), w)
	}
	assert.Equal(t, uint16(0x3FFF), m.ReadWord(0x0000), "outside the region reads erased")
}

func TestMemoryRequiresUnlock(t *testing.T) {
	m := nvm.NewMemory(nvm.HEFGeometry)
	assert.ErrorIs(t, m.EraseRow(0x1F80), nvm.ErrLocked)
	assert.ErrorIs(t, m.WriteRow(0x1F80, []uint16{1}), nvm.ErrLocked)

	m.Unlock()
	assert.True(t, m.Unlocked())
	require.NoError(t, m.EraseRow(0x1F80))
	require.NoError(t, m.WriteRow(0x1F80, []uint16{0x3F01, 0x3F02}))
	m.Lock()
	assert.False(t, m.Unlocked())

	assert.Equal(t, uint16(0x3F01), m.ReadWord(0x1F80))
	assert.Equal(t, uint16(0x3F02), m.ReadWord(0x1F81))
	assert.Equal(t, uint16(0x3FFF), m.ReadWord(0x1F82))
}

func TestMemoryAddressing(t *testing.T) {
	tests := []struct {
		name    string
		addr    uint32
		wantErr error
	}{
		{name: "first row", addr: 0x1F80},
		{name: "second row", addr: 0x1FA0},
		{name: "unaligned", addr: 0x1F81, wantErr: nvm.ErrUnaligned},
		{name: "below base", addr: 0x1F00, wantErr: nvm.ErrOutOfRange},
		{name: "past end", addr: 0x2000, wantErr: nvm.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := nvm.NewMemory(nvm.HEFGeometry)
			m.Unlock()
			err := m.EraseRow(tt.addr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMemoryBusyPolls(t *testing.T) {
	m := nvm.NewMemory(nvm.HEFGeometry)
	m.BusyPolls = 2
	m.Unlock()
	require.NoError(t, m.EraseRow(0x1F80))
	assert.True(t, m.Busy())
	assert.True(t, m.Busy())
	assert.False(t, m.Busy())

	m.SetStuck(true)
	for range 10 {
		assert.True(t, m.Busy())
	}
	m.SetStuck(false)
	assert.False(t, m.Busy())
}

func TestMemoryPowerCut(t *testing.T) {
	m := nvm.NewMemory(nvm.HEFGeometry)
	m.Unlock()
	m.CutPowerAfter(2)
	err := m.WriteRow(0x1F80, []uint16{1, 2, 3, 4})
	assert.ErrorIs(t, err, nvm.ErrPowerLost)
	assert.Equal(t, []uint16{1, 2, 0x3FFF, 0x3FFF}, m.Row(0x1F80)[:4])

	require.NoError(t, m.WriteRow(0x1FA0, []uint16{5, 6}), "fault is one-shot")
	erases, writes := m.Counts()
	assert.Equal(t, 0, erases)
	assert.Equal(t, 2, writes)
}
