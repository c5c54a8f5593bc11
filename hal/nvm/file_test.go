package nvm_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/hal/nvm"
)

func TestFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")

	f, err := nvm.OpenFile(path, nvm.HEFGeometry)
	require.NoError(t, err)
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2*4*32), st.Size(), "new image is written erased")

	f.Unlock()
	require.NoError(t, f.EraseRow(0x1F80))
	require.NoError(t, f.WriteRow(0x1F80, []uint16{0x3F01, 0x3F0E}))
	f.Lock()
	require.NoError(t, f.Close())

	f, err = nvm.OpenFile(path, nvm.HEFGeometry)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, uint16(0x3F01), f.ReadWord(0x1F80))
	assert.Equal(t, uint16(0x3F0E), f.ReadWord(0x1F81))
	assert.Equal(t, uint16(0x3FFF), f.ReadWord(0x1F82))
}

func TestFilePowerLossPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	f, err := nvm.OpenFile(path, nvm.HEFGeometry)
	require.NoError(t, err)

	f.Unlock()
	f.CutPowerAfter(1)
	assert.ErrorIs(t, f.WriteRow(0x1F80, []uint16{0x3F01, 0x3F02}), nvm.ErrPowerLost)
	require.NoError(t, f.Close())

	f, err = nvm.OpenFile(path, nvm.HEFGeometry)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []uint16{0x3F01, 0x3FFF}, f.Row(0x1F80)[:2])
}

func TestFileRejectsBadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))
	_, err := nvm.OpenFile(path, nvm.HEFGeometry)
	assert.ErrorIs(t, err, nvm.ErrImageLayout)
}

func TestFileSingleWriter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("image locking is unix only")
	}
	path := filepath.Join(t.TempDir(), "flash.img")
	f, err := nvm.OpenFile(path, nvm.HEFGeometry)
	require.NoError(t, err)

	_, err = nvm.OpenFile(path, nvm.HEFGeometry)
	assert.ErrorIs(t, err, nvm.ErrImageInUse)

	require.NoError(t, f.Close())
	f, err = nvm.OpenFile(path, nvm.HEFGeometry)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
