package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/apiclient"
	"github.com/Alia5/padmap/device/gamepad"
	"github.com/Alia5/padmap/device/mapping"
	"github.com/Alia5/padmap/internal/emulator"
	"github.com/Alia5/padmap/internal/profile"
	"github.com/Alia5/padmap/internal/server/api"
	th "github.com/Alia5/padmap/internal/testing"
)

func startServer(t *testing.T) (*apiclient.Client, *emulator.Device) {
	t.Helper()
	addr, dev, done := th.StartAPIServer(t, func(r *api.Router, dev *emulator.Device, _ *api.Server) {
		RegisterRoutes(r, dev, "test")
	})
	t.Cleanup(done)
	return apiclient.New(addr), dev
}

func TestMappingCommands(t *testing.T) {
	tests := []struct {
		name      string
		run       func(cl *apiclient.Client, w *bytes.Buffer) error
		wantOut   string
		wantTable mapping.Table
	}{
		{
			name:      "get",
			run:       func(cl *apiclient.Client, w *bytes.Buffer) error { return (&MappingGet{}).exec(cl, w) },
			wantOut:   "start  -> l2    (10)",
			wantTable: mapping.DefaultTable,
		},
		{
			name: "set",
			run: func(cl *apiclient.Client, w *bytes.Buffer) error {
				return (&MappingSet{Assignments: []string{"a=b", "b=a"}}).exec(cl, w)
			},
			wantOut:   "a      -> b     (2)",
			wantTable: mapping.Table{2, 1, 3, 4, 5, 6, 7, 8, 10, 11, 14, 13, 12, 9},
		},
		{
			name:      "reset",
			run:       func(cl *apiclient.Client, w *bytes.Buffer) error { return (&MappingReset{}).exec(cl, w) },
			wantOut:   "crc: 0x9D",
			wantTable: mapping.DefaultTable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl, dev := startServer(t)
			var out bytes.Buffer
			require.NoError(t, tt.run(cl, &out))
			assert.Contains(t, out.String(), tt.wantOut)
			assert.Equal(t, tt.wantTable, dev.Store().Load().Table)
		})
	}
}

func TestMappingImportExport(t *testing.T) {
	cl, dev := startServer(t)
	dir := t.TempDir()

	in := filepath.Join(dir, "in.yaml")
	require.NoError(t, os.WriteFile(in, []byte("buttons:\n  start: home\n  tl: start\n"), 0o644))
	var out bytes.Buffer
	require.NoError(t, (&MappingImport{File: in}).exec(cl, &out))

	want := mapping.DefaultTable
	want[8], want[6] = 12, 9
	assert.Equal(t, want, dev.Store().Load().Table)

	exported := filepath.Join(dir, "out.toml")
	require.NoError(t, (&MappingExport{File: exported, Name: "mine"}).exec(cl, &out))
	p, err := profile.Load(exported)
	require.NoError(t, err)
	assert.Equal(t, "mine", p.Name)
	got, err := p.Table(mapping.Table{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMappingImportEmpty(t *testing.T) {
	cl, _ := startServer(t)
	in := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"buttons":{}}`), 0o644))
	err := (&MappingImport{File: in}).exec(cl, &bytes.Buffer{})
	assert.ErrorContains(t, err, "assigns no buttons")
}

func TestPressAndState(t *testing.T) {
	cl, dev := startServer(t)
	var out bytes.Buffer

	require.NoError(t, (&Press{Inputs: "x+right", Hold: 0}).exec(cl, &out))
	assert.Equal(t, "holding x+right\n", out.String())

	dev.Poll()
	out.Reset()
	require.NoError(t, (&State{}).exec(cl, &out))
	assert.Contains(t, out.String(), "pressed: x+right")
	assert.Contains(t, out.String(), "buttons: x")
	assert.Contains(t, out.String(), "mapping: on  dpad: analog-xy")

	out.Reset()
	require.NoError(t, (&Press{Release: true}).exec(cl, &out))
	assert.Equal(t, "released\n", out.String())
	assert.Equal(t, gamepad.Snapshot{}, dev.Manual().Snapshot())

	assert.ErrorContains(t, (&Press{}).exec(cl, &out), "nothing to press")
}

func TestModeCommand(t *testing.T) {
	cl, dev := startServer(t)
	var out bytes.Buffer
	require.NoError(t, (&Mode{Settings: []string{"dpad=z-rz"}}).exec(cl, &out))
	assert.Equal(t, "mapping: true  dpad: z-rz\n", out.String())
	assert.Equal(t, gamepad.DPadZRz, dev.Modes().Flags().DPad)
}

func TestWatch(t *testing.T) {
	cl, dev := startServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- (&Watch{}).exec(ctx, cl, w) }()

	require.Eventually(t, func() bool { return strings.Contains(w.String(), "hat: null") }, 2*time.Second, 5*time.Millisecond)
	dev.Manual().Set(gamepad.Snapshot{Buttons: [gamepad.NumButtons]bool{gamepad.ButtonZ: true}})
	dev.Poll()
	require.Eventually(t, func() bool { return strings.Contains(w.String(), "buttons: z") }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"keyboard", "evdev", "log"}, splitList([]string{"Keyboard, evdev", "", "log"}))
}

func TestOpenSinksUnknown(t *testing.T) {
	r := &Run{Sink: []string{"log", "speaker"}}
	_, err := r.openSinks(nil, nil)
	assert.ErrorContains(t, err, `unknown sink "speaker"`)
}

func TestOpenSourcesNeedsEvdevPath(t *testing.T) {
	r := &Run{Source: []string{"evdev"}}
	var closers []io.Closer
	_, _, err := r.openSources(nil, func() {}, &closers)
	assert.ErrorContains(t, err, "--evdev is required")
}
