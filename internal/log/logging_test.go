package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "trace", want: LevelTrace},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: " info ", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestColorHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newColorHandler(&buf, LevelTrace))

	logger.With("component", "mapping").WithGroup("flash").Info("saved", "crc", 0x9D)
	logger.Log(context.Background(), LevelTrace, "raw")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], " INFO")
	assert.Contains(t, lines[0], "saved")
	assert.Contains(t, lines[0], "component=\033[0mmapping")
	assert.Contains(t, lines[0], "flash.crc=\033[0m157")
	assert.Contains(t, lines[1], "TRACE")
}

func TestColorHandlerGroupedWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newColorHandler(&buf, slog.LevelInfo)).WithGroup("api").With("remote", "x").Info("cmd")
	assert.Contains(t, buf.String(), "api.remote=\033[0mx")
	assert.NotContains(t, buf.String(), "api.api.")
}

func TestLevelFilterFanout(t *testing.T) {
	var out, errOut bytes.Buffer
	h := fanout{
		levelFilter{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: newColorHandler(&out, slog.LevelInfo)},
		levelFilter{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: newColorHandler(&errOut, slog.LevelError)},
	}
	logger := slog.New(h)
	logger.Debug("hidden")
	logger.Info("to stdout")
	logger.Error("to stderr")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "to stdout")
	assert.NotContains(t, out.String(), "to stderr")
	assert.Contains(t, errOut.String(), "to stderr")
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupLoggerFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "padmap.log")
	logger, closers, err := SetupLogger("trace", path)
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.Log(context.Background(), LevelTrace, "feature report", "len", 64)
	require.NoError(t, closers[0].Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=TRACE")
	assert.Contains(t, string(data), `msg="feature report" len=64`)
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	NewRaw(&buf).Log("SET mapping", []byte{0x00, 0x0E, 0x0D})
	out := buf.String()
	assert.Contains(t, out, "SET mapping len=3")
	assert.Contains(t, out, "00 0e 0d")

	assert.NotPanics(t, func() { NewRaw(nil).Log("x", []byte{1}) })
}
