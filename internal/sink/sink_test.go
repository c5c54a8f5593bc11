package sink_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/padmap/device/gamepad"
	"github.com/Alia5/padmap/internal/log"
	"github.com/Alia5/padmap/internal/sink"
)

type recorder struct {
	got []gamepad.Report
	err error
}

func (r *recorder) Send(rep gamepad.Report) error {
	r.got = append(r.got, rep)
	return r.err
}

func (r *recorder) Close() error { return r.err }

func TestLogSink(t *testing.T) {
	var logs, raw bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := sink.NewLog(logger, log.NewRaw(&raw))

	r := gamepad.NewReport()
	r.Set(gamepad.UsageHome)
	assert.NoError(t, s.Send(r))
	assert.NoError(t, s.Send(r))

	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("input report")), "unchanged reports are not logged twice")
	assert.Equal(t, 2, bytes.Count(raw.Bytes(), []byte("IN report")))
	assert.Contains(t, logs.String(), "home")
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	a, b := &recorder{}, &recorder{err: boom}
	m := sink.Multi{a, b}

	err := m.Send(gamepad.NewReport())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
	assert.ErrorIs(t, m.Close(), boom)
}
