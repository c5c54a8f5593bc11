// Package sink delivers generated input reports to their consumers.
package sink

import (
	"errors"
	"log/slog"

	"github.com/Alia5/padmap/device/gamepad"
	"github.com/Alia5/padmap/internal/log"
)

// Sink consumes input reports.
type Sink interface {
	Send(r gamepad.Report) error
	Close() error
}

// Log writes changed reports to the logger and every report to the raw log.
type Log struct {
	logger *slog.Logger
	raw    log.RawLogger
	last   gamepad.Report
	seen   bool
}

// NewLog returns a logging sink.
func NewLog(logger *slog.Logger, raw log.RawLogger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Log{logger: logger, raw: raw}
}

func (l *Log) Send(r gamepad.Report) error {
	b, _ := r.MarshalBinary()
	l.raw.Log("IN report", b)
	if l.seen && r == l.last {
		return nil
	}
	l.seen, l.last = true, r
	l.logger.Debug("input report", "report", r.String())
	return nil
}

func (l *Log) Close() error { return nil }

// Multi fans a report out to several sinks and joins their errors.
type Multi []Sink

func (m Multi) Send(r gamepad.Report) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
