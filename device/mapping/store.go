package mapping

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// DefaultAddress is the start of the reserved high-endurance flash row.
const DefaultAddress uint32 = 0x1F80

// DefaultWriteTimeout bounds each erase/program busy-wait.
const DefaultWriteTimeout = 100 * time.Millisecond

var ErrFlashTimeout = errors.New("mapping: flash operation timed out")

// Flash is the non-volatile memory controller the store persists through.
// Erase and program are started by EraseRow and WriteRow and complete once
// Busy reports false.
type Flash interface {
	ReadWord(addr uint32) uint16
	Unlock()
	EraseRow(addr uint32) error
	WriteRow(addr uint32, words []uint16) error
	Busy() bool
	Lock()
}

// InterruptMask suspends the interrupt class that could start a concurrent
// write. Disable returns the previous state for Restore.
type InterruptMask interface {
	Disable() bool
	Restore(prev bool)
}

// Options configures a Store. The zero value selects the reference layout.
type Options struct {
	Address      uint32
	Codec        *RowCodec
	WriteTimeout time.Duration
	IRQ          InterruptMask
	Logger       *slog.Logger

	// OnLoadRejected is called when the persisted record fails validation.
	OnLoadRejected func(err error)
	// OnSaveFailed is called when the write sequence reports an error.
	OnSaveFailed func(err error)
}

// Store is the single owner of the working mapping record.
type Store struct {
	flash   Flash
	irq     InterruptMask
	addr    uint32
	codec   RowCodec
	timeout time.Duration
	logger  *slog.Logger

	onLoadRejected func(error)
	onSaveFailed   func(error)

	writeMu sync.Mutex
	mu      sync.RWMutex
	rec     Record
}

// New creates a Store backed by flash. The working copy starts as the
// default record until Load is called.
func New(flash Flash, opts *Options) *Store {
	if opts == nil {
		opts = &Options{}
	}
	s := &Store{
		flash:          flash,
		irq:            opts.IRQ,
		addr:           opts.Address,
		codec:          HEFCodec,
		timeout:        opts.WriteTimeout,
		logger:         opts.Logger,
		onLoadRejected: opts.OnLoadRejected,
		onSaveFailed:   opts.OnSaveFailed,
		rec:            DefaultRecord(),
	}
	if s.addr == 0 {
		s.addr = DefaultAddress
	}
	if opts.Codec != nil {
		s.codec = *opts.Codec
	}
	if s.timeout == 0 {
		s.timeout = DefaultWriteTimeout
	}
	if s.irq == nil {
		s.irq = noMask{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Load reads the persisted record into the working copy and returns it.
// An invalid record is replaced in memory by the default record; nothing is
// written back.
func (s *Store) Load() Record {
	row := make([]uint16, max(s.codec.Words, RecordSize))
	for i := range row {
		row[i] = s.flash.ReadWord(s.addr + uint32(i))
	}

	rec, ok := s.codec.Deserialize(row)
	err := ErrRowTooShort
	if ok {
		err = rec.Validate()
	}
	if err != nil {
		s.logger.Warn("mapping record rejected, using defaults", "addr", fmt.Sprintf("0x%04X", s.addr), "error", err)
		if s.onLoadRejected != nil {
			s.onLoadRejected(err)
		}
		rec = DefaultRecord()
	} else {
		s.logger.Debug("mapping loaded", "table", rec.Table)
	}

	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()
	return rec
}

// Usage returns the usage assigned to a physical button. phys must be in
// [0, NumButtons).
func (s *Store) Usage(phys int) uint8 {
	if phys < 0 || phys >= NumButtons {
		panic(fmt.Sprintf("mapping: physical index %d out of range", phys))
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Table[phys]
}

// Table returns a copy of the working table.
func (s *Store) Table() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Table
}

// Record returns a copy of the working record.
func (s *Store) Record() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec
}

// Save replaces the working record with t and persists it.
//
// The returned error only reports a failed or timed out flash operation; the
// checksum remains the sole trust boundary on the next Load.
func (s *Store) Save(t Table) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	rec := NewRecord(t)
	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()

	row := s.codec.Serialize(rec)
	if err := s.program(row); err != nil {
		s.logger.Error("mapping save failed", "error", err)
		if s.onSaveFailed != nil {
			s.onSaveFailed(err)
		}
		return err
	}
	s.logger.Debug("mapping saved", "table", rec.Table, "crc", rec.Checksum)
	return nil
}

func (s *Store) program(row []uint16) error {
	prev := s.irq.Disable()
	defer s.irq.Restore(prev)

	s.flash.Unlock()
	defer s.flash.Lock()

	if err := s.flash.EraseRow(s.addr); err != nil {
		return fmt.Errorf("erase: %w", err)
	}
	if err := s.waitIdle("erase"); err != nil {
		return err
	}
	if err := s.flash.WriteRow(s.addr, row); err != nil {
		return fmt.Errorf("program: %w", err)
	}
	return s.waitIdle("program")
}

func (s *Store) waitIdle(op string) error {
	deadline := time.Now().Add(s.timeout)
	for s.flash.Busy() {
		if time.Now().After(deadline) {
			return fmt.Errorf("%s: %w", op, ErrFlashTimeout)
		}
		runtime.Gosched()
	}
	return nil
}

type noMask struct{}

func (noMask) Disable() bool     { return false }
func (noMask) Restore(prev bool) {}
