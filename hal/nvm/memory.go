// Package nvm provides simulated row-based flash for the mapping store.
package nvm

import (
	"errors"
	"sync"
)

var (
	ErrLocked      = errors.New("nvm: write attempted while locked")
	ErrUnaligned   = errors.New("nvm: address not row aligned")
	ErrOutOfRange  = errors.New("nvm: address out of range")
	ErrPowerLost   = errors.New("nvm: power lost during program")
	ErrImageInUse  = errors.New("nvm: flash image locked by another process")
	ErrImageLayout = errors.New("nvm: flash image size mismatch")
)

// Geometry describes a flash region.
type Geometry struct {
	Base     uint32 // first word address
	Rows     int
	RowWords int
	Erased   uint16
}

// HEFGeometry is the reference board's high-endurance flash: one 32-word row
// at 0x1F80 erasing to 0x3FFF.
var HEFGeometry = Geometry{Base: 0x1F80, Rows: 4, RowWords: 32, Erased: 0x3FFF}

func (g Geometry) size() int { return g.Rows * g.RowWords }

// Memory is an in-memory flash controller. Erase and program complete after
// BusyPolls calls to Busy, the way a real controller reports completion.
type Memory struct {
	mu       sync.Mutex
	geo      Geometry
	words    []uint16
	unlocked bool
	busyLeft int

	// BusyPolls is the number of Busy calls that report true after each
	// erase or program.
	BusyPolls int

	stuck    bool
	cutAfter int

	erases  int
	writes  int
	history []Event
}

// EventKind identifies a flash controller operation.
type EventKind int

const (
	EventUnlock EventKind = iota
	EventErase
	EventWrite
	EventLock
)

// Event records a controller operation for inspection in tests.
type Event struct {
	Kind EventKind
	Addr uint32
}

// NewMemory returns a fully erased flash with geometry g.
func NewMemory(g Geometry) *Memory {
	m := &Memory{geo: g, words: make([]uint16, g.size()), cutAfter: -1}
	for i := range m.words {
		m.words[i] = g.Erased
	}
	return m
}

// Geometry returns the region layout.
func (m *Memory) Geometry() Geometry { return m.geo }

func (m *Memory) index(addr uint32) (int, bool) {
	if addr < m.geo.Base {
		return 0, false
	}
	i := int(addr - m.geo.Base)
	return i, i < len(m.words)
}

// ReadWord returns the word at addr, or the erased pattern outside the region.
func (m *Memory) ReadWord(addr uint32) uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index(addr)
	if !ok {
		return m.geo.Erased
	}
	return m.words[i]
}

// Unlock enables erase and program.
func (m *Memory) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unlocked = true
	m.history = append(m.history, Event{Kind: EventUnlock})
}

// Lock disables erase and program.
func (m *Memory) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unlocked = false
	m.history = append(m.history, Event{Kind: EventLock})
}

// Busy reports whether an erase or program is still in progress.
func (m *Memory) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stuck {
		return true
	}
	if m.busyLeft > 0 {
		m.busyLeft--
		return true
	}
	return false
}

func (m *Memory) rowIndex(addr uint32) (int, error) {
	i, ok := m.index(addr)
	if !ok {
		return 0, ErrOutOfRange
	}
	if i%m.geo.RowWords != 0 {
		return 0, ErrUnaligned
	}
	return i, nil
}

// EraseRow sets the row at addr to the erased pattern.
func (m *Memory) EraseRow(addr uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.unlocked {
		return ErrLocked
	}
	start, err := m.rowIndex(addr)
	if err != nil {
		return err
	}
	for i := start; i < start+m.geo.RowWords; i++ {
		m.words[i] = m.geo.Erased
	}
	m.erases++
	m.busyLeft = m.BusyPolls
	m.history = append(m.history, Event{Kind: EventErase, Addr: addr})
	return nil
}

// WriteRow programs words into the row at addr. Words beyond the row length
// are ignored.
func (m *Memory) WriteRow(addr uint32, words []uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.unlocked {
		return ErrLocked
	}
	start, err := m.rowIndex(addr)
	if err != nil {
		return err
	}
	n := min(len(words), m.geo.RowWords)
	lost := false
	if m.cutAfter >= 0 && m.cutAfter < n {
		n, lost = m.cutAfter, true
		m.cutAfter = -1
	}
	copy(m.words[start:start+n], words[:n])
	m.writes++
	m.busyLeft = m.BusyPolls
	m.history = append(m.history, Event{Kind: EventWrite, Addr: addr})
	if lost {
		return ErrPowerLost
	}
	return nil
}

// CutPowerAfter makes the next WriteRow program only n words before failing
// with ErrPowerLost. A negative n disables the fault.
func (m *Memory) CutPowerAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutAfter = n
}

// SetStuck makes Busy report true until cleared.
func (m *Memory) SetStuck(stuck bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stuck = stuck
}

// Poke overwrites a single word, bypassing the lock. Used to corrupt images.
func (m *Memory) Poke(addr uint32, v uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.index(addr); ok {
		m.words[i] = v
	}
}

// Row returns a copy of the row starting at addr.
func (m *Memory) Row(addr uint32) []uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index(addr)
	if !ok {
		return nil
	}
	end := min(i+m.geo.RowWords, len(m.words))
	return append([]uint16(nil), m.words[i:end]...)
}

// Counts returns the number of erase and program operations performed.
func (m *Memory) Counts() (erases, writes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.erases, m.writes
}

// History returns the recorded controller operations.
func (m *Memory) History() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.history...)
}

// Unlocked reports whether the controller currently accepts writes.
func (m *Memory) Unlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unlocked
}

func (m *Memory) snapshot() []uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint16(nil), m.words...)
}

func (m *Memory) restore(words []uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.words, words)
}
