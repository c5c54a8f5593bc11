// Package input provides the physical button state of the virtual gamepad.
package input

import (
	"sync"
	"time"

	"github.com/Alia5/padmap/device/gamepad"
)

// Source reports the current state of the physical inputs.
type Source interface {
	Snapshot() gamepad.Snapshot
}

// Manual is a Source driven by API calls. A sticky state stays until
// cleared; a held state expires on its own.
type Manual struct {
	mu     sync.Mutex
	sticky gamepad.Snapshot
	held   gamepad.Snapshot
	until  time.Time
	now    func() time.Time
}

// NewManual returns an idle manual source.
func NewManual() *Manual { return &Manual{now: time.Now} }

// Set replaces the sticky state.
func (m *Manual) Set(s gamepad.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sticky = s
}

// Hold presses s for d, replacing any earlier hold.
func (m *Manual) Hold(s gamepad.Snapshot, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held = s
	m.until = m.now().Add(d)
}

// Clear releases everything.
func (m *Manual) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sticky = gamepad.Snapshot{}
	m.held = gamepad.Snapshot{}
	m.until = time.Time{}
}

func (m *Manual) Snapshot() gamepad.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sticky
	if m.now().Before(m.until) {
		s = s.Merge(m.held)
	}
	return s
}

type merged []Source

// Merge combines sources; an input is held if any source holds it.
func Merge(sources ...Source) Source {
	var out merged
	for _, s := range sources {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m merged) Snapshot() gamepad.Snapshot {
	var s gamepad.Snapshot
	for _, src := range m {
		s = s.Merge(src.Snapshot())
	}
	return s
}
