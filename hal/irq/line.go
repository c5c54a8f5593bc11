// Package irq models the global interrupt enable bit that serializes USB
// transfer events against the main loop.
package irq

import "sync"

// Line delivers handlers one at a time, only while interrupts are enabled.
// Entering a handler clears the enable bit and leaving sets it again, as on
// the reference MCU. Disable/Restore may nest freely; Restore always puts
// back exactly the state Disable observed.
type Line struct {
	mu      sync.Mutex
	cond    *sync.Cond
	enabled bool
	active  bool
	served  uint64
}

// NewLine returns a line with interrupts enabled.
func NewLine() *Line {
	l := &Line{enabled: true}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Disable clears the enable bit and returns its previous value.
func (l *Line) Disable() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.enabled
	l.enabled = false
	return prev
}

// Restore sets the enable bit to prev.
func (l *Line) Restore(prev bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = prev
	if prev {
		l.cond.Broadcast()
	}
}

// Enabled reports the current enable bit.
func (l *Line) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Deliver runs fn in interrupt context. It blocks while interrupts are
// disabled or another handler is running.
func (l *Line) Deliver(fn func()) {
	l.mu.Lock()
	for !l.enabled || l.active {
		l.cond.Wait()
	}
	l.active = true
	l.enabled = false
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.active = false
		l.enabled = true
		l.served++
		l.cond.Broadcast()
		l.mu.Unlock()
	}()
	fn()
}

// Served returns the number of handlers delivered so far.
func (l *Line) Served() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.served
}
