package feature

import "sync"

// Receiver arms an OUT transfer into buf on endpoint ep.
type Receiver interface {
	Receive(ep uint8, buf []byte) RxHandle
}

// RxHandle tracks one armed OUT transfer.
type RxHandle interface {
	Busy() bool
}

// VirtualEndpoint is a Receiver fed by Deliver.
type VirtualEndpoint struct {
	mu      sync.Mutex
	pending *rxHandle
}

type rxHandle struct {
	ep   uint8
	buf  []byte
	mu   *sync.Mutex
	busy bool
	n    int
}

func (h *rxHandle) Busy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.busy
}

// NewVirtualEndpoint returns an endpoint with nothing armed.
func NewVirtualEndpoint() *VirtualEndpoint { return &VirtualEndpoint{} }

// Receive arms buf for the next Deliver. A previously armed buffer is
// replaced.
func (v *VirtualEndpoint) Receive(ep uint8, buf []byte) RxHandle {
	v.mu.Lock()
	defer v.mu.Unlock()
	h := &rxHandle{ep: ep, buf: buf, mu: &v.mu, busy: true}
	v.pending = h
	return h
}

// Armed reports whether a receive is outstanding.
func (v *VirtualEndpoint) Armed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending != nil
}

// Deliver completes the outstanding receive with data, truncated to the
// armed buffer. ok is false when nothing is armed.
func (v *VirtualEndpoint) Deliver(data []byte) (n int, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	h := v.pending
	if h == nil {
		return 0, false
	}
	h.n = copy(h.buf, data)
	h.busy = false
	v.pending = nil
	return h.n, true
}
