package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records raw report payloads.
type RawLogger interface {
	Log(label string, data []byte)
}

// NewRaw returns a RawLogger writing hex dumps to w. A nil w discards.
func NewRaw(w io.Writer) RawLogger {
	if w == nil {
		return nopRaw{}
	}
	return &rawLogger{w: w}
}

type rawLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (r *rawLogger) Log(label string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "%s %s len=%d\n%s", time.Now().Format("15:04:05.000000"), label, len(data), hex.Dump(data))
}

type nopRaw struct{}

func (nopRaw) Log(string, []byte) {}
