package input

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/padmap/device/gamepad"
)

// DefaultKeyHold is how long a key press counts as held. Terminals report
// no key release, so a held key is kept alive by auto-repeat, whose initial
// delay is typically 500ms.
const DefaultKeyHold = 600 * time.Millisecond

// Key identifies one terminal key binding.
type Key struct {
	Button    gamepad.Button
	Direction gamepad.Direction
	IsDir     bool
}

// DefaultKeyMap binds terminal keys to gamepad inputs.
var DefaultKeyMap = map[string]Key{
	"a": {Button: gamepad.ButtonA}, "b": {Button: gamepad.ButtonB}, "c": {Button: gamepad.ButtonC},
	"x": {Button: gamepad.ButtonX}, "y": {Button: gamepad.ButtonY}, "z": {Button: gamepad.ButtonZ},
	"q": {Button: gamepad.ButtonTL}, "e": {Button: gamepad.ButtonTR},
	"\r": {Button: gamepad.ButtonStart}, " ": {Button: gamepad.ButtonStart},
	"1": {Button: gamepad.ButtonAux9}, "2": {Button: gamepad.ButtonAux10}, "3": {Button: gamepad.ButtonAux11},
	"4": {Button: gamepad.ButtonAux12}, "5": {Button: gamepad.ButtonAux13},
	"w": {Direction: gamepad.DirUp, IsDir: true}, "s": {Direction: gamepad.DirDown, IsDir: true},
	"h": {Direction: gamepad.DirLeft, IsDir: true}, "l": {Direction: gamepad.DirRight, IsDir: true},
	"\x1b[A": {Direction: gamepad.DirUp, IsDir: true}, "\x1b[B": {Direction: gamepad.DirDown, IsDir: true},
	"\x1b[D": {Direction: gamepad.DirLeft, IsDir: true}, "\x1b[C": {Direction: gamepad.DirRight, IsDir: true},
}

// Keyboard reads key presses from a terminal and latches each for Hold.
type Keyboard struct {
	in     *os.File
	keys   map[string]Key
	hold   time.Duration
	logger *slog.Logger

	// OnInterrupt is called when Ctrl-C arrives while the terminal is raw.
	OnInterrupt func()

	mu       sync.Mutex
	deadline map[Key]time.Time
	now      func() time.Time
}

// NewKeyboard reads from in. A nil keys map selects DefaultKeyMap.
func NewKeyboard(in *os.File, keys map[string]Key, hold time.Duration, logger *slog.Logger) *Keyboard {
	if keys == nil {
		keys = DefaultKeyMap
	}
	if hold <= 0 {
		hold = DefaultKeyHold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Keyboard{in: in, keys: keys, hold: hold, logger: logger, deadline: map[Key]time.Time{}, now: time.Now}
}

// Run switches the terminal to raw mode and reads keys until ctx is done or
// the input closes.
func (k *Keyboard) Run(ctx context.Context) error {
	fd := int(k.in.Fd())
	if term.IsTerminal(fd) {
		prev, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, prev)
	}

	errc := make(chan error, 1)
	go func() {
		buf := make([]byte, 32)
		for {
			n, err := k.in.Read(buf)
			if n > 0 {
				k.Feed(buf[:n])
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		if err == io.EOF {
			return nil
		}
		return err
	}
}

// Feed processes raw terminal bytes.
func (k *Keyboard) Feed(b []byte) {
	now := k.now()
	k.mu.Lock()
	defer k.mu.Unlock()
	for len(b) > 0 {
		if b[0] == 0x03 {
			if k.OnInterrupt != nil {
				go k.OnInterrupt()
			}
			b = b[1:]
			continue
		}
		n := 1
		if b[0] == 0x1b && len(b) >= 3 && b[1] == '[' {
			n = 3
		}
		if key, ok := k.keys[string(b[:n])]; ok {
			k.deadline[key] = now.Add(k.hold)
		} else {
			k.logger.Debug("unbound key", "bytes", b[:n])
		}
		b = b[n:]
	}
}

func (k *Keyboard) Snapshot() gamepad.Snapshot {
	now := k.now()
	k.mu.Lock()
	defer k.mu.Unlock()
	var s gamepad.Snapshot
	for key, until := range k.deadline {
		if !now.Before(until) {
			delete(k.deadline, key)
			continue
		}
		if key.IsDir {
			s.PressDirection(key.Direction)
		} else {
			s.Press(key.Button)
		}
	}
	return s
}
