package testing

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/Alia5/padmap/device/gamepad"
	"github.com/Alia5/padmap/hal/nvm"
	"github.com/Alia5/padmap/internal/emulator"
	"github.com/Alia5/padmap/internal/server/api"
)

// NewDevice returns a device on blank in-memory flash driven by manual ticks.
func NewDevice(t *testing.T) (*emulator.Device, *nvm.Memory, *gamepad.ManualTicks) {
	t.Helper()
	flash := nvm.NewMemory(nvm.HEFGeometry)
	ticks := &gamepad.ManualTicks{}
	dev := emulator.New(flash, emulator.Options{Ticks: ticks, Logger: slog.Default()})
	t.Cleanup(func() { _ = dev.Close() })
	return dev, flash, ticks
}

// StartAPIServer starts an API server on a free port and calls register to allow
// the caller to register the handlers needed for the test. Returns the address
// and a function to call when done.
func StartAPIServer(t *testing.T, register func(r *api.Router, dev *emulator.Device, apiSrv *api.Server)) (addr string, dev *emulator.Device, done func()) {
	t.Helper()
	dev, _, _ = NewDevice(t)

	apiSrv := api.New(dev, "127.0.0.1:0", api.ServerConfig{}, slog.Default())
	if register != nil {
		register(apiSrv.Router(), dev, apiSrv)
	}
	if err := apiSrv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}
	return apiSrv.Addr(), dev, apiSrv.Close
}

// ExecCmd executes a raw command against a running API server and returns the full
// response line without the trailing newline.
func ExecCmd(t *testing.T, addr string, cmd string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close()
	r := bufio.NewReader(c)
	_, _ = fmt.Fprintf(c, "%s\n", cmd)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}
	return strings.TrimSuffix(line, "\n")
}
