package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Alia5/padmap/apiclient"
	"github.com/Alia5/padmap/apitypes"
)

// Remote selects the API server the client commands talk to.
type Remote struct {
	Addr    string        `help:"API server address" default:"localhost:3243" env:"PADMAP_API_ADDR"`
	Timeout time.Duration `help:"API request timeout" default:"5s" env:"PADMAP_API_TIMEOUT"`
}

func (r Remote) client() *apiclient.Client {
	return apiclient.NewWithConfig(r.Addr, &apiclient.Config{
		DialTimeout:  r.Timeout,
		ReadTimeout:  r.Timeout,
		WriteTimeout: r.Timeout,
	})
}

func printMapping(w io.Writer, m *apitypes.MappingResponse) {
	for _, s := range m.Slots {
		fmt.Fprintf(w, "%-6s -> %-5s (%d)\n", s.Button, s.Name, s.Usage)
	}
	fmt.Fprintf(w, "crc: 0x%02X\n", m.Checksum)
}

func printState(w io.Writer, st *apitypes.StateResponse) {
	mode := "off"
	if st.Mode.MappingEnabled {
		mode = "on"
	}
	fmt.Fprintf(w, "mapping: %s  dpad: %s  holding: %t\n", mode, st.Mode.DPad, st.Holding)
	fmt.Fprintf(w, "pressed: %s\n", joinOrDash(st.Pressed))
	printReport(w, &st.Report)
	fmt.Fprintf(w, "reports: %d  deferred: %d\n", st.Reports, st.Deferred)
	for reason, n := range st.Drops {
		fmt.Fprintf(w, "dropped %s: %d\n", reason, n)
	}
	if st.LoadErr != "" {
		fmt.Fprintf(w, "persisted mapping rejected: %s\n", st.LoadErr)
	}
}

func printReport(w io.Writer, r *apitypes.Report) {
	fmt.Fprintf(w, "report: %s  buttons: %s  hat: %s  x=%d y=%d z=%d rz=%d\n",
		r.Raw, joinOrDash(r.Usages), r.Hat, r.X, r.Y, r.Z, r.Rz)
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, "+")
}
