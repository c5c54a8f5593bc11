package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/padmap/apiclient"
)

// State prints the device state.
type State struct {
	Remote `embed:"" prefix:"api."`
}

func (c *State) Run() error { return c.exec(c.client(), os.Stdout) }

func (c *State) exec(cl *apiclient.Client, w io.Writer) error {
	st, err := cl.State()
	if err != nil {
		return err
	}
	printState(w, st)
	return nil
}

// Press holds buttons on the API input source.
type Press struct {
	Remote `embed:"" prefix:"api."`

	Inputs  string        `arg:"" optional:"" help:"Inputs to hold, e.g. start+tl or a,up"`
	Hold    time.Duration `help:"How long to hold; 0 holds until release" default:"100ms"`
	Release bool          `help:"Release everything held through the API"`
}

func (c *Press) Run() error { return c.exec(c.client(), os.Stdout) }

func (c *Press) exec(cl *apiclient.Client, w io.Writer) error {
	if c.Release {
		if _, err := cl.Release(); err != nil {
			return err
		}
		fmt.Fprintln(w, "released")
		return nil
	}
	if c.Inputs == "" {
		return fmt.Errorf("nothing to press")
	}
	res, err := cl.Press(c.Inputs, c.Hold)
	if err != nil {
		return err
	}
	if res.HoldMs > 0 {
		fmt.Fprintf(w, "holding %s for %dms\n", joinOrDash(res.Pressed), res.HoldMs)
	} else {
		fmt.Fprintf(w, "holding %s\n", joinOrDash(res.Pressed))
	}
	return nil
}

// Mode shows or overrides the volatile mode flags.
type Mode struct {
	Remote `embed:"" prefix:"api."`

	Settings []string `arg:"" optional:"" help:"mapping=on|off dpad=analog-xy|hat|z-rz"`
}

func (c *Mode) Run() error { return c.exec(c.client(), os.Stdout) }

func (c *Mode) exec(cl *apiclient.Client, w io.Writer) error {
	res, err := cl.ModeSet(c.Settings...)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "mapping: %t  dpad: %s\n", res.MappingEnabled, res.DPad)
	return nil
}

// Watch prints input reports as they change.
type Watch struct {
	Remote `embed:"" prefix:"api."`
}

func (c *Watch) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.exec(ctx, c.client(), os.Stdout)
}

func (c *Watch) exec(ctx context.Context, cl *apiclient.Client, w io.Writer) error {
	s, err := cl.Reports(ctx)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()
	for {
		r, err := s.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		printReport(w, r)
	}
}
