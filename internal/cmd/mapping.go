package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Alia5/padmap/apiclient"
	"github.com/Alia5/padmap/device/mapping"
	"github.com/Alia5/padmap/internal/profile"
)

// Mapping groups the host-side mapping commands.
type Mapping struct {
	Remote `embed:"" prefix:"api."`

	Get    MappingGet    `cmd:"" help:"Show the current mapping"`
	Set    MappingSet    `cmd:"" help:"Assign usages to buttons"`
	Reset  MappingReset  `cmd:"" help:"Restore the default mapping"`
	Import MappingImport `cmd:"" help:"Apply a YAML, TOML or JSON profile"`
	Export MappingExport `cmd:"" help:"Write the current mapping as a profile"`
}

type MappingGet struct{}

func (c *MappingGet) Run(m *Mapping) error { return c.exec(m.client(), os.Stdout) }

func (c *MappingGet) exec(cl *apiclient.Client, w io.Writer) error {
	res, err := cl.MappingGet()
	if err != nil {
		return err
	}
	printMapping(w, res)
	return nil
}

type MappingSet struct {
	Assignments []string `arg:"" help:"button=usage pairs, e.g. a=start tl=home"`
}

func (c *MappingSet) Run(m *Mapping) error { return c.exec(m.client(), os.Stdout) }

func (c *MappingSet) exec(cl *apiclient.Client, w io.Writer) error {
	res, err := cl.MappingSet(c.Assignments...)
	if err != nil {
		return err
	}
	printMapping(w, res)
	return nil
}

type MappingReset struct{}

func (c *MappingReset) Run(m *Mapping) error { return c.exec(m.client(), os.Stdout) }

func (c *MappingReset) exec(cl *apiclient.Client, w io.Writer) error {
	res, err := cl.MappingReset()
	if err != nil {
		return err
	}
	printMapping(w, res)
	return nil
}

type MappingImport struct {
	File string `arg:"" help:"Profile file (.yaml, .yml, .toml, .json)" type:"existingfile"`
}

func (c *MappingImport) Run(m *Mapping) error { return c.exec(m.client(), os.Stdout) }

func (c *MappingImport) exec(cl *apiclient.Client, w io.Writer) error {
	p, err := profile.Load(c.File)
	if err != nil {
		return err
	}
	pairs, err := p.Assignments()
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("%s assigns no buttons", c.File)
	}
	res, err := cl.MappingSet(pairs...)
	if err != nil {
		return err
	}
	printMapping(w, res)
	return nil
}

type MappingExport struct {
	File string `arg:"" help:"Output file; the extension selects the format"`
	Name string `help:"Profile name" default:"exported"`
}

func (c *MappingExport) Run(m *Mapping) error { return c.exec(m.client(), os.Stdout) }

func (c *MappingExport) exec(cl *apiclient.Client, w io.Writer) error {
	res, err := cl.MappingGet()
	if err != nil {
		return err
	}
	if len(res.Table) != mapping.NumButtons {
		return fmt.Errorf("server returned %d slots, want %d", len(res.Table), mapping.NumButtons)
	}
	var t mapping.Table
	for i, u := range res.Table {
		t[i] = uint8(u)
	}
	if err := profile.FromTable(c.Name, t).Save(c.File); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", c.File)
	return nil
}
