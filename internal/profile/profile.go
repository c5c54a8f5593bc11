// Package profile reads and writes mapping tables as named button profiles in
// YAML, TOML or JSON.
package profile

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/Alia5/padmap/device/gamepad"
	"github.com/Alia5/padmap/device/mapping"
)

var ErrUnknownFormat = errors.New("profile: unknown file format")

// Format is a profile serialization.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Profile assigns usages to physical buttons by name. Buttons it does not
// name keep the assignment of the table it is applied to.
type Profile struct {
	Name    string            `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Buttons map[string]string `yaml:"buttons" toml:"buttons" json:"buttons"`
}

// FromTable describes every slot of t.
func FromTable(name string, t mapping.Table) *Profile {
	p := &Profile{Name: name, Buttons: make(map[string]string, len(t))}
	for i, u := range t {
		p.Buttons[gamepad.Button(i).String()] = gamepad.Usage(u).String()
	}
	return p
}

// Table applies the profile on top of base.
func (p *Profile) Table(base mapping.Table) (mapping.Table, error) {
	t := base
	for name, usage := range p.Buttons {
		b, err := gamepad.ParseButton(name)
		if err != nil {
			return base, err
		}
		u, err := gamepad.ParseUsage(usage)
		if err != nil {
			return base, fmt.Errorf("button %s: %w", name, err)
		}
		t[b] = uint8(u)
	}
	return t, nil
}

// Assignments returns the profile as button=usage pairs in button order.
func (p *Profile) Assignments() ([]string, error) {
	type pair struct {
		b gamepad.Button
		u gamepad.Usage
	}
	var pairs []pair
	for name, usage := range p.Buttons {
		b, err := gamepad.ParseButton(name)
		if err != nil {
			return nil, err
		}
		u, err := gamepad.ParseUsage(usage)
		if err != nil {
			return nil, fmt.Errorf("button %s: %w", name, err)
		}
		pairs = append(pairs, pair{b, u})
	}
	slices.SortFunc(pairs, func(a, b pair) int { return cmp.Compare(a.b, b.b) })
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.b.String() + "=" + p.u.String()
	}
	return out, nil
}

// Parse decodes a profile.
func Parse(data []byte, f Format) (*Profile, error) {
	var p Profile
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	case FormatTOML:
		err = toml.Unmarshal(data, &p)
	case FormatJSON:
		err = json.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("profile: decode %s: %w", f, err)
	}
	return &p, nil
}

// Marshal encodes the profile.
func (p *Profile) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(p)
	case FormatTOML:
		return toml.Marshal(*p)
	case FormatJSON:
		b, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Load reads a profile, choosing the format by extension.
func Load(path string) (*Profile, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, f)
}

// Save writes the profile, choosing the format by extension.
func (p *Profile) Save(path string) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := p.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
