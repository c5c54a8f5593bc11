// Package config defines the CLI structure and configuration for padmap.
package config

import (
	"github.com/Alia5/padmap/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"PADMAP_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"PADMAP_LOG_FILE"`
	RawFile string `help:"Raw feature report log file path (default: none)" env:"PADMAP_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Config string `help:"Config file (JSON, YAML or TOML)" env:"PADMAP_CONFIG"`

	Run     cmd.Run     `cmd:"" help:"Start the virtual gamepad and its API server"`
	Mapping cmd.Mapping `cmd:"" help:"Read or change the persisted button mapping"`
	State   cmd.State   `cmd:"" help:"Show mode flags, held inputs and the last report"`
	Press   cmd.Press   `cmd:"" help:"Hold buttons through the API input source"`
	Mode    cmd.Mode    `cmd:"" help:"Show or override the mapping and D-pad modes"`
	Watch   cmd.Watch   `cmd:"" help:"Stream input reports as they change"`
}
