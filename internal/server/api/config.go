package api

import "time"

// ServerConfig represents the API listener configuration.
type ServerConfig struct {
	Addr              string        `help:"API server listen address" default:"localhost:3243" env:"PADMAP_API_ADDR"`
	ConnectionTimeout time.Duration `help:"Idle time before an API connection is closed (0 disables)" default:"0s" env:"PADMAP_API_TIMEOUT"`
}
