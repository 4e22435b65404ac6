package config

import (
	"fmt"
	"time"
)

// ServerConfig defines the HTTP listener of castplan serve.
type ServerConfig struct {
	Address         string        `json:"address"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	// DisableForm serves only the JSON API.
	DisableForm bool `json:"disable_form"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("server: address is required")
	}
	return nil
}
