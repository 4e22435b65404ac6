package config

import (
	"fmt"
)

// JournalConfig defines storage of the save journal. An empty backend
// disables the journal.
type JournalConfig struct {
	// Backend selects the store type: "memory", "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the jsonl or sqlite store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the jsonl file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
	// Token, when set, is required as a bearer token by GET /api/journal.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *JournalConfig) SetDefaults() {
	if c.Path == "" {
		switch c.Backend {
		case "jsonl":
			c.Path = "castplan-journal.jsonl"
		case "sqlite":
			c.Path = "castplan-journal.db"
		}
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c JournalConfig) Validate() error {
	switch c.Backend {
	case "", "memory":
		return nil
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("journal: path is required")
		}
		return nil
	default:
		return fmt.Errorf("journal: unknown backend %s", c.Backend)
	}
}
