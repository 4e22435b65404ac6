package app

import (
	"fmt"

	"github.com/kilianp07/castplan/config"
	"github.com/kilianp07/castplan/core/journal"
)

// openJournal builds the save journal selected by cfg. An empty backend
// returns a nil store.
func openJournal(cfg config.JournalConfig) (journal.Store, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "memory":
		return journal.NewMemoryStore(), nil
	case "jsonl":
		return journal.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return journal.NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown journal backend %s", cfg.Backend)
	}
}
