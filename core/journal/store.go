// Package journal keeps an append-only history of schedule submissions. Each
// save, accepted or not, is written with the full collection that was sent.
package journal

import (
	"context"
	"time"

	"github.com/kilianp07/castplan/core/model"
)

// Entry captures one schedule submission and its outcome.
type Entry struct {
	Timestamp time.Time              `json:"timestamp"`
	Date      model.Date             `json:"date"`
	Records   []model.ScheduleRecord `json:"records"`
	Success   bool                   `json:"success"`
	Error     string                 `json:"error,omitempty"`
}

// Query filters entries. Zero fields match everything; From and To are
// inclusive schedule days.
type Query struct {
	From      model.Date
	To        model.Date
	ProgramID string
	Failed    bool
}

// Match reports whether e satisfies q.
func (q Query) Match(e Entry) bool {
	if !q.From.IsZero() && e.Date.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && e.Date.After(q.To) {
		return false
	}
	if q.Failed && e.Success {
		return false
	}
	if q.ProgramID == "" {
		return true
	}
	for _, r := range e.Records {
		if r.ProgramID == q.ProgramID {
			return true
		}
	}
	return false
}

// Store persists entries and supports querying them in submission order.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Query(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}
