package metrics

import (
	"time"

	"github.com/kilianp07/castplan/core/model"
)

// Resources reported in FetchEvent.
const (
	ResourcePrograms    = "programs"
	ResourceCasters     = "casters"
	ResourceForecasters = "forecasters"
	ResourceSchedule    = "schedule"
)

// FetchEvent describes one read from the data source.
type FetchEvent struct {
	Resource string
	Date     model.Date // set for schedule fetches only
	Records  int
	Duration time.Duration
	Success  bool
	// Stale marks a schedule fetch whose result was discarded because a newer
	// date had been selected meanwhile.
	Stale bool
	Time  time.Time
}

// SaveEvent describes one schedule submission.
type SaveEvent struct {
	Date     model.Date
	Records  int
	Duration time.Duration
	Success  bool
	Time     time.Time
}

// EditEvent describes one reconciled change.
type EditEvent struct {
	ProgramID string
	Field     string
	Appended  bool
	Time      time.Time
}

// MetricsSink records session activity for observability purposes.
type MetricsSink interface {
	RecordFetch(ev FetchEvent) error
	RecordSave(ev SaveEvent) error
}

// EditRecorder is implemented by sinks interested in individual edits.
type EditRecorder interface {
	RecordEdit(ev EditEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordFetch(FetchEvent) error { return nil }
func (NopSink) RecordSave(SaveEvent) error   { return nil }
func (NopSink) RecordEdit(EditEvent) error   { return nil }
