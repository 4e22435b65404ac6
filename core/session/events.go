package session

import (
	"time"

	"github.com/kilianp07/castplan/core/model"
	"github.com/kilianp07/castplan/core/schedule"
)

// Kind identifies a session transition.
type Kind string

const (
	EventCatalogsLoaded Kind = "catalogs.loaded"
	EventCatalogsFailed Kind = "catalogs.failed"
	EventScheduleLoaded Kind = "schedule.loaded"
	EventScheduleFailed Kind = "schedule.failed"
	EventScheduleStale  Kind = "schedule.stale"
	EventEdited         Kind = "schedule.edited"
	EventSaved          Kind = "schedule.saved"
	EventSaveFailed     Kind = "schedule.save_failed"
)

// Event is published on every transition of a Session.
type Event struct {
	Kind    Kind
	Date    model.Date
	Records []model.ScheduleRecord
	Edit    schedule.Edit
	Err     error
	Time    time.Time
}

// Publisher receives session events. *eventbus.Bus[Event] satisfies it.
type Publisher interface {
	Publish(Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
