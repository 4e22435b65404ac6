package journal

import (
	"context"
	"time"

	"github.com/kilianp07/castplan/core/logger"
	"github.com/kilianp07/castplan/core/model"
	"github.com/kilianp07/castplan/core/source"
)

// Source journals every SaveSchedule call of the wrapped source, whether it
// comes from the form session or the JSON API. Reads pass through.
type Source struct {
	source.Source
	store Store
	log   logger.Logger
	now   func() time.Time
}

// WrapSource returns src with its saves recorded in store.
func WrapSource(src source.Source, store Store, log logger.Logger) *Source {
	return &Source{Source: src, store: store, log: log, now: time.Now}
}

// SaveSchedule forwards the save and appends its outcome. A journal failure
// is logged and never changes the result of the save.
func (s *Source) SaveSchedule(ctx context.Context, day model.Date, records []model.ScheduleRecord) error {
	err := s.Source.SaveSchedule(ctx, day, records)
	e := Entry{
		Timestamp: s.now(),
		Date:      day,
		Records:   model.CloneRecords(records),
		Success:   err == nil,
	}
	if e.Records == nil {
		e.Records = []model.ScheduleRecord{}
	}
	if err != nil {
		e.Error = err.Error()
	}
	if jerr := s.store.Append(context.WithoutCancel(ctx), e); jerr != nil {
		s.log.Errorf("journal save of %s: %v", day, jerr)
	}
	return err
}
