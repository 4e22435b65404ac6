// Package session holds the editing state of the schedule form and applies the
// transitions the view triggers: loading catalogs, selecting a date, editing
// a row and saving.
//
// Network calls are made without holding the lock. Schedule fetches are tagged
// with a generation so that a slow response for a previously selected date
// never overwrites the schedule of the current one.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/castplan/core/logger"
	"github.com/kilianp07/castplan/core/metrics"
	"github.com/kilianp07/castplan/core/model"
	"github.com/kilianp07/castplan/core/monitoring"
	"github.com/kilianp07/castplan/core/schedule"
	"github.com/kilianp07/castplan/core/source"
)

var (
	// ErrSaveInProgress is returned by Save while a previous save has not settled.
	ErrSaveInProgress = errors.New("save already in progress")
	// ErrLoading is returned by Save while catalogs or the schedule are loading.
	ErrLoading = errors.New("schedule is loading")
)

// State is a point-in-time copy of the session.
type State struct {
	Date     model.Date             `json:"date"`
	Catalogs model.Catalogs         `json:"catalogs"`
	Schedule []model.ScheduleRecord `json:"schedule"`
	Loading  bool                   `json:"loading"`
	Saving   bool                   `json:"saving"`
}

// Session is the state container behind one schedule form. It is safe for
// concurrent use.
type Session struct {
	src    source.Source
	log    logger.Logger
	sink   metrics.MetricsSink
	events Publisher
	now    func() time.Time

	mu              sync.Mutex
	date            model.Date
	catalogs        model.Catalogs
	records         []model.ScheduleRecord
	catalogsLoading bool
	scheduleLoading bool
	saving          bool
	gen             uint64
}

// New creates a Session on day. A zero day selects today.
func New(src source.Source, day model.Date, opts ...Option) *Session {
	if day.IsZero() {
		day = model.Today()
	}
	s := &Session{
		src:     src,
		log:     nopLogger{},
		sink:    metrics.NopSink{},
		events:  nopPublisher{},
		now:     time.Now,
		date:    day,
		records: []model.ScheduleRecord{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start loads the catalogs and, once programs are known, the schedule of the
// selected day.
func (s *Session) Start(ctx context.Context) error {
	if err := s.LoadCatalogs(ctx); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// LoadCatalogs fetches programs, casters and forecasters concurrently. On
// failure no partial catalog is kept.
func (s *Session) LoadCatalogs(ctx context.Context) error {
	s.mu.Lock()
	s.catalogsLoading = true
	s.mu.Unlock()

	var cat model.Catalogs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := s.now()
		v, err := s.src.FetchPrograms(gctx)
		s.recordFetch(metrics.ResourcePrograms, model.Date{}, len(v), start, err, false)
		cat.Programs = v
		return err
	})
	g.Go(func() error {
		start := s.now()
		v, err := s.src.FetchCasters(gctx)
		s.recordFetch(metrics.ResourceCasters, model.Date{}, len(v), start, err, false)
		cat.Casters = v
		return err
	})
	g.Go(func() error {
		start := s.now()
		v, err := s.src.FetchForecasters(gctx)
		s.recordFetch(metrics.ResourceForecasters, model.Date{}, len(v), start, err, false)
		cat.Forecasters = v
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	s.catalogsLoading = false
	if err == nil {
		s.catalogs = cat
	}
	day := s.date
	s.mu.Unlock()

	if err != nil {
		s.report("load catalogs", day, err)
		s.events.Publish(Event{Kind: EventCatalogsFailed, Err: err, Time: s.now()})
		return fmt.Errorf("load catalogs: %w", err)
	}
	s.log.Infof("catalogs loaded: %d programs, %d casters, %d forecasters",
		len(cat.Programs), len(cat.Casters), len(cat.Forecasters))
	s.events.Publish(Event{Kind: EventCatalogsLoaded, Time: s.now()})
	return nil
}

// SelectDate switches the form to day and fetches its schedule, discarding
// any edits. Nothing is fetched until the program catalog is available.
func (s *Session) SelectDate(ctx context.Context, day model.Date) error {
	s.mu.Lock()
	s.date = day
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh re-fetches the schedule of the selected day.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.catalogs.Empty() {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	gen := s.gen
	day := s.date
	s.scheduleLoading = true
	s.mu.Unlock()

	start := s.now()
	recs, err := s.src.FetchSchedule(ctx, day)
	if err == nil && recs == nil {
		recs = []model.ScheduleRecord{}
	}

	s.mu.Lock()
	stale := gen != s.gen
	if !stale {
		s.scheduleLoading = false
		if err != nil {
			s.records = []model.ScheduleRecord{}
		} else {
			s.records = model.CloneRecords(recs)
		}
	}
	s.mu.Unlock()

	s.recordFetch(metrics.ResourceSchedule, day, len(recs), start, err, stale)
	switch {
	case stale:
		s.log.Debugf("discarding stale schedule for %s", day)
		s.events.Publish(Event{Kind: EventScheduleStale, Date: day, Err: err, Time: s.now()})
		return nil
	case err != nil:
		s.report("load schedule", day, err)
		s.events.Publish(Event{Kind: EventScheduleFailed, Date: day, Err: err, Time: s.now()})
		return fmt.Errorf("load schedule %s: %w", day, err)
	}
	s.events.Publish(Event{Kind: EventScheduleLoaded, Date: day, Records: model.CloneRecords(recs), Time: s.now()})
	return nil
}

// Apply reconciles e into the schedule and returns the updated record.
func (s *Session) Apply(e schedule.Edit) model.ScheduleRecord {
	s.mu.Lock()
	_, existed := schedule.Find(s.records, e.Program())
	s.records = schedule.Reconcile(s.records, e)
	rec, _ := schedule.Find(s.records, e.Program())
	rec = rec.Clone()
	day := s.date
	s.mu.Unlock()

	s.log.Debugw("schedule updated", map[string]any{"program": e.Program(), "field": e.Field(), "date": day.String()})
	if er, ok := s.sink.(metrics.EditRecorder); ok {
		if err := er.RecordEdit(metrics.EditEvent{ProgramID: e.Program(), Field: e.Field(), Appended: !existed, Time: s.now()}); err != nil {
			s.log.Warnf("record edit: %v", err)
		}
	}
	s.events.Publish(Event{Kind: EventEdited, Date: day, Edit: e, Records: []model.ScheduleRecord{rec}, Time: s.now()})
	return rec
}

// Save submits the whole schedule of the selected day. Only one save runs at
// a time; the in-flight flag is cleared whatever the outcome.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	if s.catalogsLoading || s.scheduleLoading {
		s.mu.Unlock()
		return ErrLoading
	}
	s.saving = true
	day := s.date
	recs := model.CloneRecords(s.records)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	start := s.now()
	err := s.src.SaveSchedule(ctx, day, recs)
	if rerr := s.sink.RecordSave(metrics.SaveEvent{
		Date: day, Records: len(recs), Duration: s.now().Sub(start), Success: err == nil, Time: s.now(),
	}); rerr != nil {
		s.log.Warnf("record save: %v", rerr)
	}
	if err != nil {
		s.report("save schedule", day, err)
		s.events.Publish(Event{Kind: EventSaveFailed, Date: day, Records: recs, Err: err, Time: s.now()})
		return fmt.Errorf("save schedule %s: %w", day, err)
	}
	s.log.Infof("schedule saved for %s (%d records)", day, len(recs))
	s.events.Publish(Event{Kind: EventSaved, Date: day, Records: recs, Time: s.now()})
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Date: s.date,
		Catalogs: model.Catalogs{
			Programs:    append([]model.Program(nil), s.catalogs.Programs...),
			Casters:     append([]model.Caster(nil), s.catalogs.Casters...),
			Forecasters: append([]model.Forecaster(nil), s.catalogs.Forecasters...),
		},
		Schedule: model.CloneRecords(s.records),
		Loading:  s.catalogsLoading || s.scheduleLoading,
		Saving:   s.saving,
	}
}

func (s *Session) recordFetch(resource string, day model.Date, n int, start time.Time, err error, stale bool) {
	ev := metrics.FetchEvent{
		Resource: resource,
		Date:     day,
		Records:  n,
		Duration: s.now().Sub(start),
		Success:  err == nil,
		Stale:    stale,
		Time:     s.now(),
	}
	if rerr := s.sink.RecordFetch(ev); rerr != nil {
		s.log.Warnf("record fetch %s: %v", resource, rerr)
	}
}

func (s *Session) report(op string, day model.Date, err error) {
	s.log.Errorf("%s for %s: %v", op, day, err)
	monitoring.CaptureException(err, map[string]string{"operation": op, "date": day.String()})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
