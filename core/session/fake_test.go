package session

import (
	"context"
	"sync"

	"github.com/kilianp07/castplan/core/metrics"
	"github.com/kilianp07/castplan/core/model"
)

type fakeSource struct {
	mu          sync.Mutex
	catalogErr  error
	scheduleErr error
	saveErr     error
	schedules   map[model.Date][]model.ScheduleRecord
	// fetchGates blocks FetchSchedule for a day until the channel is closed.
	fetchGates   map[model.Date]chan struct{}
	fetchStarted chan model.Date
	saveGate     chan struct{}
	saveStarted  chan struct{}
	fetches      int
	saves        int
	savedDay     model.Date
	saved        []model.ScheduleRecord
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		schedules:    map[model.Date][]model.ScheduleRecord{},
		fetchGates:   map[model.Date]chan struct{}{},
		fetchStarted: make(chan model.Date, 8),
		saveStarted:  make(chan struct{}, 8),
	}
}

func (f *fakeSource) FetchPrograms(context.Context) ([]model.Program, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return []model.Program{{ID: "p1", Name: "Morning"}, {ID: "p2", Name: "Afternoon"}}, nil
}

func (f *fakeSource) FetchCasters(context.Context) ([]model.Caster, error) {
	return []model.Caster{{ID: "c1", Name: "A"}}, nil
}

func (f *fakeSource) FetchForecasters(context.Context) ([]model.Forecaster, error) {
	return []model.Forecaster{{ID: "f1", Name: "X"}}, nil
}

func (f *fakeSource) FetchSchedule(ctx context.Context, day model.Date) ([]model.ScheduleRecord, error) {
	f.mu.Lock()
	f.fetches++
	gate := f.fetchGates[day]
	recs := model.CloneRecords(f.schedules[day])
	err := f.scheduleErr
	f.mu.Unlock()
	f.fetchStarted <- day
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return recs, err
}

func (f *fakeSource) SaveSchedule(ctx context.Context, day model.Date, recs []model.ScheduleRecord) error {
	f.mu.Lock()
	f.saves++
	gate := f.saveGate
	f.mu.Unlock()
	f.saveStarted <- struct{}{}
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedDay = day
	f.saved = model.CloneRecords(recs)
	return nil
}

type recordPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordPublisher) Publish(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordPublisher) kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

type recordSink struct {
	mu      sync.Mutex
	fetches []metrics.FetchEvent
	saves   []metrics.SaveEvent
	edits   []metrics.EditEvent
}

func (r *recordSink) RecordFetch(ev metrics.FetchEvent) error {
	r.mu.Lock()
	r.fetches = append(r.fetches, ev)
	r.mu.Unlock()
	return nil
}

func (r *recordSink) RecordSave(ev metrics.SaveEvent) error {
	r.mu.Lock()
	r.saves = append(r.saves, ev)
	r.mu.Unlock()
	return nil
}

func (r *recordSink) RecordEdit(ev metrics.EditEvent) error {
	r.mu.Lock()
	r.edits = append(r.edits, ev)
	r.mu.Unlock()
	return nil
}
