package source

import (
	"context"
	"time"

	"github.com/kilianp07/castplan/core/model"
	"github.com/kilianp07/castplan/infra/logger"
)

// StubConfig sets the simulated latency of each call.
type StubConfig struct {
	CatalogDelay  time.Duration `json:"catalog_delay"`
	ScheduleDelay time.Duration `json:"schedule_delay"`
	SaveDelay     time.Duration `json:"save_delay"`
}

// DefaultStubConfig mirrors the latency the form was designed against.
func DefaultStubConfig() StubConfig {
	return StubConfig{
		CatalogDelay:  500 * time.Millisecond,
		ScheduleDelay: 300 * time.Millisecond,
		SaveDelay:     time.Second,
	}
}

// Stub serves fixed catalogs and a schedule that only exists on even days.
// Saves are accepted and logged but not kept.
type Stub struct {
	cfg StubConfig
	log logger.Logger
}

// NewStub creates a Stub. Zero delays answer immediately.
func NewStub(cfg StubConfig) *Stub {
	return &Stub{cfg: cfg, log: logger.New("stub-source")}
}

func (s *Stub) FetchPrograms(ctx context.Context) ([]model.Program, error) {
	if err := wait(ctx, s.cfg.CatalogDelay); err != nil {
		return nil, err
	}
	return []model.Program{
		{ID: "p1", Name: "モーニング"},
		{ID: "p2", Name: "アフタヌーン"},
		{ID: "p3", Name: "イブニング"},
	}, nil
}

func (s *Stub) FetchCasters(ctx context.Context) ([]model.Caster, error) {
	if err := wait(ctx, s.cfg.CatalogDelay); err != nil {
		return nil, err
	}
	return []model.Caster{
		{ID: "c1", Name: "キャスターA"},
		{ID: "c2", Name: "キャスターB"},
		{ID: "c3", Name: "キャスターC"},
	}, nil
}

func (s *Stub) FetchForecasters(ctx context.Context) ([]model.Forecaster, error) {
	if err := wait(ctx, s.cfg.CatalogDelay); err != nil {
		return nil, err
	}
	return []model.Forecaster{
		{ID: "f1", Name: "予報士X"},
		{ID: "f2", Name: "予報士Y"},
		{ID: "f3", Name: "予報士Z"},
	}, nil
}

// FetchSchedule returns three assignments on even days of the month and none on odd days.
func (s *Stub) FetchSchedule(ctx context.Context, day model.Date) ([]model.ScheduleRecord, error) {
	s.log.Debugf("fetching schedule for %s", day)
	if err := wait(ctx, s.cfg.ScheduleDelay); err != nil {
		return nil, err
	}
	if day.Day%2 != 0 {
		return []model.ScheduleRecord{}, nil
	}
	return []model.ScheduleRecord{
		{ProgramID: "p1", CasterID: model.ID("c1"), ForecasterID: model.ID("f1"), HasCrosstalk: true},
		{ProgramID: "p2", CasterID: model.ID("c2"), ForecasterID: model.ID("f2"), HasCrosstalk: false},
		{ProgramID: "p3", CasterID: model.ID("c3"), ForecasterID: model.ID("f3"), HasCrosstalk: true},
	}, nil
}

func (s *Stub) SaveSchedule(ctx context.Context, day model.Date, records []model.ScheduleRecord) error {
	s.log.Infow("saving schedule", map[string]any{"date": day.String(), "records": records})
	return wait(ctx, s.cfg.SaveDelay)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
