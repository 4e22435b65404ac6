// Package source defines the data access contract behind the schedule form.
package source

import (
	"context"
	"errors"

	"github.com/kilianp07/castplan/core/model"
)

// ErrUnavailable wraps every failure of a backing data source.
var ErrUnavailable = errors.New("data source unavailable")

// CatalogSource supplies the reference lists.
type CatalogSource interface {
	FetchPrograms(ctx context.Context) ([]model.Program, error)
	FetchCasters(ctx context.Context) ([]model.Caster, error)
	FetchForecasters(ctx context.Context) ([]model.Forecaster, error)
}

// ScheduleSource reads and writes the schedule of a day. FetchSchedule returns
// an empty, non-nil slice when nothing is planned.
type ScheduleSource interface {
	FetchSchedule(ctx context.Context, day model.Date) ([]model.ScheduleRecord, error)
	SaveSchedule(ctx context.Context, day model.Date, records []model.ScheduleRecord) error
}

// Source is the full contract used by the session controller and the HTTP API.
type Source interface {
	CatalogSource
	ScheduleSource
}
