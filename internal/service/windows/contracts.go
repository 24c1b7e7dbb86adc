package windows

import (
	"context"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// SheetRepository is the slice of sheet storage the resolver and
// compiler need.
type SheetRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Sheet, error)
	ListSides(ctx context.Context, sheetID int64) ([]*domain.Side, error)
}

// ScheduleRepository is the slice of schedule storage used for
// resolution and compilation.
type ScheduleRepository interface {
	GetPublishedOverrideForDate(ctx context.Context, sheetID int64, date time.Time) (*domain.OverrideVersion, error)
	ListPublishedSeasonVersionsForDate(ctx context.Context, sheetID int64, date time.Time) ([]*domain.SeasonVersion, error)
	GetTemplateVersion(ctx context.Context, id int64) (*domain.TemplateVersion, error)
}

// SolarAdapter computes sun times for a date and location. Swappable so
// compilation is testable with fixed instants.
type SolarAdapter interface {
	SunTimes(date time.Time, latitude, longitude float64, loc *time.Location) (sunrise, sunset time.Time)
}

// Logger is the logging interface the service depends on.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
