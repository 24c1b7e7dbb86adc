package schedule

import (
	"context"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// ScheduleRepository is the storage surface for templates, seasons,
// overrides and closures.
type ScheduleRepository interface {
	CreateTemplate(ctx context.Context, t *domain.Template) (*domain.Template, error)
	GetTemplate(ctx context.Context, id int64) (*domain.Template, error)
	CreateTemplateVersion(ctx context.Context, v *domain.TemplateVersion) (*domain.TemplateVersion, error)
	GetTemplateVersion(ctx context.Context, id int64) (*domain.TemplateVersion, error)
	PublishTemplateVersion(ctx context.Context, templateID, versionID int64) error
	DeleteTemplateVersion(ctx context.Context, id int64) error

	CreateSeason(ctx context.Context, s *domain.Season) (*domain.Season, error)
	CreateSeasonVersion(ctx context.Context, v *domain.SeasonVersion) (*domain.SeasonVersion, error)
	GetSeasonVersion(ctx context.Context, id int64) (*domain.SeasonVersion, error)
	PublishSeasonVersion(ctx context.Context, seasonID, versionID int64) error

	CreateOverride(ctx context.Context, o *domain.Override) (*domain.Override, error)
	CreateOverrideVersion(ctx context.Context, v *domain.OverrideVersion) (*domain.OverrideVersion, error)
	GetOverrideVersion(ctx context.Context, id int64) (*domain.OverrideVersion, error)
	PublishOverrideVersion(ctx context.Context, overrideID, versionID int64) error

	CreateClosure(ctx context.Context, c *domain.ClosureBlock) (*domain.ClosureBlock, error)
	DeleteClosure(ctx context.Context, id int64) error
	ListClosuresOverlapping(ctx context.Context, sheetID int64, from, to time.Time) ([]*domain.ClosureBlock, error)
}

// SheetRepository is the slice of sheet storage the validator needs.
type SheetRepository interface {
	ListSides(ctx context.Context, sheetID int64) ([]*domain.Side, error)
}

// Logger is the logging interface the service depends on.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
