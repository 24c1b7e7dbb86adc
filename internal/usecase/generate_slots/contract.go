package generate_slots

import (
	"context"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	windowModels "github.com/fairwaylabs/teesheet-service/internal/service/windows/models"
)

// WindowService resolves and compiles the windows governing a date.
type WindowService interface {
	Resolve(ctx context.Context, sheetID int64, date time.Time) (*windowModels.ResolveResult, error)
	Compile(ctx context.Context, sheetID int64, date time.Time, resolved []domain.ResolvedWindow) ([]domain.CompiledWindow, error)
}

// TeeTimeRepository is the slot storage surface the generator mutates.
type TeeTimeRepository interface {
	CreateIfAbsent(ctx context.Context, t *domain.TeeTime) (bool, error)
	ListBySideRange(ctx context.Context, sheetID, sideID int64, from, to time.Time) ([]*domain.TeeTime, error)
	DeleteUnassignedNotIn(ctx context.Context, sheetID, sideID int64, from, to time.Time, expected []time.Time) (int64, error)
	SetBlock(ctx context.Context, id int64, reason, source string) error
	ClearBlock(ctx context.Context, id int64, source string) error
}

// ScheduleRepository supplies closures and template versions.
type ScheduleRepository interface {
	ListClosuresOverlapping(ctx context.Context, sheetID int64, from, to time.Time) ([]*domain.ClosureBlock, error)
	GetTemplateVersion(ctx context.Context, id int64) (*domain.TemplateVersion, error)
}

// SheetRepository supplies the facility for timezone resolution.
type SheetRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Sheet, error)
}

// TransactionManager runs a function inside a serializable transaction.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging interface the use case depends on.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
