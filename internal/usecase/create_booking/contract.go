package create_booking

import (
	"context"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// BookingRepository is the booking storage surface.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, sheetID int64, key string) (*domain.Booking, error)
}

// TeeTimeRepository is the slot storage surface.
type TeeTimeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TeeTime, error)
	GetByKey(ctx context.Context, sheetID, sideID int64, startTime time.Time) (*domain.TeeTime, error)
	TryAssign(ctx context.Context, id int64, partySize int) error
}

// ScheduleRepository supplies the governing template version.
type ScheduleRepository interface {
	GetTemplateVersion(ctx context.Context, id int64) (*domain.TemplateVersion, error)
}

// SheetRepository supplies the facility and its sides.
type SheetRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Sheet, error)
	GetSide(ctx context.Context, sheetID, sideID int64) (*domain.Side, error)
}

// TransactionManager runs a function inside a serializable transaction.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider abstracts wall-clock now for testing.
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface the use case depends on.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production clock.
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
