package bookings

import (
	"context"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// BookingRepository is the booking storage surface.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
	RemoveAssignments(ctx context.Context, legID int64, assignmentIDs []int64) error
}

// TeeTimeRepository reads slots and releases capacity held by cancelled
// legs.
type TeeTimeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TeeTime, error)
	Release(ctx context.Context, id int64, partySize int) error
}

// ScheduleRepository supplies the governing template version for
// minimum-player checks.
type ScheduleRepository interface {
	GetTemplateVersion(ctx context.Context, id int64) (*domain.TemplateVersion, error)
}

// SheetRepository supplies the facility for cutoff evaluation.
type SheetRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Sheet, error)
}

// TransactionManager runs a function inside a serializable transaction.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider abstracts wall-clock now for testing.
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface the service depends on.
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
