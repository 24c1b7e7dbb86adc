package join_waitlist

import (
	"context"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
)

// WaitlistRepository is the waitlist storage surface.
type WaitlistRepository interface {
	Create(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.WaitlistStatus) error
}

// TeeTimeRepository reads slots for the immediate-capacity check.
type TeeTimeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TeeTime, error)
}

// OfferStore holds time-boxed accept tokens.
type OfferStore interface {
	Put(ctx context.Context, token string, entryID int64) error
	Consume(ctx context.Context, token string) (int64, error)
}

// BookingEngine books accepted offers through the same capacity checks
// as direct bookings.
type BookingEngine interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

// Logger is the logging interface the use case depends on.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
