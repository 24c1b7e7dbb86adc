package promote_waitlist

import (
	"context"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
)

// WaitlistRepository is the waitlist storage surface.
type WaitlistRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	OldestWaitingForTeeTime(ctx context.Context, teeTimeID int64, freeCapacity int) (*domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.WaitlistStatus) error
}

// TeeTimeRepository reads slots for the promotion-time capacity check.
type TeeTimeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TeeTime, error)
}

// BookingEngine books promoted entries through the same capacity checks
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
