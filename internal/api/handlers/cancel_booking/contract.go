package cancel_booking

import (
	"context"

	"github.com/fairwaylabs/teesheet-service/internal/service/bookings/models"
)

type BookingService interface {
	Cancel(ctx context.Context, id, actorID int64, role, reason string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
