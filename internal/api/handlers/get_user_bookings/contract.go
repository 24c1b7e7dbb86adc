package get_user_bookings

import (
	"context"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	"github.com/fairwaylabs/teesheet-service/internal/service/bookings/models"
)

type BookingService interface {
	ListByOwner(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
