package adjust_players

import (
	"context"

	"github.com/fairwaylabs/teesheet-service/internal/service/bookings/models"
)

type BookingService interface {
	RemovePlayers(ctx context.Context, id, actorID int64, role string, players []string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
