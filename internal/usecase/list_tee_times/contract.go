package list_tee_times

import (
	"context"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// SheetRepository provides sheet and side lookups.
type SheetRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Sheet, error)
	ListSides(ctx context.Context, sheetID int64) ([]*domain.Side, error)
}

// TeeTimeRepository provides slot listings.
type TeeTimeRepository interface {
	ListBySideRange(ctx context.Context, sheetID, sideID int64, from, to time.Time) ([]*domain.TeeTime, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
