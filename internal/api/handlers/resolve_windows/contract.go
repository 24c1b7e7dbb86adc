package resolve_windows

import (
	"context"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/service/windows/models"
)

type WindowService interface {
	Resolve(ctx context.Context, sheetID int64, date time.Time) (*models.ResolveResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
