package manage_closures

import (
	"context"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

type ScheduleService interface {
	CreateClosure(ctx context.Context, c *domain.ClosureBlock) (*domain.ClosureBlock, error)
	DeleteClosure(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
