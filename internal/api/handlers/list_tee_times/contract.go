package list_tee_times

import (
	"context"

	listTeeTimes "github.com/fairwaylabs/teesheet-service/internal/usecase/list_tee_times"
)

type ListTeeTimesUseCase interface {
	Execute(ctx context.Context, req *listTeeTimes.Request) (*listTeeTimes.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
