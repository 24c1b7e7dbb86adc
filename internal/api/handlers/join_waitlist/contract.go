package join_waitlist

import (
	"context"

	joinWaitlist "github.com/fairwaylabs/teesheet-service/internal/usecase/join_waitlist"
)

type JoinWaitlistUseCase interface {
	Join(ctx context.Context, req *joinWaitlist.JoinRequest) (*joinWaitlist.JoinResponse, error)
	Accept(ctx context.Context, req *joinWaitlist.AcceptRequest) (*joinWaitlist.AcceptResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
