package promote_waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	teetimeRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/teetime"
	waitlistRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/waitlist"
	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
)

// UseCase promotes waiting entries oldest-first against freed capacity.
// Capacity is re-checked at promotion time by booking through the
// regular engine, so a promotion racing a direct booking can still lose
// with ErrCapacityExceeded rather than over-assign.
type UseCase struct {
	waitlist WaitlistRepository
	teeTimes TeeTimeRepository
	booker   BookingEngine
	logger   Logger
}

func NewUseCase(
	waitlist WaitlistRepository,
	teeTimes TeeTimeRepository,
	booker BookingEngine,
	logger Logger,
) *UseCase {
	return &UseCase{
		waitlist: waitlist,
		teeTimes: teeTimes,
		booker:   booker,
		logger:   logger,
	}
}

// Execute promotes one entry.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PromoteWaitlist: entry=%d", req.WaitlistID)

	if req.WaitlistID <= 0 {
		return nil, fmt.Errorf("%w: waitlist id must be positive", ErrInvalidInput)
	}

	entry, err := uc.waitlist.GetByID(ctx, req.WaitlistID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("%w: failed to get entry: %v", ErrInternal, err)
	}
	if !entry.IsWaiting() {
		return nil, ErrEntryNotWaiting
	}

	teeTime, err := uc.teeTimes.GetByID(ctx, entry.TeeTimeID)
	if err != nil {
		if errors.Is(err, teetimeRepo.ErrTeeTimeNotFound) {
			return nil, fmt.Errorf("%w: slot for entry=%d is gone", ErrInternal, entry.ID)
		}
		return nil, fmt.Errorf("%w: failed to get tee time: %v", ErrInternal, err)
	}
	if !teeTime.CanAccommodate(entry.PartySize) {
		uc.logger.Warn("PromoteWaitlist: entry=%d party=%d exceeds remaining=%d",
			entry.ID, entry.PartySize, teeTime.Remaining())
		return nil, ErrCapacityExceeded
	}

	// FIFO: the requested entry must be the oldest waiting entry that
	// still fits.
	oldest, err := uc.waitlist.OldestWaitingForTeeTime(ctx, entry.TeeTimeID, teeTime.Remaining())
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return nil, ErrEntryNotWaiting
		}
		return nil, fmt.Errorf("%w: failed to find oldest entry: %v", ErrInternal, err)
	}
	if oldest.ID != entry.ID {
		uc.logger.Warn("PromoteWaitlist: entry=%d skipped, entry=%d is older", entry.ID, oldest.ID)
		return nil, ErrNotOldestEntry
	}

	booking, err := uc.booker.Execute(ctx, &createBooking.Request{
		SheetID:        entry.SheetID,
		OwnerID:        entry.OwnerID,
		ClassCode:      entry.ClassCode,
		TeeTimeID:      entry.TeeTimeID,
		Players:        promotedRoster(entry.PartySize),
		Riding:         entry.Riding,
		Source:         domain.SourceWaitlist,
		IdempotencyKey: fmt.Sprintf("waitlist-promote-%d", entry.ID),
	})
	if err != nil {
		if errors.Is(err, createBooking.ErrCapacityExceeded) {
			uc.logger.Warn("PromoteWaitlist: entry=%d lost the capacity race", entry.ID)
			return nil, ErrCapacityExceeded
		}
		return nil, err
	}

	if err := uc.waitlist.UpdateStatus(ctx, entry.ID, domain.WaitlistWaiting, domain.WaitlistAccepted); err != nil {
		uc.logger.Error("PromoteWaitlist: entry=%d booked but status update failed: %v", entry.ID, err)
	}
	uc.logger.Info("PromoteWaitlist: entry=%d promoted as booking=%d", entry.ID, booking.ID)
	return &Response{WaitlistID: entry.ID, Booking: booking}, nil
}

// promotedRoster holds seats under placeholder names; the owner fills in
// the real roster at check-in.
func promotedRoster(partySize int) []string {
	players := make([]string, partySize)
	for i := range players {
		players[i] = fmt.Sprintf("Guest %d", i+1)
	}
	return players
}
