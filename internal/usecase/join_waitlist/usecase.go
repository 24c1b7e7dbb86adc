package join_waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	"github.com/fairwaylabs/teesheet-service/internal/infra/offerstore"
	teetimeRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/teetime"
	waitlistRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/waitlist"
	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
)

// UseCase queues oversubscribed demand. A join against a slot with free
// capacity short-circuits into an immediate offer backed by a TTL'd
// accept token; acceptance books through the regular engine so every
// capacity and access check still applies.
type UseCase struct {
	waitlist WaitlistRepository
	teeTimes TeeTimeRepository
	offers   OfferStore
	booker   BookingEngine
	logger   Logger
}

func NewUseCase(
	waitlist WaitlistRepository,
	teeTimes TeeTimeRepository,
	offers OfferStore,
	booker BookingEngine,
	logger Logger,
) *UseCase {
	return &UseCase{
		waitlist: waitlist,
		teeTimes: teeTimes,
		offers:   offers,
		booker:   booker,
		logger:   logger,
	}
}

// Join queues or immediately offers.
func (uc *UseCase) Join(ctx context.Context, req *JoinRequest) (*JoinResponse, error) {
	uc.logger.Info("JoinWaitlist: sheet=%d owner=%d teeTime=%d party=%d",
		req.SheetID, req.OwnerID, req.TeeTimeID, req.PartySize)

	if err := validateJoin(req); err != nil {
		uc.logger.Warn("JoinWaitlist: validation failed: %v", err)
		return nil, err
	}

	teeTime, err := uc.teeTimes.GetByID(ctx, req.TeeTimeID)
	if err != nil {
		if errors.Is(err, teetimeRepo.ErrTeeTimeNotFound) {
			return nil, ErrTeeTimeNotFound
		}
		return nil, fmt.Errorf("%w: failed to get tee time: %v", ErrInternal, err)
	}
	if teeTime.SheetID != req.SheetID {
		return nil, ErrTeeTimeNotFound
	}

	entry := &domain.WaitlistEntry{
		SheetID:   req.SheetID,
		SideID:    &teeTime.SideID,
		TeeTimeID: req.TeeTimeID,
		OwnerID:   req.OwnerID,
		PartySize: req.PartySize,
		ClassCode: req.ClassCode,
		Status:    domain.WaitlistWaiting,
		Riding:    req.Riding,
	}

	// Immediate capacity turns the join into an offer straight away.
	offered := teeTime.CanAccommodate(req.PartySize)
	if offered {
		entry.Status = domain.WaitlistOffered
	}

	created, err := uc.waitlist.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create entry: %v", ErrInternal, err)
	}

	if !offered {
		uc.logger.Info("JoinWaitlist: entry=%d waiting on tee time=%d", created.ID, req.TeeTimeID)
		return &JoinResponse{WaitlistID: created.ID, Offered: false}, nil
	}

	token := uuid.NewString()
	if err := uc.offers.Put(ctx, token, created.ID); err != nil {
		return nil, fmt.Errorf("%w: failed to store accept token: %v", ErrInternal, err)
	}
	uc.logger.Info("JoinWaitlist: entry=%d offered tee time=%d immediately", created.ID, req.TeeTimeID)
	return &JoinResponse{WaitlistID: created.ID, Offered: true, AcceptToken: token}, nil
}

// Accept redeems an offer token and books the held slot. A token that
// has lapsed retires the entry as expired so the owner can rejoin.
func (uc *UseCase) Accept(ctx context.Context, req *AcceptRequest) (*AcceptResponse, error) {
	if req.WaitlistID <= 0 {
		return nil, fmt.Errorf("%w: waitlist id must be positive", ErrInvalidInput)
	}
	if req.AcceptToken == "" {
		return nil, fmt.Errorf("%w: accept token is required", ErrInvalidInput)
	}
	if len(req.Players) == 0 {
		return nil, fmt.Errorf("%w: at least one player is required", ErrInvalidInput)
	}

	entryID, err := uc.offers.Consume(ctx, req.AcceptToken)
	if err != nil {
		if errors.Is(err, offerstore.ErrTokenNotFound) {
			uc.logger.Warn("AcceptWaitlist: token expired or unknown for entry=%d", req.WaitlistID)
			uc.expireOffer(ctx, req.WaitlistID, req.OwnerID)
			return nil, ErrOfferExpired
		}
		return nil, fmt.Errorf("%w: failed to consume token: %v", ErrInternal, err)
	}
	if entryID != req.WaitlistID {
		return nil, ErrEntryNotFound
	}

	entry, err := uc.waitlist.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("%w: failed to get entry: %v", ErrInternal, err)
	}
	if entry.Status != domain.WaitlistOffered {
		return nil, ErrOfferExpired
	}
	if entry.OwnerID != req.OwnerID {
		return nil, ErrEntryNotFound
	}
	if len(req.Players) != entry.PartySize {
		return nil, fmt.Errorf("%w: roster size %d does not match party size %d",
			ErrInvalidInput, len(req.Players), entry.PartySize)
	}

	// Book through the regular engine; the deterministic key makes a
	// re-sent accept return the same booking.
	booking, err := uc.booker.Execute(ctx, &createBooking.Request{
		SheetID:        entry.SheetID,
		OwnerID:        entry.OwnerID,
		ClassCode:      entry.ClassCode,
		TeeTimeID:      entry.TeeTimeID,
		Players:        req.Players,
		Riding:         entry.Riding,
		Source:         domain.SourceWaitlist,
		IdempotencyKey: fmt.Sprintf("waitlist-accept-%d", entry.ID),
	})
	if err != nil {
		if errors.Is(err, createBooking.ErrCapacityExceeded) {
			uc.logger.Warn("AcceptWaitlist: entry=%d lost the capacity race", entry.ID)
			return nil, ErrCapacityExceeded
		}
		return nil, err
	}

	if err := uc.waitlist.UpdateStatus(ctx, entry.ID, domain.WaitlistOffered, domain.WaitlistAccepted); err != nil {
		uc.logger.Error("AcceptWaitlist: entry=%d booked but status update failed: %v", entry.ID, err)
	}
	uc.logger.Info("AcceptWaitlist: entry=%d accepted as booking=%d", entry.ID, booking.ID)
	return &AcceptResponse{WaitlistID: entry.ID, Booking: booking}, nil
}

// expireOffer retires an offered entry whose accept token has lapsed.
// Entries in any other state, or owned by someone else, are left alone.
func (uc *UseCase) expireOffer(ctx context.Context, entryID, ownerID int64) {
	entry, err := uc.waitlist.GetByID(ctx, entryID)
	if err != nil || entry.OwnerID != ownerID || entry.Status != domain.WaitlistOffered {
		return
	}
	if err := uc.waitlist.UpdateStatus(ctx, entryID, domain.WaitlistOffered, domain.WaitlistExpired); err != nil {
		uc.logger.Error("AcceptWaitlist: entry=%d expiry update failed: %v", entryID, err)
		return
	}
	uc.logger.Info("AcceptWaitlist: entry=%d offer expired", entryID)
}

func validateJoin(req *JoinRequest) error {
	if req.SheetID <= 0 || req.OwnerID <= 0 || req.TeeTimeID <= 0 {
		return fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}
	if req.PartySize <= 0 || req.PartySize > domain.MaxPartySize {
		return fmt.Errorf("%w: party size must be between 1 and %d", ErrInvalidInput, domain.MaxPartySize)
	}
	if req.ClassCode == "" {
		return fmt.Errorf("%w: booking class is required", ErrInvalidInput)
	}
	return nil
}
