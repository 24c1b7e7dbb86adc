package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	bookingRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/booking"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
	teetimeRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/teetime"
)

// UseCase moves an active booking to new slots. Destination capacity is
// claimed before the origin is released, all inside one serializable
// transaction, so a capacity conflict rolls back with the original
// assignment intact.
type UseCase struct {
	bookings     BookingRepository
	teeTimes     TeeTimeRepository
	schedules    ScheduleRepository
	sheets       SheetRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	bookings BookingRepository,
	teeTimes TeeTimeRepository,
	schedules ScheduleRepository,
	sheets SheetRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookings:     bookings,
		teeTimes:     teeTimes,
		schedules:    schedules,
		sheets:       sheets,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider swaps the clock, used by tests.
func (uc *UseCase) SetTimeProvider(p TimeProvider) {
	uc.timeProvider = p
}

// legMove pairs an existing leg with its destination slot.
type legMove struct {
	leg       *domain.RoundLeg
	toTeeTime *domain.TeeTime
}

// Execute runs the reschedule.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d actor=%d newTeeTime=%d", req.BookingID, req.ActorID, req.NewTeeTimeID)

	if req.BookingID <= 0 || req.NewTeeTimeID <= 0 {
		return nil, fmt.Errorf("%w: booking id and tee time id must be positive", ErrInvalidInput)
	}

	booking, err := uc.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	if req.Role != domain.RoleStaff && booking.OwnerID != req.ActorID {
		uc.logger.Warn("RescheduleBooking: actor=%d denied on booking=%d", req.ActorID, req.BookingID)
		return nil, ErrAccessDenied
	}
	if !booking.IsActive() {
		return nil, ErrBookingNotActive
	}

	sheet, err := uc.sheets.GetByID(ctx, booking.SheetID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get sheet: %v", ErrInternal, err)
	}
	loc, err := sheet.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load timezone: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now().In(loc)

	firstTee, err := uc.teeTimes.GetByID(ctx, req.NewTeeTimeID)
	if err != nil {
		if errors.Is(err, teetimeRepo.ErrTeeTimeNotFound) {
			return nil, ErrTeeTimeNotFound
		}
		return nil, fmt.Errorf("%w: failed to get tee time: %v", ErrInternal, err)
	}
	if firstTee.SheetID != booking.SheetID {
		return nil, ErrTeeTimeNotFound
	}
	if !firstTee.StartTime.After(now) {
		return nil, ErrWindowHasPassed
	}

	version, err := uc.schedules.GetTemplateVersion(ctx, firstTee.TemplateVersionID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get template version: %v", ErrInternal, err)
	}
	rule := version.AccessRuleFor(firstTee.SideID, booking.ClassCode)
	if rule == nil || !rule.Allowed {
		uc.logger.Warn("RescheduleBooking: class=%s denied on side=%d", booking.ClassCode, firstTee.SideID)
		return nil, ErrAccessDenied
	}

	moves, err := uc.planMoves(ctx, booking, firstTee)
	if err != nil {
		return nil, err
	}

	partySize := booking.PartySize()

	// Net per-slot deltas so a move onto a slot the booking already
	// occupies claims only the seats it does not hold yet. A swap of
	// the two legs nets to zero and touches no counters.
	deltas := make(map[int64]int, 2*len(moves))
	for _, move := range moves {
		deltas[move.toTeeTime.ID] += partySize
		deltas[move.leg.TeeTimeID] -= partySize
	}

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Claim the additional seats first; a conflict aborts before
		// the origin is touched.
		for id, delta := range deltas {
			if delta <= 0 {
				continue
			}
			if err := uc.teeTimes.TryAssign(txCtx, id, delta); err != nil {
				if errors.Is(err, teetimeRepo.ErrCapacityExceeded) {
					return ErrCapacityExceeded
				}
				return fmt.Errorf("%w: failed to assign destination: %v", ErrInternal, err)
			}
		}
		for id, delta := range deltas {
			if delta >= 0 {
				continue
			}
			if err := uc.teeTimes.Release(txCtx, id, -delta); err != nil {
				return fmt.Errorf("%w: failed to release origin: %v", ErrInternal, err)
			}
		}
		for _, move := range moves {
			if err := uc.bookings.UpdateLegTeeTime(txCtx, move.leg.ID, move.toTeeTime.ID, move.toTeeTime.SideID, move.toTeeTime.StartTime); err != nil {
				return fmt.Errorf("%w: failed to move leg: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			uc.logger.Warn("RescheduleBooking: destination capacity exceeded for booking=%d", req.BookingID)
			return nil, ErrCapacityExceeded
		}
		return nil, err
	}

	moved, err := uc.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
	}
	uc.logger.Info("RescheduleBooking: booking=%d moved to tee time=%d", req.BookingID, req.NewTeeTimeID)
	return toResponse(moved), nil
}

// planMoves pairs each existing leg with a destination slot: the first
// leg lands on the requested slot, the second on its recomputed reround.
func (uc *UseCase) planMoves(ctx context.Context, booking *domain.Booking, firstTee *domain.TeeTime) ([]legMove, error) {
	moves := []legMove{{leg: &booking.Legs[0], toTeeTime: firstTee}}
	if len(booking.Legs) == 1 {
		return moves, nil
	}
	if len(booking.Legs) > domain.MaxLegsPerBooking {
		return nil, fmt.Errorf("%w: booking has %d legs", ErrInvalidInput, len(booking.Legs))
	}

	firstSide, err := uc.sheets.GetSide(ctx, booking.SheetID, firstTee.SideID)
	if err != nil {
		if errors.Is(err, sheetRepo.ErrSideNotFound) {
			return nil, ErrReroundUnavailable
		}
		return nil, fmt.Errorf("%w: failed to get side: %v", ErrInternal, err)
	}
	version, err := uc.schedules.GetTemplateVersion(ctx, firstTee.TemplateVersionID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get template version: %v", ErrInternal, err)
	}

	targetSideID := firstSide.ID
	if mapping := version.SideMapping(firstSide.ID); mapping != nil && mapping.ReroundTargetSideID != nil {
		targetSideID = *mapping.ReroundTargetSideID
	}
	rerStart := firstTee.StartTime.Add(time.Duration(firstSide.RoundDurationMinutes()) * time.Minute)
	rerTee, err := uc.teeTimes.GetByKey(ctx, booking.SheetID, targetSideID, rerStart)
	if err != nil {
		if errors.Is(err, teetimeRepo.ErrTeeTimeNotFound) {
			uc.logger.Warn("RescheduleBooking: no reround slot on side=%d at %s", targetSideID, rerStart.Format(time.RFC3339))
			return nil, ErrReroundUnavailable
		}
		return nil, fmt.Errorf("%w: failed to get reround slot: %v", ErrInternal, err)
	}
	moves = append(moves, legMove{leg: &booking.Legs[1], toTeeTime: rerTee})
	return moves, nil
}

func toResponse(b *domain.Booking) *Response {
	resp := &Response{
		ID:              b.ID,
		SheetID:         b.SheetID,
		OwnerID:         b.OwnerID,
		ClassCode:       b.ClassCode,
		Status:          string(b.Status),
		TotalPriceCents: b.TotalPriceCents,
		Legs:            make([]LegResponse, 0, len(b.Legs)),
	}
	for _, leg := range b.Legs {
		players := make([]string, 0, len(leg.Assignments))
		for _, a := range leg.Assignments {
			players = append(players, a.PlayerName)
		}
		resp.Legs = append(resp.Legs, LegResponse{
			LegIndex:   leg.LegIndex,
			TeeTimeID:  leg.TeeTimeID,
			SideID:     leg.SideID,
			StartTime:  leg.StartTime,
			Riding:     leg.Riding,
			PriceCents: leg.PriceCents,
			Players:    players,
		})
	}
	return resp
}
