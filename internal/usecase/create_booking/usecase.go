package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	bookingRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/booking"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
	teetimeRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/teetime"
	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

// UseCase creates bookings. Capacity correctness rests on conditional
// assigned_count updates inside one serializable transaction: of two
// concurrent requests racing for the last seats, exactly one commits and
// the other sees ErrCapacityExceeded. The idempotency key is checked
// before any capacity mutation so retries never double-allocate.
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

// legPlan is one leg about to be booked.
type legPlan struct {
	teeTime *domain.TeeTime
	side    *domain.Side
	price   int64
}

// Execute runs the booking attempt.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: sheet=%d owner=%d teeTime=%d party=%d class=%s key=%s",
		req.SheetID, req.OwnerID, req.TeeTimeID, len(req.Players), req.ClassCode, req.IdempotencyKey)

	// 1. Validate input.
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	if req.Source == "" {
		req.Source = domain.SourceDirect
	}

	// 2. Idempotency short-circuit before any capacity mutation.
	if existing, err := uc.bookings.GetByIdempotencyKey(ctx, req.SheetID, req.IdempotencyKey); err == nil {
		uc.logger.Info("CreateBooking: replay of key=%s returns booking=%d", req.IdempotencyKey, existing.ID)
		return toResponse(existing), nil
	} else if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, fmt.Errorf("%w: failed to check idempotency key: %v", ErrInternal, err)
	}

	// 3. Load the facility and the first leg's slot.
	sheet, err := uc.sheets.GetByID(ctx, req.SheetID)
	if err != nil {
		if errors.Is(err, sheetRepo.ErrSheetNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("%w: failed to get sheet: %v", ErrInternal, err)
	}
	loc, err := sheet.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load timezone: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now().In(loc)

	firstTee, err := uc.teeTimes.GetByID(ctx, req.TeeTimeID)
	if err != nil {
		if errors.Is(err, teetimeRepo.ErrTeeTimeNotFound) {
			uc.logger.Warn("CreateBooking: tee time=%d not found", req.TeeTimeID)
			return nil, ErrTeeTimeNotFound
		}
		return nil, fmt.Errorf("%w: failed to get tee time: %v", ErrInternal, err)
	}
	if firstTee.SheetID != req.SheetID {
		return nil, ErrTeeTimeNotFound
	}
	if !firstTee.StartTime.After(now) {
		uc.logger.Warn("CreateBooking: tee time=%d already teed off", req.TeeTimeID)
		return nil, ErrWindowHasPassed
	}

	version, err := uc.schedules.GetTemplateVersion(ctx, firstTee.TemplateVersionID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get template version: %v", ErrInternal, err)
	}
	firstSide, err := uc.sheets.GetSide(ctx, req.SheetID, firstTee.SideID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get side: %v", ErrInternal, err)
	}

	// 4. Access, minimum players, walk/ride, booking horizon.
	rule := version.AccessRuleFor(firstTee.SideID, req.ClassCode)
	if rule == nil || !rule.Allowed {
		uc.logger.Warn("CreateBooking: class=%s denied on side=%d version=%d", req.ClassCode, firstTee.SideID, version.ID)
		return nil, ErrAccessDenied
	}
	if len(req.Players) < version.MinPlayers {
		uc.logger.Warn("CreateBooking: party=%d below minimum=%d", len(req.Players), version.MinPlayers)
		return nil, ErrMinimumPlayersNotMet
	}
	if err := checkWalkRide(version.WalkRideMode, req.Riding); err != nil {
		return nil, err
	}
	if err := checkBookingWindow(now, firstTee.StartTime.In(loc), rule, loc); err != nil {
		uc.logger.Warn("CreateBooking: tee time=%d outside class=%s horizon", req.TeeTimeID, req.ClassCode)
		return nil, err
	}

	// 5. Plan the legs; the reround slot is computed deterministically
	// from the first side's duration metadata.
	legs := []legPlan{{teeTime: firstTee, side: firstSide}}
	if req.EighteenHoles {
		second, err := uc.planReround(ctx, req, version, firstTee, firstSide)
		if err != nil {
			return nil, err
		}
		legs = append(legs, *second)
	}

	// 6. Price each leg. Publish validation guarantees a full-class
	// fallback, so a missing rule here is a fault.
	partySize := len(req.Players)
	var total int64
	for i := range legs {
		pricing := version.PricingFor(legs[i].side.ID, req.ClassCode)
		if pricing == nil {
			return nil, fmt.Errorf("%w: no pricing for side=%d class=%s", ErrInternal, legs[i].side.ID, req.ClassCode)
		}
		perPlayer := pricing.GreensFeeCents
		if req.Riding {
			perPlayer += pricing.CartFeeCents
		}
		legs[i].price = perPlayer * int64(partySize)
		total += legs[i].price
	}

	// 7. Assign capacity and persist in one serializable transaction.
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, leg := range legs {
			if err := uc.teeTimes.TryAssign(txCtx, leg.teeTime.ID, partySize); err != nil {
				if errors.Is(err, teetimeRepo.ErrCapacityExceeded) {
					return ErrCapacityExceeded
				}
				return fmt.Errorf("%w: failed to assign capacity: %v", ErrInternal, err)
			}
		}

		booking := uc.buildBooking(req, legs)
		created, err := uc.bookings.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateKey) {
				return bookingRepo.ErrDuplicateKey
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		result = created
		return nil
	})
	if errors.Is(err, bookingRepo.ErrDuplicateKey) {
		// A concurrent replay won the insert race; return its booking.
		existing, lookupErr := uc.bookings.GetByIdempotencyKey(ctx, req.SheetID, req.IdempotencyKey)
		if lookupErr != nil {
			return nil, fmt.Errorf("%w: failed to load winning replay: %v", ErrInternal, lookupErr)
		}
		return toResponse(existing), nil
	}
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			uc.logger.Warn("CreateBooking: capacity exceeded for tee time=%d party=%d", req.TeeTimeID, partySize)
			return nil, ErrCapacityExceeded
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking=%d legs=%d totalCents=%d", result.ID, len(result.Legs), total)
	return toResponse(result), nil
}

// planReround locates the second leg's slot.
func (uc *UseCase) planReround(ctx context.Context, req *Request, version *domain.TemplateVersion, firstTee *domain.TeeTime, firstSide *domain.Side) (*legPlan, error) {
	if version.MaxStartingLegs < 2 {
		uc.logger.Warn("CreateBooking: version=%d does not allow rerounds", version.ID)
		return nil, ErrReroundUnavailable
	}

	targetSideID := firstSide.ID
	if mapping := version.SideMapping(firstSide.ID); mapping != nil && mapping.ReroundTargetSideID != nil {
		targetSideID = *mapping.ReroundTargetSideID
	}
	targetSide, err := uc.sheets.GetSide(ctx, req.SheetID, targetSideID)
	if err != nil {
		if errors.Is(err, sheetRepo.ErrSideNotFound) {
			return nil, ErrReroundUnavailable
		}
		return nil, fmt.Errorf("%w: failed to get reround side: %v", ErrInternal, err)
	}

	rerStart := firstTee.StartTime.Add(time.Duration(firstSide.RoundDurationMinutes()) * time.Minute)
	rerTee, err := uc.teeTimes.GetByKey(ctx, req.SheetID, targetSideID, rerStart)
	if err != nil {
		if errors.Is(err, teetimeRepo.ErrTeeTimeNotFound) {
			uc.logger.Warn("CreateBooking: no reround slot on side=%d at %s", targetSideID, rerStart.Format(time.RFC3339))
			return nil, ErrReroundUnavailable
		}
		return nil, fmt.Errorf("%w: failed to get reround slot: %v", ErrInternal, err)
	}
	return &legPlan{teeTime: rerTee, side: targetSide}, nil
}

func (uc *UseCase) buildBooking(req *Request, legs []legPlan) *domain.Booking {
	booking := &domain.Booking{
		SheetID:        req.SheetID,
		OwnerID:        req.OwnerID,
		ClassCode:      req.ClassCode,
		Status:         domain.BookingActive,
		Source:         req.Source,
		IdempotencyKey: req.IdempotencyKey,
	}
	for i, leg := range legs {
		assignments := make([]domain.SlotAssignment, 0, len(req.Players))
		for _, player := range req.Players {
			assignments = append(assignments, domain.SlotAssignment{
				TeeTimeID:  leg.teeTime.ID,
				PlayerName: player,
			})
		}
		booking.Legs = append(booking.Legs, domain.RoundLeg{
			LegIndex:    i,
			TeeTimeID:   leg.teeTime.ID,
			SideID:      leg.side.ID,
			StartTime:   leg.teeTime.StartTime,
			Riding:      req.Riding,
			PriceCents:  leg.price,
			Assignments: assignments,
		})
		booking.TotalPriceCents += leg.price
	}
	return booking
}

// checkWalkRide enforces the template's walk/ride mode.
func checkWalkRide(mode domain.WalkRideMode, riding bool) error {
	switch mode {
	case domain.WalkOnly:
		if riding {
			return ErrWalkRideNotAllowed
		}
	case domain.RideOnly:
		if !riding {
			return ErrWalkRideNotAllowed
		}
	}
	return nil
}

// checkBookingWindow enforces the class's booking horizon: at most
// MaxDaysInAdvance ahead, and on the horizon day not before the daily
// release clock.
func checkBookingWindow(now, teeOff time.Time, rule *domain.AccessRule, loc *time.Location) error {
	if rule.MaxDaysInAdvance <= 0 {
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	teeDay := time.Date(teeOff.Year(), teeOff.Month(), teeOff.Day(), 0, 0, 0, 0, loc)
	// Rounding keeps DST-shortened days counting as whole days.
	daysAhead := int(math.Round(teeDay.Sub(today).Hours() / 24))

	if daysAhead > rule.MaxDaysInAdvance {
		return ErrWindowNotOpen
	}
	if daysAhead == rule.MaxDaysInAdvance && rule.ReleaseTime != nil {
		release := types.NewTimeString(now)
		if release.IsBefore(*rule.ReleaseTime) {
			return ErrWindowNotOpen
		}
	}
	return nil
}
