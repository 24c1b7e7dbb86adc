package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	bookingRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/booking"
	"github.com/fairwaylabs/teesheet-service/internal/service/bookings/models"
)

// Service covers the booking lifecycle after creation: reads,
// cancellation with the customer cutoff, and roster adjustment.
type Service struct {
	bookings         BookingRepository
	teeTimes         TeeTimeRepository
	schedules        ScheduleRepository
	sheets           SheetRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	defaultCutoffHrs int
	logger           Logger
}

func NewService(
	bookings BookingRepository,
	teeTimes TeeTimeRepository,
	schedules ScheduleRepository,
	sheets SheetRepository,
	txManager TransactionManager,
	defaultCutoffHours int,
	logger Logger,
) *Service {
	return &Service{
		bookings:         bookings,
		teeTimes:         teeTimes,
		schedules:        schedules,
		sheets:           sheets,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		defaultCutoffHrs: defaultCutoffHours,
		logger:           logger,
	}
}

// SetTimeProvider swaps the clock, used by tests.
func (s *Service) SetTimeProvider(p TimeProvider) {
	s.timeProvider = p
}

// GetByID fetches a booking. Customers see only their own bookings;
// staff see everything.
func (s *Service) GetByID(ctx context.Context, id, actorID int64, role string) (*models.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkActorAccess(booking, actorID, role); err != nil {
		s.logger.Warn("GetByID: actor=%d role=%s denied on booking=%d", actorID, role, id)
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// ListByOwner returns the owner's bookings, optionally filtered by
// status.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*models.BookingResponse, error) {
	bookings, err := s.bookings.ListByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner: %v", ErrInternal, err)
	}
	responses := make([]*models.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, models.FromDomainBooking(b))
	}
	return responses, nil
}

// Cancel cancels an active booking and releases the capacity its legs
// hold. Customers are held to the facility's pre-tee-time cutoff; staff
// cancel unconditionally.
func (s *Service) Cancel(ctx context.Context, id, actorID int64, role, reason string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: booking=%d actor=%d role=%s", id, actorID, role)

	if len(reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkActorAccess(booking, actorID, role); err != nil {
		s.logger.Warn("Cancel: actor=%d role=%s denied on booking=%d", actorID, role, id)
		return nil, err
	}
	if !booking.IsActive() {
		return nil, ErrAlreadyCancelled
	}

	if role != domain.RoleStaff {
		if err := s.checkCancelCutoff(ctx, booking); err != nil {
			s.logger.Warn("Cancel: booking=%d inside cutoff window for customer=%d", id, actorID)
			return nil, err
		}
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.bookings.Cancel(txCtx, id, reason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrAlreadyCancelled
			}
			return fmt.Errorf("%w: Cancel - update booking: %v", ErrInternal, err)
		}
		for _, leg := range booking.Legs {
			if err := s.teeTimes.Release(txCtx, leg.TeeTimeID, len(leg.Assignments)); err != nil {
				return fmt.Errorf("%w: Cancel - release capacity: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCancelled) {
			return nil, ErrAlreadyCancelled
		}
		return nil, err
	}

	cancelled, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Cancel: booking=%d cancelled, released %d legs", id, len(booking.Legs))
	return models.FromDomainBooking(cancelled), nil
}

// RemovePlayers drops named players from every leg of an active booking,
// releasing their seats. Dropping below the template's minimum is
// rejected.
func (s *Service) RemovePlayers(ctx context.Context, id, actorID int64, role string, players []string) (*models.BookingResponse, error) {
	s.logger.Info("RemovePlayers: booking=%d actor=%d removing=%d", id, actorID, len(players))

	if len(players) == 0 {
		return nil, fmt.Errorf("%w: no players to remove", ErrInvalidInput)
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkActorAccess(booking, actorID, role); err != nil {
		return nil, err
	}
	if !booking.IsActive() {
		return nil, ErrAlreadyCancelled
	}

	remaining := booking.PartySize() - len(players)
	minPlayers, err := s.minimumPlayers(ctx, booking)
	if err != nil {
		return nil, err
	}
	if remaining < minPlayers {
		s.logger.Warn("RemovePlayers: booking=%d would drop to %d below minimum=%d", id, remaining, minPlayers)
		return nil, ErrMinimumPlayersNotMet
	}

	removeSet := make(map[string]bool, len(players))
	for _, name := range players {
		removeSet[strings.TrimSpace(name)] = true
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, leg := range booking.Legs {
			ids := make([]int64, 0, len(players))
			for _, a := range leg.Assignments {
				if removeSet[a.PlayerName] {
					ids = append(ids, a.ID)
				}
			}
			if len(ids) != len(players) {
				return fmt.Errorf("%w: players not found on leg=%d", ErrInvalidInput, leg.LegIndex)
			}
			if err := s.bookings.RemoveAssignments(txCtx, leg.ID, ids); err != nil {
				return fmt.Errorf("%w: RemovePlayers - remove assignments: %v", ErrInternal, err)
			}
			if err := s.teeTimes.Release(txCtx, leg.TeeTimeID, len(ids)); err != nil {
				return fmt.Errorf("%w: RemovePlayers - release capacity: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(updated), nil
}

func (s *Service) loadBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkCancelCutoff evaluates the customer cutoff against wall-clock now
// in the facility's timezone.
func (s *Service) checkCancelCutoff(ctx context.Context, booking *domain.Booking) error {
	sheet, err := s.sheets.GetByID(ctx, booking.SheetID)
	if err != nil {
		return fmt.Errorf("%w: failed to get sheet: %v", ErrInternal, err)
	}
	loc, err := sheet.Location()
	if err != nil {
		return fmt.Errorf("%w: failed to load timezone: %v", ErrInternal, err)
	}

	cutoffHours := sheet.CancelCutoffHours
	if cutoffHours <= 0 {
		cutoffHours = s.defaultCutoffHrs
	}

	now := s.timeProvider.Now().In(loc)
	deadline := booking.FirstTeeOff().In(loc).Add(-time.Duration(cutoffHours) * time.Hour)
	if !now.Before(deadline) {
		return ErrWindowHasPassed
	}
	return nil
}

// minimumPlayers resolves the min-player rule from the first leg's
// governing template version.
func (s *Service) minimumPlayers(ctx context.Context, booking *domain.Booking) (int, error) {
	if len(booking.Legs) == 0 {
		return domain.DefaultMinPlayers, nil
	}
	teeTime, err := s.teeTimes.GetByID(ctx, booking.Legs[0].TeeTimeID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get tee time: %v", ErrInternal, err)
	}
	version, err := s.schedules.GetTemplateVersion(ctx, teeTime.TemplateVersionID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get template version: %v", ErrInternal, err)
	}
	if version.MinPlayers <= 0 {
		return domain.DefaultMinPlayers, nil
	}
	return version.MinPlayers, nil
}

func checkActorAccess(booking *domain.Booking, actorID int64, role string) error {
	if role == domain.RoleStaff {
		return nil
	}
	if booking.OwnerID != actorID {
		return ErrAccessDenied
	}
	return nil
}
