package bookings

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist.
	ErrBookingNotFound = errors.New("service.bookings: booking not found")

	// ErrAccessDenied is returned when the actor may not touch the booking.
	ErrAccessDenied = errors.New("service.bookings: access denied")

	// ErrAlreadyCancelled is returned when the booking no longer holds
	// capacity.
	ErrAlreadyCancelled = errors.New("service.bookings: booking already cancelled")

	// ErrWindowHasPassed is returned when a customer cancels inside the
	// facility's cutoff window. Staff override the cutoff.
	ErrWindowHasPassed = errors.New("service.bookings: cancellation window has passed")

	// ErrMinimumPlayersNotMet is returned when a roster adjustment would
	// drop the party below the side's minimum.
	ErrMinimumPlayersNotMet = errors.New("service.bookings: minimum players not met")

	// ErrInvalidInput is returned on malformed requests.
	ErrInvalidInput = errors.New("service.bookings: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("service.bookings: internal error")
)
