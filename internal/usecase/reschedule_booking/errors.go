package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist.
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrBookingNotActive is returned when the booking is already
	// cancelled.
	ErrBookingNotActive = errors.New("reschedule_booking: booking is not active")

	// ErrAccessDenied is returned when the actor may not move the booking,
	// or the booking class may not book the destination side.
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrTeeTimeNotFound is returned when the destination slot does not
	// exist.
	ErrTeeTimeNotFound = errors.New("reschedule_booking: tee time not found")

	// ErrWindowNotOpen is returned when the destination lies outside the
	// class's booking horizon.
	ErrWindowNotOpen = errors.New("reschedule_booking: booking window not open")

	// ErrWindowHasPassed is returned when the destination tee-off is in
	// the past.
	ErrWindowHasPassed = errors.New("reschedule_booking: window has passed")

	// ErrReroundUnavailable is returned when the destination has no
	// reround slot for the second leg.
	ErrReroundUnavailable = errors.New("reschedule_booking: reround slot unavailable")

	// ErrCapacityExceeded is returned when the destination cannot take the
	// whole party. The original assignment is left untouched.
	ErrCapacityExceeded = errors.New("reschedule_booking: capacity exceeded")

	// ErrInvalidInput is returned on malformed requests.
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("reschedule_booking: internal error")
)
