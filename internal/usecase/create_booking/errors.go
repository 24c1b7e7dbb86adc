package create_booking

import "errors"

var (
	// ErrSheetNotFound is returned when the facility does not exist.
	ErrSheetNotFound = errors.New("create_booking: sheet not found")

	// ErrTeeTimeNotFound is returned when the requested slot does not exist.
	ErrTeeTimeNotFound = errors.New("create_booking: tee time not found")

	// ErrAccessDenied is returned when the booking class may not book the
	// side under the governing template version.
	ErrAccessDenied = errors.New("create_booking: access denied for booking class")

	// ErrMinimumPlayersNotMet is returned when the roster is smaller than
	// the side's minimum.
	ErrMinimumPlayersNotMet = errors.New("create_booking: minimum players not met")

	// ErrWindowNotOpen is returned when the slot lies outside the class's
	// booking horizon or before its daily release clock.
	ErrWindowNotOpen = errors.New("create_booking: booking window not open")

	// ErrWindowHasPassed is returned when the slot's tee-off is already in
	// the past.
	ErrWindowHasPassed = errors.New("create_booking: window has passed")

	// ErrWalkRideNotAllowed is returned when the walk/ride selection
	// conflicts with the template's mode.
	ErrWalkRideNotAllowed = errors.New("create_booking: walk/ride selection not allowed")

	// ErrReroundUnavailable is returned when no bookable reround slot
	// exists for the second leg.
	ErrReroundUnavailable = errors.New("create_booking: reround slot unavailable")

	// ErrCapacityExceeded is returned when a leg's slot cannot take the
	// whole party.
	ErrCapacityExceeded = errors.New("create_booking: capacity exceeded")

	// ErrInvalidInput is returned on malformed requests.
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("create_booking: internal error")
)
