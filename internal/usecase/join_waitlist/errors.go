package join_waitlist

import "errors"

var (
	// ErrTeeTimeNotFound is returned when the requested slot does not exist.
	ErrTeeTimeNotFound = errors.New("join_waitlist: tee time not found")

	// ErrEntryNotFound is returned when the waitlist entry does not exist.
	ErrEntryNotFound = errors.New("join_waitlist: entry not found")

	// ErrOfferExpired is returned when the accept token is missing or has
	// timed out.
	ErrOfferExpired = errors.New("join_waitlist: offer expired")

	// ErrCapacityExceeded is returned when acceptance loses the race for
	// the offered capacity.
	ErrCapacityExceeded = errors.New("join_waitlist: capacity exceeded")

	// ErrInvalidInput is returned on malformed requests.
	ErrInvalidInput = errors.New("join_waitlist: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("join_waitlist: internal error")
)
