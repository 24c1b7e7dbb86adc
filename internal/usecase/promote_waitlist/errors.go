package promote_waitlist

import "errors"

var (
	// ErrEntryNotFound is returned when the waitlist entry does not exist.
	ErrEntryNotFound = errors.New("promote_waitlist: entry not found")

	// ErrEntryNotWaiting is returned when the entry is no longer eligible
	// for promotion.
	ErrEntryNotWaiting = errors.New("promote_waitlist: entry is not waiting")

	// ErrNotOldestEntry is returned when an older entry is still waiting
	// for the same slot. Promotion is strictly FIFO.
	ErrNotOldestEntry = errors.New("promote_waitlist: an older entry is still waiting")

	// ErrCapacityExceeded is returned when the slot cannot take the
	// entry's party at promotion time.
	ErrCapacityExceeded = errors.New("promote_waitlist: capacity exceeded")

	// ErrInvalidInput is returned on malformed requests.
	ErrInvalidInput = errors.New("promote_waitlist: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("promote_waitlist: internal error")
)
