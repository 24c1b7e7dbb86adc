package booking

import "errors"

var (
	// ErrBookingNotFound is returned when a booking does not exist.
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrLegNotFound is returned when a round leg does not exist.
	ErrLegNotFound = errors.New("booking.repository: round leg not found")

	// ErrDuplicateKey is returned when an insert collides with an existing
	// idempotency key.
	ErrDuplicateKey = errors.New("booking.repository: duplicate idempotency key")

	// ErrBuildQuery is returned when a SQL query cannot be built.
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery is returned when a SQL query fails to execute.
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
