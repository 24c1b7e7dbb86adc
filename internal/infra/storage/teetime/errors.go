package teetime

import "errors"

var (
	// ErrTeeTimeNotFound is returned when a tee time does not exist.
	ErrTeeTimeNotFound = errors.New("teetime.repository: tee time not found")

	// ErrCapacityExceeded is returned when a conditional assignment finds
	// the slot blocked or without enough remaining capacity.
	ErrCapacityExceeded = errors.New("teetime.repository: capacity exceeded")

	// ErrBuildQuery is returned when a SQL query cannot be built.
	ErrBuildQuery = errors.New("teetime.repository: failed to build query")

	// ErrExecQuery is returned when a SQL query fails to execute.
	ErrExecQuery = errors.New("teetime.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("teetime.repository: failed to scan row")
)
