package waitlist

import "errors"

var (
	// ErrEntryNotFound is returned when a waitlist entry does not exist.
	ErrEntryNotFound = errors.New("waitlist.repository: entry not found")

	// ErrBuildQuery is returned when a SQL query cannot be built.
	ErrBuildQuery = errors.New("waitlist.repository: failed to build query")

	// ErrExecQuery is returned when a SQL query fails to execute.
	ErrExecQuery = errors.New("waitlist.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("waitlist.repository: failed to scan row")
)
