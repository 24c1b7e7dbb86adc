package windows

import "errors"

var (
	// ErrSheetNotFound is returned when the facility does not exist.
	ErrSheetNotFound = errors.New("service.windows: sheet not found")

	// ErrInternal wraps storage failures.
	ErrInternal = errors.New("service.windows: internal error")
)
