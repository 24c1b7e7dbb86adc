package generate_slots

import "errors"

var (
	// ErrSheetNotFound is returned when the facility does not exist.
	ErrSheetNotFound = errors.New("generate_slots: sheet not found")

	// ErrInvalidInput is returned on malformed requests.
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("generate_slots: internal error")
)
