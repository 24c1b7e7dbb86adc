package list_tee_times

import "errors"

var (
	// ErrSheetNotFound is returned when the sheet does not exist.
	ErrSheetNotFound = errors.New("list_tee_times: sheet not found")

	// ErrSideNotFound is returned when the requested side does not belong
	// to the sheet or is not effective on the date.
	ErrSideNotFound = errors.New("list_tee_times: side not found")

	// ErrInvalidInput is returned when the request fails validation.
	ErrInvalidInput = errors.New("list_tee_times: invalid input data")

	// ErrInternal is returned on unexpected failures.
	ErrInternal = errors.New("list_tee_times: internal error")
)
