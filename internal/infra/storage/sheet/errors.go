package sheet

import "errors"

var (
	// ErrSheetNotFound is returned when the sheet does not exist.
	ErrSheetNotFound = errors.New("sheet.repository: sheet not found")

	// ErrSideNotFound is returned when the side does not exist.
	ErrSideNotFound = errors.New("sheet.repository: side not found")

	// ErrBuildQuery is returned when a SQL query cannot be built.
	ErrBuildQuery = errors.New("sheet.repository: failed to build query")

	// ErrExecQuery is returned when a SQL query fails to execute.
	ErrExecQuery = errors.New("sheet.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("sheet.repository: failed to scan row")
)
