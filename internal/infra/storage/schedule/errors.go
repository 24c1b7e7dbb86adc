package schedule

import "errors"

var (
	// ErrTemplateNotFound is returned when the template does not exist.
	ErrTemplateNotFound = errors.New("schedule.repository: template not found")

	// ErrTemplateVersionNotFound is returned when the template version does not exist.
	ErrTemplateVersionNotFound = errors.New("schedule.repository: template version not found")

	// ErrSeasonNotFound is returned when the season does not exist.
	ErrSeasonNotFound = errors.New("schedule.repository: season not found")

	// ErrSeasonVersionNotFound is returned when the season version does not exist.
	ErrSeasonVersionNotFound = errors.New("schedule.repository: season version not found")

	// ErrOverrideNotFound is returned when no override matches.
	ErrOverrideNotFound = errors.New("schedule.repository: override not found")

	// ErrOverrideVersionNotFound is returned when the override version does not exist.
	ErrOverrideVersionNotFound = errors.New("schedule.repository: override version not found")

	// ErrClosureNotFound is returned when a closure block does not exist.
	ErrClosureNotFound = errors.New("schedule.repository: closure not found")

	// ErrVersionPublished is returned on attempts to mutate or delete a
	// published version.
	ErrVersionPublished = errors.New("schedule.repository: version is published and immutable")

	// ErrVersionReferenced is returned when a version cannot be deleted
	// because windows still reference it.
	ErrVersionReferenced = errors.New("schedule.repository: version is referenced")

	// ErrBuildQuery is returned when a SQL query cannot be built.
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery is returned when a SQL query fails to execute.
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
