package schedule

import "errors"

var (
	// ErrConfigurationInvalid is returned when publish-time validation
	// fails: side coverage gaps, missing pricing or access rules, reround
	// cycles, or broken window ordering.
	ErrConfigurationInvalid = errors.New("service.schedule: configuration invalid")

	// ErrVersionNotFound is returned when the referenced version does not
	// exist.
	ErrVersionNotFound = errors.New("service.schedule: version not found")

	// ErrVersionPublished is returned when a mutation targets a published,
	// immutable version.
	ErrVersionPublished = errors.New("service.schedule: version is published")

	// ErrInternal wraps storage failures.
	ErrInternal = errors.New("service.schedule: internal error")
)
