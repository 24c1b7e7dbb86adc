package offerstore

import "errors"

var (
	// ErrTokenNotFound is returned when an accept token is missing or has
	// expired.
	ErrTokenNotFound = errors.New("offerstore: token not found")

	// ErrStore is returned when redis fails.
	ErrStore = errors.New("offerstore: store error")
)
