package domain

import "errors"

var (
	// ErrConcurrentModification is returned when a versioned write loses a
	// race against another writer. The whole unit of work may be retried.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrForbidden is returned when a caller reads another account's data
	// without the admin role.
	ErrForbidden = errors.New("forbidden")
)
