package domain

import "errors"

var (
	// ErrBookNotFound - requested title is absent from the catalog.
	ErrBookNotFound = errors.New("book not found")

	// ErrInvalidRating - rating value outside the 1..10 scale,
	// rejected before it reaches the overlay store.
	ErrInvalidRating = errors.New("rating must be between 1 and 10")

	// ErrStorageUnavailable - the live rating store cannot be
	// reached. Propagated as-is; retry policy belongs to the caller.
	ErrStorageUnavailable = errors.New("rating storage unavailable")
)
