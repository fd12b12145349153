package ratingdb

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateTag indicates an insert collided with an existing tag key.
	ErrDuplicateTag = errors.New("tag already registered")
)
