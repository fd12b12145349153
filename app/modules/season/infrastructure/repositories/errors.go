package seasondb

import "errors"

var (
	// ErrNotFound indicates the requested season does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOpenSeasonExists indicates an insert would create a second open season.
	ErrOpenSeasonExists = errors.New("an open season already exists")
)
