package ratingdomain

import "errors"

var (
	// ErrUnknownRatingSystem is returned for a system id outside the registry.
	ErrUnknownRatingSystem = errors.New("unknown rating system")

	// ErrInvalidParams is returned when tunables fail validation.
	ErrInvalidParams = errors.New("invalid rating parameters")

	// ErrPlayerNotFound means a match named a player the roster does not have.
	ErrPlayerNotFound = errors.New("player not found")
)

var (
	// ErrPlayerExists is returned when registering a tag already on the roster.
	ErrPlayerExists = errors.New("player already exists")

	// ErrInvalidMatch is returned for a match that names the same player twice or no player.
	ErrInvalidMatch = errors.New("invalid match")
)

// ErrInvalidTag is returned for an empty player tag.
var ErrInvalidTag = errors.New("invalid player tag")

// ErrUnknownImportance is returned for a tournament importance other than standard or major.
var ErrUnknownImportance = errors.New("unknown tournament importance")
