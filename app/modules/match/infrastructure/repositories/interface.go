package matchdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for the match log.
type Repository interface {
	// InsertMatch appends to the log; a repeated match id yields ErrDuplicateMatch.
	InsertMatch(ctx context.Context, db bun.IDB, match *Match) error

	// ListMatchesForPlayer returns the player's matches, newest first.
	ListMatchesForPlayer(ctx context.Context, db bun.IDB, tag string, limit int) ([]*Match, error)

	ExistsByMatchID(ctx context.Context, db bun.IDB, matchID string) (bool, error)
}
