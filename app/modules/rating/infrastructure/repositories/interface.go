package ratingdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for roster and rating settings persistence.
// Every method takes an optional db handle so it can join a caller's
// transaction; nil uses the repository's own connection.
type Repository interface {
	// GetPlayerByTag looks a player up by normalized tag.
	GetPlayerByTag(ctx context.Context, db bun.IDB, tag string) (*Player, error)

	// GetPlayersByTagsForUpdate loads and row-locks the named players. Missing
	// tags are simply absent from the result.
	GetPlayersByTagsForUpdate(ctx context.Context, db bun.IDB, tags []string) ([]*Player, error)

	// ListPlayers returns the whole roster in insertion order.
	ListPlayers(ctx context.Context, db bun.IDB) ([]*Player, error)

	// InsertPlayer adds a roster entry. A taken tag yields ErrDuplicateTag.
	InsertPlayer(ctx context.Context, db bun.IDB, player *Player) error

	// UpdatePlayers writes counters, ratings and identity of existing rows.
	UpdatePlayers(ctx context.Context, db bun.IDB, players []*Player) error

	// DeleteAllPlayers clears the roster and reports how many rows went away.
	DeleteAllPlayers(ctx context.Context, db bun.IDB) (int, error)

	// GetSettings returns the settings row or ErrNotFound.
	GetSettings(ctx context.Context, db bun.IDB) (*Settings, error)

	// SaveSettings upserts the settings row.
	SaveSettings(ctx context.Context, db bun.IDB, settings *Settings) error
}
