package seasondb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for season persistence.
type Repository interface {
	// GetOpenSeason returns the season without an end date, or ErrNotFound.
	GetOpenSeason(ctx context.Context, db bun.IDB) (*Season, error)

	// LockOpenSeason is GetOpenSeason with a row lock held until the
	// transaction ends.
	LockOpenSeason(ctx context.Context, db bun.IDB) (*Season, error)

	GetSeason(ctx context.Context, db bun.IDB, id string) (*Season, error)

	// ListSeasons returns every season, newest first.
	ListSeasons(ctx context.Context, db bun.IDB) ([]*Season, error)

	// InsertSeason stores a new season; a second open season yields ErrOpenSeasonExists.
	InsertSeason(ctx context.Context, db bun.IDB, season *Season) error

	UpdateSeason(ctx context.Context, db bun.IDB, season *Season) error
}
