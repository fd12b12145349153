package matchdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new match repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) InsertMatch(ctx context.Context, db bun.IDB, match *Match) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(match).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return fmt.Errorf("%w: %s", ErrDuplicateMatch, match.MatchID)
		}
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *Impl) ListMatchesForPlayer(ctx context.Context, db bun.IDB, tag string, limit int) ([]*Match, error) {
	db = r.resolveDB(db)
	key := ratingdomain.NormalizeTag(tag)

	var matches []*Match
	err := db.NewSelect().
		Model(&matches).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("winner_key = ?", key).WhereOr("loser_key = ?", key)
		}).
		Order("played_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list matches for %q: %w", tag, err)
	}
	return matches, nil
}

func (r *Impl) ExistsByMatchID(ctx context.Context, db bun.IDB, matchID string) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Match)(nil)).
		Where("match_id = ?", matchID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check match %q: %w", matchID, err)
	}
	return exists, nil
}
