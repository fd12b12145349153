package seasondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Impl implements Repository using Bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new season repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) openSeasonQuery(db bun.IDB, season *Season) *bun.SelectQuery {
	return db.NewSelect().
		Model(season).
		Where("end_date IS NULL").
		Limit(1)
}

func (r *Impl) GetOpenSeason(ctx context.Context, db bun.IDB) (*Season, error) {
	db = r.resolveDB(db)
	season := new(Season)
	if err := r.openSeasonQuery(db, season).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get open season: %w", err)
	}
	return season, nil
}

func (r *Impl) LockOpenSeason(ctx context.Context, db bun.IDB) (*Season, error) {
	db = r.resolveDB(db)
	season := new(Season)
	if err := r.openSeasonQuery(db, season).For("UPDATE").Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock open season: %w", err)
	}
	return season, nil
}

func (r *Impl) GetSeason(ctx context.Context, db bun.IDB, id string) (*Season, error) {
	db = r.resolveDB(db)
	season := new(Season)
	err := db.NewSelect().
		Model(season).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get season %s: %w", id, err)
	}
	return season, nil
}

func (r *Impl) ListSeasons(ctx context.Context, db bun.IDB) ([]*Season, error) {
	db = r.resolveDB(db)
	var seasons []*Season
	err := db.NewSelect().
		Model(&seasons).
		Order("start_date DESC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	return seasons, nil
}

func (r *Impl) InsertSeason(ctx context.Context, db bun.IDB, season *Season) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(season).
		Returning("created_at, updated_at").
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrOpenSeasonExists
		}
		return fmt.Errorf("failed to insert season: %w", err)
	}
	return nil
}

func (r *Impl) UpdateSeason(ctx context.Context, db bun.IDB, season *Season) error {
	db = r.resolveDB(db)
	season.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(season).
		Column("name", "end_date", "events", "player_records", "player_order", "head_to_head", "rankings", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update season %s: %w", season.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
