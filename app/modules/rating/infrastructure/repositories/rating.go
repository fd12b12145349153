package ratingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolation = "23505"

// Impl implements Repository using Bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new rating repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetPlayerByTag(ctx context.Context, db bun.IDB, tag string) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("tag_key = ?", ratingdomain.NormalizeTag(tag)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player %q: %w", tag, err)
	}
	return player, nil
}

func (r *Impl) GetPlayersByTagsForUpdate(ctx context.Context, db bun.IDB, tags []string) ([]*Player, error) {
	db = r.resolveDB(db)
	keys := make([]string, 0, len(tags))
	for _, tag := range tags {
		keys = append(keys, ratingdomain.NormalizeTag(tag))
	}

	var players []*Player
	// Ordered by id so concurrent lockers take row locks in the same order.
	err := db.NewSelect().
		Model(&players).
		Where("tag_key IN (?)", bun.In(keys)).
		Order("id ASC").
		For("UPDATE").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to lock players: %w", err)
	}
	return players, nil
}

func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB) ([]*Player, error) {
	db = r.resolveDB(db)
	var players []*Player
	err := db.NewSelect().
		Model(&players).
		Order("id ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (r *Impl) InsertPlayer(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(player).
		Returning("id, created_at, updated_at").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateTag, player.Tag)
		}
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *Impl) UpdatePlayers(ctx context.Context, db bun.IDB, players []*Player) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for _, p := range players {
		p.UpdatedAt = now
		res, err := db.NewUpdate().
			Model(p).
			Column("tag", "discord_id", "matches_played", "wins", "losses",
				"elo_score", "skill_mean", "skill_uncertainty", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update player %q: %w", p.Tag, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("update player %q: %w", p.Tag, ErrNotFound)
		}
	}
	return nil
}

func (r *Impl) DeleteAllPlayers(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Player)(nil)).
		Where("TRUE").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear roster: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

func (r *Impl) GetSettings(ctx context.Context, db bun.IDB) (*Settings, error) {
	db = r.resolveDB(db)
	settings := new(Settings)
	err := db.NewSelect().
		Model(settings).
		Where("id = ?", settingsRowID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating settings: %w", err)
	}
	return settings, nil
}

func (r *Impl) SaveSettings(ctx context.Context, db bun.IDB, settings *Settings) error {
	db = r.resolveDB(db)
	settings.ID = settingsRowID
	settings.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(settings).
		On("CONFLICT (id) DO UPDATE").
		Set("active_system = EXCLUDED.active_system").
		Set("elo = EXCLUDED.elo").
		Set("skill = EXCLUDED.skill").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save rating settings: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}
