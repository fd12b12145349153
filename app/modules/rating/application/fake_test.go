package ratingservice

import (
	"context"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	ratingdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Rating Repo
// ------------------------

type FakeRatingRepo struct {
	trace []string

	GetPlayerByTagFunc            func(ctx context.Context, db bun.IDB, tag string) (*ratingdb.Player, error)
	GetPlayersByTagsForUpdateFunc func(ctx context.Context, db bun.IDB, tags []string) ([]*ratingdb.Player, error)
	ListPlayersFunc               func(ctx context.Context, db bun.IDB) ([]*ratingdb.Player, error)
	InsertPlayerFunc              func(ctx context.Context, db bun.IDB, player *ratingdb.Player) error
	UpdatePlayersFunc             func(ctx context.Context, db bun.IDB, players []*ratingdb.Player) error
	DeleteAllPlayersFunc          func(ctx context.Context, db bun.IDB) (int, error)
	GetSettingsFunc               func(ctx context.Context, db bun.IDB) (*ratingdb.Settings, error)
	SaveSettingsFunc              func(ctx context.Context, db bun.IDB, settings *ratingdb.Settings) error
}

func NewFakeRatingRepo() *FakeRatingRepo {
	return &FakeRatingRepo{trace: []string{}}
}

func (f *FakeRatingRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRatingRepo) GetPlayerByTag(ctx context.Context, db bun.IDB, tag string) (*ratingdb.Player, error) {
	f.record("GetPlayerByTag")
	if f.GetPlayerByTagFunc != nil {
		return f.GetPlayerByTagFunc(ctx, db, tag)
	}
	return nil, ratingdb.ErrNotFound
}

func (f *FakeRatingRepo) GetPlayersByTagsForUpdate(ctx context.Context, db bun.IDB, tags []string) ([]*ratingdb.Player, error) {
	f.record("GetPlayersByTagsForUpdate")
	if f.GetPlayersByTagsForUpdateFunc != nil {
		return f.GetPlayersByTagsForUpdateFunc(ctx, db, tags)
	}
	return nil, nil
}

func (f *FakeRatingRepo) ListPlayers(ctx context.Context, db bun.IDB) ([]*ratingdb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeRatingRepo) InsertPlayer(ctx context.Context, db bun.IDB, player *ratingdb.Player) error {
	f.record("InsertPlayer")
	if f.InsertPlayerFunc != nil {
		return f.InsertPlayerFunc(ctx, db, player)
	}
	return nil
}

func (f *FakeRatingRepo) UpdatePlayers(ctx context.Context, db bun.IDB, players []*ratingdb.Player) error {
	f.record("UpdatePlayers")
	if f.UpdatePlayersFunc != nil {
		return f.UpdatePlayersFunc(ctx, db, players)
	}
	return nil
}

func (f *FakeRatingRepo) DeleteAllPlayers(ctx context.Context, db bun.IDB) (int, error) {
	f.record("DeleteAllPlayers")
	if f.DeleteAllPlayersFunc != nil {
		return f.DeleteAllPlayersFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeRatingRepo) GetSettings(ctx context.Context, db bun.IDB) (*ratingdb.Settings, error) {
	f.record("GetSettings")
	if f.GetSettingsFunc != nil {
		return f.GetSettingsFunc(ctx, db)
	}
	return nil, ratingdb.ErrNotFound
}

func (f *FakeRatingRepo) SaveSettings(ctx context.Context, db bun.IDB, settings *ratingdb.Settings) error {
	f.record("SaveSettings")
	if f.SaveSettingsFunc != nil {
		return f.SaveSettingsFunc(ctx, db, settings)
	}
	return nil
}

func (f *FakeRatingRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ ratingdb.Repository = (*FakeRatingRepo)(nil)

func intPtr(v int) *int { return &v }

func rowFor(p ratingdomain.Player) *ratingdb.Player {
	return ratingdb.PlayerFromDomain(p)
}
