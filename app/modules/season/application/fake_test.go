package seasonservice

import (
	"context"
	"time"

	seasondb "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Season Repo
// ------------------------

// FakeSeasonRepo keeps seasons in memory unless a Func override is set.
type FakeSeasonRepo struct {
	trace   []string
	seasons []*seasondb.Season

	GetOpenSeasonFunc func(ctx context.Context, db bun.IDB) (*seasondb.Season, error)
	InsertSeasonFunc  func(ctx context.Context, db bun.IDB, season *seasondb.Season) error
	UpdateSeasonFunc  func(ctx context.Context, db bun.IDB, season *seasondb.Season) error
}

func NewFakeSeasonRepo(seasons ...*seasondb.Season) *FakeSeasonRepo {
	return &FakeSeasonRepo{trace: []string{}, seasons: seasons}
}

func (f *FakeSeasonRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeSeasonRepo) Trace() []string { return f.trace }

func (f *FakeSeasonRepo) open() (*seasondb.Season, error) {
	for _, s := range f.seasons {
		if s.EndDate == nil {
			return s, nil
		}
	}
	return nil, seasondb.ErrNotFound
}

func (f *FakeSeasonRepo) GetOpenSeason(ctx context.Context, db bun.IDB) (*seasondb.Season, error) {
	f.record("GetOpenSeason")
	if f.GetOpenSeasonFunc != nil {
		return f.GetOpenSeasonFunc(ctx, db)
	}
	return f.open()
}

func (f *FakeSeasonRepo) LockOpenSeason(ctx context.Context, db bun.IDB) (*seasondb.Season, error) {
	f.record("LockOpenSeason")
	if f.GetOpenSeasonFunc != nil {
		return f.GetOpenSeasonFunc(ctx, db)
	}
	return f.open()
}

func (f *FakeSeasonRepo) GetSeason(_ context.Context, _ bun.IDB, id string) (*seasondb.Season, error) {
	f.record("GetSeason")
	for _, s := range f.seasons {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, seasondb.ErrNotFound
}

func (f *FakeSeasonRepo) ListSeasons(context.Context, bun.IDB) ([]*seasondb.Season, error) {
	f.record("ListSeasons")
	out := make([]*seasondb.Season, len(f.seasons))
	for i, s := range f.seasons {
		out[len(f.seasons)-1-i] = s
	}
	return out, nil
}

func (f *FakeSeasonRepo) InsertSeason(ctx context.Context, db bun.IDB, season *seasondb.Season) error {
	f.record("InsertSeason")
	if f.InsertSeasonFunc != nil {
		return f.InsertSeasonFunc(ctx, db, season)
	}
	f.seasons = append(f.seasons, season)
	return nil
}

func (f *FakeSeasonRepo) UpdateSeason(ctx context.Context, db bun.IDB, season *seasondb.Season) error {
	f.record("UpdateSeason")
	if f.UpdateSeasonFunc != nil {
		return f.UpdateSeasonFunc(ctx, db, season)
	}
	for i, s := range f.seasons {
		if s.ID == season.ID {
			f.seasons[i] = season
			return nil
		}
	}
	return seasondb.ErrNotFound
}

var _ seasondb.Repository = (*FakeSeasonRepo)(nil)

// ------------------------
// Fake Rating Lookup
// ------------------------

type FakeRatingLookup struct {
	Ratings map[string]float64
	Err     error

	RatingLookupFunc func(ctx context.Context) (map[string]float64, error)
}

func (f *FakeRatingLookup) RatingLookup(ctx context.Context) (map[string]float64, error) {
	if f.RatingLookupFunc != nil {
		return f.RatingLookupFunc(ctx)
	}
	return f.Ratings, f.Err
}

// ------------------------
// Fixed Clock
// ------------------------

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
