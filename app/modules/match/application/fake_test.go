package matchservice

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	matchdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/repositories"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	ratingdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories"
	seasondb "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// callTrace is shared by the fakes so tests can assert the order of
// repository calls across modules.
type callTrace struct {
	mu    sync.Mutex
	steps []string
}

func (t *callTrace) record(step string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, step)
}

func (t *callTrace) Steps() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.steps)
}

func (t *callTrace) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = nil
}

// ------------------------
// Fake Player Repo
// ------------------------

type FakePlayerRepo struct {
	trace  *callTrace
	mu     sync.Mutex
	nextID int64
	rows   map[string]ratingdb.Player

	UpdatePlayersFunc func(ctx context.Context, db bun.IDB, players []*ratingdb.Player) error
}

var _ ratingdb.Repository = (*FakePlayerRepo)(nil)

func NewFakePlayerRepo(trace *callTrace, players ...ratingdomain.Player) *FakePlayerRepo {
	f := &FakePlayerRepo{trace: trace, rows: map[string]ratingdb.Player{}}
	for _, p := range players {
		f.nextID++
		row := ratingdb.PlayerFromDomain(p)
		row.ID = f.nextID
		f.rows[row.TagKey] = *row
	}
	return f
}

func (f *FakePlayerRepo) Get(tag string) (ratingdomain.Player, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[ratingdomain.NormalizeTag(tag)]
	return row.ToDomain(), ok
}

func (f *FakePlayerRepo) GetPlayerByTag(_ context.Context, _ bun.IDB, tag string) (*ratingdb.Player, error) {
	f.trace.record("GetPlayerByTag")
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[ratingdomain.NormalizeTag(tag)]
	if !ok {
		return nil, ratingdb.ErrNotFound
	}
	return &row, nil
}

func (f *FakePlayerRepo) GetPlayersByTagsForUpdate(_ context.Context, _ bun.IDB, tags []string) ([]*ratingdb.Player, error) {
	f.trace.record("GetPlayersByTagsForUpdate")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*ratingdb.Player
	for _, tag := range tags {
		if row, ok := f.rows[ratingdomain.NormalizeTag(tag)]; ok {
			out = append(out, &row)
		}
	}
	return out, nil
}

func (f *FakePlayerRepo) ListPlayers(context.Context, bun.IDB) ([]*ratingdb.Player, error) {
	f.trace.record("ListPlayers")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*ratingdb.Player
	for _, row := range f.rows {
		out = append(out, &row)
	}
	return out, nil
}

func (f *FakePlayerRepo) InsertPlayer(_ context.Context, _ bun.IDB, player *ratingdb.Player) error {
	f.trace.record("InsertPlayer")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[player.TagKey]; ok {
		return ratingdb.ErrDuplicateTag
	}
	f.nextID++
	player.ID = f.nextID
	f.rows[player.TagKey] = *player
	return nil
}

func (f *FakePlayerRepo) UpdatePlayers(ctx context.Context, db bun.IDB, players []*ratingdb.Player) error {
	f.trace.record("UpdatePlayers")
	if f.UpdatePlayersFunc != nil {
		return f.UpdatePlayersFunc(ctx, db, players)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range players {
		f.rows[p.TagKey] = *p
	}
	return nil
}

func (f *FakePlayerRepo) DeleteAllPlayers(context.Context, bun.IDB) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.rows)
	f.rows = map[string]ratingdb.Player{}
	return n, nil
}

func (f *FakePlayerRepo) GetSettings(context.Context, bun.IDB) (*ratingdb.Settings, error) {
	return nil, ratingdb.ErrNotFound
}

func (f *FakePlayerRepo) SaveSettings(context.Context, bun.IDB, *ratingdb.Settings) error {
	return nil
}

// ------------------------
// Fake Season Repo
// ------------------------

// FakeSeasonRepo hands out deep copies, so changes only stick through UpdateSeason.
type FakeSeasonRepo struct {
	trace *callTrace
	mu    sync.Mutex
	open  *seasondb.Season

	UpdateSeasonFunc func(ctx context.Context, db bun.IDB, season *seasondb.Season) error
}

var _ seasondb.Repository = (*FakeSeasonRepo)(nil)

func NewFakeSeasonRepo(trace *callTrace, open *seasondb.Season) *FakeSeasonRepo {
	return &FakeSeasonRepo{trace: trace, open: open}
}

func cloneSeason(s *seasondb.Season) *seasondb.Season {
	data, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	var out seasondb.Season
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}

func (f *FakeSeasonRepo) Current() *seasondb.Season {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.open == nil {
		return nil
	}
	return cloneSeason(f.open)
}

func (f *FakeSeasonRepo) GetOpenSeason(context.Context, bun.IDB) (*seasondb.Season, error) {
	f.trace.record("GetOpenSeason")
	if cur := f.Current(); cur != nil {
		return cur, nil
	}
	return nil, seasondb.ErrNotFound
}

func (f *FakeSeasonRepo) LockOpenSeason(context.Context, bun.IDB) (*seasondb.Season, error) {
	f.trace.record("LockOpenSeason")
	if cur := f.Current(); cur != nil {
		return cur, nil
	}
	return nil, seasondb.ErrNotFound
}

func (f *FakeSeasonRepo) GetSeason(_ context.Context, _ bun.IDB, id string) (*seasondb.Season, error) {
	if cur := f.Current(); cur != nil && cur.ID == id {
		return cur, nil
	}
	return nil, seasondb.ErrNotFound
}

func (f *FakeSeasonRepo) ListSeasons(context.Context, bun.IDB) ([]*seasondb.Season, error) {
	if cur := f.Current(); cur != nil {
		return []*seasondb.Season{cur}, nil
	}
	return nil, nil
}

func (f *FakeSeasonRepo) InsertSeason(_ context.Context, _ bun.IDB, season *seasondb.Season) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = cloneSeason(season)
	return nil
}

func (f *FakeSeasonRepo) UpdateSeason(ctx context.Context, db bun.IDB, season *seasondb.Season) error {
	f.trace.record("UpdateSeason")
	if f.UpdateSeasonFunc != nil {
		return f.UpdateSeasonFunc(ctx, db, season)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = cloneSeason(season)
	return nil
}

// ------------------------
// Fake Match Repo
// ------------------------

type FakeMatchRepo struct {
	trace   *callTrace
	mu      sync.Mutex
	matches []*matchdb.Match

	ExistsByMatchIDFunc func(ctx context.Context, db bun.IDB, matchID string) (bool, error)
}

var _ matchdb.Repository = (*FakeMatchRepo)(nil)

func NewFakeMatchRepo(trace *callTrace) *FakeMatchRepo {
	return &FakeMatchRepo{trace: trace}
}

func (f *FakeMatchRepo) All() []*matchdb.Match {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.matches)
}

func (f *FakeMatchRepo) InsertMatch(_ context.Context, _ bun.IDB, match *matchdb.Match) error {
	f.trace.record("InsertMatch")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if m.MatchID == match.MatchID {
			return matchdb.ErrDuplicateMatch
		}
	}
	match.ID = int64(len(f.matches) + 1)
	f.matches = append(f.matches, match)
	return nil
}

func (f *FakeMatchRepo) ListMatchesForPlayer(_ context.Context, _ bun.IDB, tag string, limit int) ([]*matchdb.Match, error) {
	f.trace.record("ListMatchesForPlayer")
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ratingdomain.NormalizeTag(tag)
	var out []*matchdb.Match
	for _, m := range slices.Backward(f.matches) {
		if m.WinnerKey == key || m.LoserKey == key {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *FakeMatchRepo) ExistsByMatchID(ctx context.Context, db bun.IDB, matchID string) (bool, error) {
	f.trace.record("ExistsByMatchID")
	if f.ExistsByMatchIDFunc != nil {
		return f.ExistsByMatchIDFunc(ctx, db, matchID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if m.MatchID == matchID {
			return true, nil
		}
	}
	return false, nil
}
