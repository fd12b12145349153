package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	seasonservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/application"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoster struct {
	ranked  []ratingdomain.RankedPlayer
	players map[string]ratingdomain.Player
	err     error
}

func (f *fakeRoster) ListRankings(context.Context) ([]ratingdomain.RankedPlayer, error) {
	return f.ranked, f.err
}

func (f *fakeRoster) GetPlayer(_ context.Context, tag string) (ratingdomain.Player, error) {
	p, ok := f.players[ratingdomain.NormalizeTag(tag)]
	if !ok {
		return ratingdomain.Player{}, ratingdomain.ErrPlayerNotFound
	}
	return p, nil
}

type fakeSettings struct{}

func (fakeSettings) Settings() ratingdomain.Settings { return ratingdomain.DefaultSettings() }

type fakeSeasons struct {
	standings map[string]seasonservice.Standings
	h2h       seasondomain.HeadToHeadRecord
	gotSeason string
}

func (f *fakeSeasons) ListSeasons(context.Context) ([]seasondomain.Summary, error) {
	out := []seasondomain.Summary{}
	for _, s := range f.standings {
		out = append(out, s.Season)
	}
	return out, nil
}

func (f *fakeSeasons) SeasonRankings(_ context.Context, id string) (seasonservice.Standings, error) {
	s, ok := f.standings[id]
	if !ok {
		return seasonservice.Standings{}, seasondomain.ErrSeasonNotFound
	}
	return s, nil
}

func (f *fakeSeasons) HeadToHead(_ context.Context, seasonID, _, _ string) (seasondomain.HeadToHeadRecord, error) {
	f.gotSeason = seasonID
	return f.h2h, nil
}

func (f *fakeSeasons) ExportSeasonRankings(_ context.Context, id string) ([]byte, error) {
	if _, ok := f.standings[id]; !ok {
		return nil, seasondomain.ErrSeasonNotFound
	}
	return []byte("PK\x03\x04"), nil
}

func (f *fakeSeasons) RenderSeasonChart(context.Context, string) ([]byte, error) {
	return []byte("\x89PNG"), nil
}

type fakeMatches struct {
	gotLimit int
	err      error
}

func (f *fakeMatches) RecentMatches(_ context.Context, tag string, limit int) ([]matchdomain.MatchRecord, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []matchdomain.MatchRecord{{MatchID: "m1", WinnerTag: tag, LoserTag: "b"}}, nil
}

func (f *fakeMatches) RenderRatingHistoryChart(context.Context, string) ([]byte, error) {
	return []byte("\x89PNG"), nil
}

func intPtr(v int) *int { return &v }

func ranking(rank int, tag string) seasondomain.SeasonRanking {
	return seasondomain.SeasonRanking{PlayerSeasonStat: seasondomain.PlayerSeasonStat{Tag: tag}, Rank: rank}
}

func newTestAPI(t *testing.T, matches *fakeMatches, seasons *fakeSeasons) http.Handler {
	t.Helper()
	roster := &fakeRoster{
		ranked: []ratingdomain.RankedPlayer{
			{Player: ratingdomain.Player{Tag: "Zain", EloScore: intPtr(1100), MatchesPlayed: 3}, Rank: 1, DisplayRating: "1100"},
			{Player: ratingdomain.Player{Tag: "Cody", EloScore: intPtr(1050), MatchesPlayed: 2}, Rank: 2, DisplayRating: "1050"},
		},
		players: map[string]ratingdomain.Player{"zain": {Tag: "Zain", EloScore: intPtr(1100)}},
	}
	return NewRouter(Deps{
		Roster:   roster,
		Settings: fakeSettings{},
		Seasons:  seasons,
		Matches:  matches,
		Gatherer: prometheus.NewRegistry(),
	}, slog.Default(), Options{RequestsPerSecond: 1000, Burst: 1000})
}

func do(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Endpoints(t *testing.T) {
	seasons := &fakeSeasons{
		standings: map[string]seasonservice.Standings{
			"current": {
				Season: seasondomain.Summary{ID: "s1", Name: "Spring", Open: true},
				Rankings: []seasondomain.SeasonRanking{
					ranking(1, "Zain"), ranking(2, "Cody"), ranking(3, "Mang0"),
				},
			},
		},
		h2h: seasondomain.HeadToHeadRecord{Players: [2]string{"Cody", "Zain"}, Matches: []seasondomain.HeadToHeadMatch{{Winner: "Zain", Loser: "Cody"}}},
	}
	h := newTestAPI(t, &fakeMatches{}, seasons)

	tests := []struct {
		name            string
		path            string
		wantStatus      int
		wantContentType string
	}{
		{name: "health", path: "/healthz", wantStatus: http.StatusOK, wantContentType: "application/json"},
		{name: "rankings", path: "/api/rankings", wantStatus: http.StatusOK, wantContentType: "application/json"},
		{name: "settings", path: "/api/rating/settings", wantStatus: http.StatusOK, wantContentType: "application/json"},
		{name: "player", path: "/api/players/zain", wantStatus: http.StatusOK, wantContentType: "application/json"},
		{name: "unknown player", path: "/api/players/nobody", wantStatus: http.StatusNotFound, wantContentType: "application/json"},
		{name: "player matches", path: "/api/players/zain/matches", wantStatus: http.StatusOK, wantContentType: "application/json"},
		{name: "player chart", path: "/api/players/zain/history.png", wantStatus: http.StatusOK, wantContentType: "image/png"},
		{name: "seasons", path: "/api/seasons", wantStatus: http.StatusOK, wantContentType: "application/json"},
		{name: "current season rankings", path: "/api/seasons/current/rankings", wantStatus: http.StatusOK, wantContentType: "application/json"},
		{name: "unknown season", path: "/api/seasons/nope/rankings", wantStatus: http.StatusNotFound, wantContentType: "application/json"},
		{name: "export", path: "/api/seasons/current/export.xlsx", wantStatus: http.StatusOK, wantContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{name: "season chart", path: "/api/seasons/current/chart.png", wantStatus: http.StatusOK, wantContentType: "image/png"},
		{name: "head to head", path: "/api/head-to-head?a=zain&b=cody", wantStatus: http.StatusOK, wantContentType: "application/json"},
		{name: "head to head missing player", path: "/api/head-to-head?a=zain", wantStatus: http.StatusBadRequest, wantContentType: "application/json"},
		{name: "metrics", path: "/metrics", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantContentType != "" {
				assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRouter_SeasonRankingsLimit(t *testing.T) {
	seasons := &fakeSeasons{standings: map[string]seasonservice.Standings{
		"s1": {
			Season:   seasondomain.Summary{ID: "s1"},
			Rankings: []seasondomain.SeasonRanking{ranking(1, "a"), ranking(2, "b"), ranking(3, "c")},
		},
	}}
	h := newTestAPI(t, &fakeMatches{}, seasons)

	rec := do(t, h, "/api/seasons/s1/rankings?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var got seasonservice.Standings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Rankings, 2)
	assert.Equal(t, "b", got.Rankings[1].Tag)
}

func TestRouter_HeadToHeadCountsWins(t *testing.T) {
	seasons := &fakeSeasons{h2h: seasondomain.HeadToHeadRecord{
		Players: [2]string{"Cody", "Zain"},
		Matches: []seasondomain.HeadToHeadMatch{
			{Winner: "Zain", Loser: "Cody"},
			{Winner: "Zain", Loser: "Cody"},
			{Winner: "Cody", Loser: "Zain"},
		},
	}}
	h := newTestAPI(t, &fakeMatches{}, seasons)

	rec := do(t, h, "/api/head-to-head?a=zain&b=cody&season=s9")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s9", seasons.gotSeason)

	var got struct {
		Wins map[string]int `json:"wins"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]int{"Zain": 2, "Cody": 1}, got.Wins)
}

func TestRouter_MatchHistoryErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "invalid tag", err: ratingdomain.ErrInvalidTag, wantStatus: http.StatusBadRequest, wantBody: ratingdomain.ErrInvalidTag.Error()},
		{name: "database error is hidden", err: errors.New("pq: connection refused"), wantStatus: http.StatusInternalServerError, wantBody: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := &fakeMatches{err: tt.err}
			h := newTestAPI(t, matches, &fakeSeasons{})

			rec := do(t, h, "/api/players/zain/matches?limit=5")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, 5, matches.gotLimit)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body["error"])
		})
	}
}

func TestRouter_RateLimited(t *testing.T) {
	h := NewRouter(Deps{
		Roster:   &fakeRoster{},
		Settings: fakeSettings{},
		Seasons:  &fakeSeasons{},
		Matches:  &fakeMatches{},
	}, slog.Default(), Options{RequestsPerSecond: 0.001, Burst: 2})

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(t, h, "/api/rankings").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Health checks are not rate limited.
	assert.Equal(t, http.StatusOK, do(t, h, "/healthz").Code)
}
