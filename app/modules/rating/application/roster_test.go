package ratingservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	ratingdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestRoster(t *testing.T, repo *FakeRatingRepo) *Roster {
	t.Helper()
	return NewRoster(repo, newTestManager(t, repo), slog.Default(), observability.NewNoop(), nil, nil)
}

func TestRoster_GetPlayer(t *testing.T) {
	tests := []struct {
		name      string
		setupRepo func(*FakeRatingRepo)
		wantTag   string
		wantErr   error
		wantAnErr bool
	}{
		{
			name: "found",
			setupRepo: func(f *FakeRatingRepo) {
				f.GetPlayerByTagFunc = func(_ context.Context, _ bun.IDB, tag string) (*ratingdb.Player, error) {
					return rowFor(ratingdomain.Player{Tag: "Zain", EloScore: intPtr(1200)}), nil
				}
			},
			wantTag: "Zain",
		},
		{
			name:      "missing",
			setupRepo: func(*FakeRatingRepo) {},
			wantErr:   ratingdomain.ErrPlayerNotFound,
			wantAnErr: true,
		},
		{
			name: "database error",
			setupRepo: func(f *FakeRatingRepo) {
				f.GetPlayerByTagFunc = func(context.Context, bun.IDB, string) (*ratingdb.Player, error) {
					return nil, errors.New("connection reset")
				}
			},
			wantAnErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRatingRepo()
			tt.setupRepo(repo)
			roster := newTestRoster(t, repo)

			player, err := roster.GetPlayer(context.Background(), "zain")
			if tt.wantAnErr {
				assert.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTag, player.Tag)
		})
	}
}

func TestRoster_RegisterPlayer(t *testing.T) {
	discordID := "123456789012345678"

	tests := []struct {
		name      string
		tag       string
		setupRepo func(*FakeRatingRepo)
		wantErr   error
		wantTrace []string
	}{
		{
			name:      "new player gets the default rating",
			tag:       "  Hungrybox ",
			setupRepo: func(*FakeRatingRepo) {},
			wantTrace: []string{"GetPlayerByTag", "InsertPlayer"},
		},
		{
			name: "existing tag",
			tag:  "hungrybox",
			setupRepo: func(f *FakeRatingRepo) {
				f.GetPlayerByTagFunc = func(context.Context, bun.IDB, string) (*ratingdb.Player, error) {
					return rowFor(ratingdomain.Player{Tag: "Hungrybox"}), nil
				}
			},
			wantErr:   ratingdomain.ErrPlayerExists,
			wantTrace: []string{"GetPlayerByTag"},
		},
		{
			name: "lost insert race",
			tag:  "hungrybox",
			setupRepo: func(f *FakeRatingRepo) {
				f.InsertPlayerFunc = func(context.Context, bun.IDB, *ratingdb.Player) error {
					return ratingdb.ErrDuplicateTag
				}
			},
			wantErr:   ratingdomain.ErrPlayerExists,
			wantTrace: []string{"GetPlayerByTag", "InsertPlayer"},
		},
		{
			name:      "blank tag",
			tag:       "   ",
			setupRepo: func(*FakeRatingRepo) {},
			wantErr:   ratingdomain.ErrInvalidTag,
			wantTrace: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRatingRepo()
			tt.setupRepo(repo)
			roster := newTestRoster(t, repo)

			player, err := roster.RegisterPlayer(context.Background(), tt.tag, &discordID)
			assert.Equal(t, tt.wantTrace, repo.Trace())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Hungrybox", player.Tag)
			assert.Equal(t, 1000, *player.EloScore)
			assert.Nil(t, player.SkillRating)
			assert.Equal(t, &discordID, player.DiscordID)
			assert.Zero(t, player.MatchesPlayed)
		})
	}
}

func TestRoster_LinkDiscordAccount(t *testing.T) {
	repo := NewFakeRatingRepo()
	repo.GetPlayerByTagFunc = func(context.Context, bun.IDB, string) (*ratingdb.Player, error) {
		return rowFor(ratingdomain.Player{Tag: "Plup", MatchesPlayed: 3, Wins: 3, EloScore: intPtr(1040)}), nil
	}
	var updated []*ratingdb.Player
	repo.UpdatePlayersFunc = func(_ context.Context, _ bun.IDB, players []*ratingdb.Player) error {
		updated = players
		return nil
	}
	roster := newTestRoster(t, repo)

	player, err := roster.LinkDiscordAccount(context.Background(), "plup", "42")
	require.NoError(t, err)
	require.NotNil(t, player.DiscordID)
	assert.Equal(t, "42", *player.DiscordID)
	require.Len(t, updated, 1)
	assert.Equal(t, 3, updated[0].Wins)
}

func TestRoster_ListRankingsAndLookup(t *testing.T) {
	faker := gofakeit.New(7)
	rows := make([]*ratingdb.Player, 0, 20)
	for i := 0; i < 20; i++ {
		wins := faker.IntRange(0, 10)
		losses := faker.IntRange(0, 10)
		p := ratingdomain.Player{
			Tag:           faker.Username() + string(rune('a'+i)),
			MatchesPlayed: wins + losses,
			Wins:          wins,
			Losses:        losses,
			EloScore:      intPtr(faker.IntRange(800, 1600)),
		}
		rows = append(rows, rowFor(p))
	}
	rows = append(rows, rowFor(ratingdomain.Player{Tag: "skill-only", MatchesPlayed: 1, Wins: 1, SkillRating: &ratingdomain.SkillRating{Mean: 30, Uncertainty: 3}}))

	repo := NewFakeRatingRepo()
	repo.ListPlayersFunc = func(context.Context, bun.IDB) ([]*ratingdb.Player, error) {
		return rows, nil
	}
	roster := newTestRoster(t, repo)

	ranked, err := roster.ListRankings(context.Background())
	require.NoError(t, err)
	for i, r := range ranked {
		assert.Greater(t, r.MatchesPlayed, 0)
		assert.Equal(t, r.Wins+r.Losses, r.MatchesPlayed)
		assert.Equal(t, i+1, r.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, roster.Manager().ActiveSystem().RatingValue(ranked[i-1].Player), roster.Manager().ActiveSystem().RatingValue(r.Player))
		}
	}

	lookup, err := roster.RatingLookup(context.Background())
	require.NoError(t, err)
	assert.Len(t, lookup, 20)
	_, ok := lookup["skill-only"]
	assert.False(t, ok, "players without an elo rating are unrated under elo")
}

func TestRoster_ResetRoster(t *testing.T) {
	repo := NewFakeRatingRepo()
	repo.DeleteAllPlayersFunc = func(context.Context, bun.IDB) (int, error) { return 12, nil }
	roster := newTestRoster(t, repo)

	n, err := roster.ResetRoster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, []string{"DeleteAllPlayers"}, repo.Trace())
}
