package seasonservice

import (
	"context"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
)

// Service defines the contract for season operations.
type Service interface {
	StartSeason(ctx context.Context, name, startsAt string) (seasondomain.Summary, error)
	EndSeason(ctx context.Context) (*seasondomain.Season, error)
	GetCurrentSeason(ctx context.Context) (*seasondomain.Season, error)
	GetSeason(ctx context.Context, id string) (*seasondomain.Season, error)
	ListSeasons(ctx context.Context) ([]seasondomain.Summary, error)
	SeasonRankings(ctx context.Context, seasonID string) (Standings, error)
	AddTournament(ctx context.Context, name string, importance ratingdomain.Importance) (*seasondomain.Season, error)
	RemoveTournament(ctx context.Context, name string) (*seasondomain.Season, error)
	HeadToHead(ctx context.Context, seasonID, a, b string) (seasondomain.HeadToHeadRecord, error)
	ExportSeasonRankings(ctx context.Context, seasonID string) ([]byte, error)
	RenderSeasonChart(ctx context.Context, seasonID string) ([]byte, error)
}

var _ Service = (*SeasonService)(nil)
