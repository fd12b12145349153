package matchservice

import (
	"context"

	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
)

// Service defines the contract for match reporting.
type Service interface {
	ReportMatch(ctx context.Context, m seasondomain.MatchResult) (matchdomain.ReportOutcome, error)
	ImportTournament(ctx context.Context, batch matchdomain.ImportBatch) (matchdomain.ImportSummary, error)
	RecentMatches(ctx context.Context, tag string, limit int) ([]matchdomain.MatchRecord, error)
	RenderRatingHistoryChart(ctx context.Context, tag string) ([]byte, error)
}

var _ Service = (*MatchService)(nil)
