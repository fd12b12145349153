package matchhandlers

import (
	"context"

	matchservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	matchqueue "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/queue"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
)

type FakeService struct {
	ReportMatchFunc   func(ctx context.Context, m seasondomain.MatchResult) (matchdomain.ReportOutcome, error)
	RecentMatchesFunc func(ctx context.Context, tag string, limit int) ([]matchdomain.MatchRecord, error)
	reported          []seasondomain.MatchResult
}

var _ matchservice.Service = (*FakeService)(nil)

func (f *FakeService) ReportMatch(ctx context.Context, m seasondomain.MatchResult) (matchdomain.ReportOutcome, error) {
	f.reported = append(f.reported, m)
	if f.ReportMatchFunc != nil {
		return f.ReportMatchFunc(ctx, m)
	}
	return matchdomain.ReportOutcome{Outcome: seasondomain.OutcomeRecorded, MatchID: "m1", SeasonID: "s1"}, nil
}

func (f *FakeService) ImportTournament(context.Context, matchdomain.ImportBatch) (matchdomain.ImportSummary, error) {
	return matchdomain.ImportSummary{}, nil
}

func (f *FakeService) RecentMatches(ctx context.Context, tag string, limit int) ([]matchdomain.MatchRecord, error) {
	if f.RecentMatchesFunc != nil {
		return f.RecentMatchesFunc(ctx, tag, limit)
	}
	return nil, nil
}

func (f *FakeService) RenderRatingHistoryChart(context.Context, string) ([]byte, error) {
	return nil, nil
}

type FakeQueue struct {
	EnqueueImportFunc func(ctx context.Context, args matchqueue.TournamentImportArgs) (matchqueue.JobInfo, error)
	enqueued          []matchqueue.TournamentImportArgs
}

func (f *FakeQueue) EnqueueImport(ctx context.Context, args matchqueue.TournamentImportArgs) (matchqueue.JobInfo, error) {
	f.enqueued = append(f.enqueued, args)
	if f.EnqueueImportFunc != nil {
		return f.EnqueueImportFunc(ctx, args)
	}
	return matchqueue.JobInfo{ID: 11, Kind: args.Kind(), Queue: matchqueue.QueueImports}, nil
}
