package seasonhandlers

import (
	"context"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	seasonservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/application"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
)

type FakeService struct {
	StartSeasonFunc      func(ctx context.Context, name, startsAt string) (seasondomain.Summary, error)
	EndSeasonFunc        func(ctx context.Context) (*seasondomain.Season, error)
	SeasonRankingsFunc   func(ctx context.Context, seasonID string) (seasonservice.Standings, error)
	AddTournamentFunc    func(ctx context.Context, name string, importance ratingdomain.Importance) (*seasondomain.Season, error)
	RemoveTournamentFunc func(ctx context.Context, name string) (*seasondomain.Season, error)
}

var _ seasonservice.Service = (*FakeService)(nil)

func (f *FakeService) StartSeason(ctx context.Context, name, startsAt string) (seasondomain.Summary, error) {
	if f.StartSeasonFunc != nil {
		return f.StartSeasonFunc(ctx, name, startsAt)
	}
	return seasondomain.Summary{ID: "s1", Name: name, Open: true}, nil
}

func (f *FakeService) EndSeason(ctx context.Context) (*seasondomain.Season, error) {
	if f.EndSeasonFunc != nil {
		return f.EndSeasonFunc(ctx)
	}
	return nil, seasondomain.ErrNoActiveSeason
}

func (f *FakeService) GetCurrentSeason(context.Context) (*seasondomain.Season, error) {
	return nil, seasondomain.ErrNoActiveSeason
}

func (f *FakeService) GetSeason(context.Context, string) (*seasondomain.Season, error) {
	return nil, seasondomain.ErrSeasonNotFound
}

func (f *FakeService) ListSeasons(context.Context) ([]seasondomain.Summary, error) {
	return nil, nil
}

func (f *FakeService) SeasonRankings(ctx context.Context, seasonID string) (seasonservice.Standings, error) {
	if f.SeasonRankingsFunc != nil {
		return f.SeasonRankingsFunc(ctx, seasonID)
	}
	return seasonservice.Standings{}, seasondomain.ErrNoActiveSeason
}

func (f *FakeService) AddTournament(ctx context.Context, name string, importance ratingdomain.Importance) (*seasondomain.Season, error) {
	if f.AddTournamentFunc != nil {
		return f.AddTournamentFunc(ctx, name, importance)
	}
	return nil, seasondomain.ErrNoActiveSeason
}

func (f *FakeService) RemoveTournament(ctx context.Context, name string) (*seasondomain.Season, error) {
	if f.RemoveTournamentFunc != nil {
		return f.RemoveTournamentFunc(ctx, name)
	}
	return nil, seasondomain.ErrNoActiveSeason
}

func (f *FakeService) HeadToHead(context.Context, string, string, string) (seasondomain.HeadToHeadRecord, error) {
	return seasondomain.HeadToHeadRecord{}, nil
}

func (f *FakeService) ExportSeasonRankings(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (f *FakeService) RenderSeasonChart(context.Context, string) ([]byte, error) {
	return nil, nil
}
