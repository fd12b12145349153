package ratinghandlers

import (
	"context"

	ratingservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/application"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
)

type FakeService struct {
	GetPlayerFunc          func(ctx context.Context, tag string) (ratingdomain.Player, error)
	RegisterPlayerFunc     func(ctx context.Context, tag string, discordID *string) (ratingdomain.Player, error)
	LinkDiscordAccountFunc func(ctx context.Context, tag, discordID string) (ratingdomain.Player, error)
	ListRankingsFunc       func(ctx context.Context) ([]ratingdomain.RankedPlayer, error)
	ResetRosterFunc        func(ctx context.Context) (int, error)
	SwitchSystemFunc       func(ctx context.Context, id string) (ratingdomain.Settings, error)
	UpdateEloParamsFunc    func(ctx context.Context, params ratingdomain.EloParams) (ratingdomain.Settings, error)
	UpdateSkillParamsFunc  func(ctx context.Context, params ratingdomain.SkillParams) (ratingdomain.Settings, error)

	CurrentSettings ratingdomain.Settings
}

func (f *FakeService) GetPlayer(ctx context.Context, tag string) (ratingdomain.Player, error) {
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, tag)
	}
	return ratingdomain.Player{}, ratingdomain.ErrPlayerNotFound
}

func (f *FakeService) RegisterPlayer(ctx context.Context, tag string, discordID *string) (ratingdomain.Player, error) {
	if f.RegisterPlayerFunc != nil {
		return f.RegisterPlayerFunc(ctx, tag, discordID)
	}
	return ratingdomain.Player{Tag: tag, DiscordID: discordID}, nil
}

func (f *FakeService) LinkDiscordAccount(ctx context.Context, tag, discordID string) (ratingdomain.Player, error) {
	if f.LinkDiscordAccountFunc != nil {
		return f.LinkDiscordAccountFunc(ctx, tag, discordID)
	}
	return ratingdomain.Player{Tag: tag, DiscordID: &discordID}, nil
}

func (f *FakeService) ListRankings(ctx context.Context) ([]ratingdomain.RankedPlayer, error) {
	if f.ListRankingsFunc != nil {
		return f.ListRankingsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) ResetRoster(ctx context.Context) (int, error) {
	if f.ResetRosterFunc != nil {
		return f.ResetRosterFunc(ctx)
	}
	return 0, nil
}

func (f *FakeService) Settings() ratingdomain.Settings { return f.CurrentSettings }

func (f *FakeService) SwitchSystem(ctx context.Context, id string) (ratingdomain.Settings, error) {
	if f.SwitchSystemFunc != nil {
		return f.SwitchSystemFunc(ctx, id)
	}
	return f.CurrentSettings, nil
}

func (f *FakeService) UpdateEloParams(ctx context.Context, params ratingdomain.EloParams) (ratingdomain.Settings, error) {
	if f.UpdateEloParamsFunc != nil {
		return f.UpdateEloParamsFunc(ctx, params)
	}
	return f.CurrentSettings, nil
}

func (f *FakeService) UpdateSkillParams(ctx context.Context, params ratingdomain.SkillParams) (ratingdomain.Settings, error) {
	if f.UpdateSkillParamsFunc != nil {
		return f.UpdateSkillParamsFunc(ctx, params)
	}
	return f.CurrentSettings, nil
}

var _ ratingservice.Service = (*FakeService)(nil)
