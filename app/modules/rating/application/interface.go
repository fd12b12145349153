package ratingservice

import (
	"context"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
)

// Service is what the transport layer needs from the rating module.
type Service interface {
	GetPlayer(ctx context.Context, tag string) (ratingdomain.Player, error)
	RegisterPlayer(ctx context.Context, tag string, discordID *string) (ratingdomain.Player, error)
	LinkDiscordAccount(ctx context.Context, tag, discordID string) (ratingdomain.Player, error)
	ListRankings(ctx context.Context) ([]ratingdomain.RankedPlayer, error)
	ResetRoster(ctx context.Context) (int, error)

	Settings() ratingdomain.Settings
	SwitchSystem(ctx context.Context, id string) (ratingdomain.Settings, error)
	UpdateEloParams(ctx context.Context, params ratingdomain.EloParams) (ratingdomain.Settings, error)
	UpdateSkillParams(ctx context.Context, params ratingdomain.SkillParams) (ratingdomain.Settings, error)
}

// RatingService joins the roster and the manager behind Service.
type RatingService struct {
	*Roster
}

var _ Service = (*RatingService)(nil)

// NewRatingService wraps a roster.
func NewRatingService(roster *Roster) *RatingService {
	return &RatingService{Roster: roster}
}

func (s *RatingService) Settings() ratingdomain.Settings { return s.manager.Settings() }

func (s *RatingService) SwitchSystem(ctx context.Context, id string) (ratingdomain.Settings, error) {
	return s.manager.SwitchSystem(ctx, id)
}

func (s *RatingService) UpdateEloParams(ctx context.Context, params ratingdomain.EloParams) (ratingdomain.Settings, error) {
	return s.manager.UpdateEloParams(ctx, params)
}

func (s *RatingService) UpdateSkillParams(ctx context.Context, params ratingdomain.SkillParams) (ratingdomain.Settings, error) {
	return s.manager.UpdateSkillParams(ctx, params)
}
