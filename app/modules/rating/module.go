package rating

import (
	"context"
	"fmt"

	ratingservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/application"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	ratinghandlers "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/handlers"
	ratingdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories"
	ratingrouter "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/router"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the rating module.
type Module struct {
	Service      *ratingservice.RatingService
	Roster       *ratingservice.Roster
	Manager      *ratingservice.RatingManager
	Repository   ratingdb.Repository
	RatingRouter *ratingrouter.RatingRouter
	obs          observability.Observability
}

// NewRatingModule wires the rating module and loads the persisted settings.
func NewRatingModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
	defaults ratingdomain.Settings,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "rating.NewRatingModule initializing")

	repo := ratingdb.NewRepository(db)

	manager, err := ratingservice.NewRatingManager(repo, logger, obs.Metrics, tracer, db, defaults)
	if err != nil {
		return nil, err
	}
	if _, err := manager.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load rating settings: %w", err)
	}

	roster := ratingservice.NewRoster(repo, manager, logger, obs.Metrics, tracer, db)
	service := ratingservice.NewRatingService(roster)

	handlers := ratinghandlers.NewRatingHandlers(service, logger, tracer)

	ratingRouter := ratingrouter.NewRatingRouter(logger, router, eventBus, tracer)
	if err := ratingRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure rating router: %w", err)
	}

	return &Module{
		Service:      service,
		Roster:       roster,
		Manager:      manager,
		Repository:   repo,
		RatingRouter: ratingRouter,
		obs:          obs,
	}, nil
}

// Close shuts down the rating module.
func (m *Module) Close() error {
	m.obs.Logger.Info("Stopping rating module")
	if m.RatingRouter != nil {
		if err := m.RatingRouter.Close(); err != nil {
			return fmt.Errorf("error closing RatingRouter: %w", err)
		}
	}
	return nil
}
