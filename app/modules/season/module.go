package season

import (
	"context"
	"fmt"
	"time"

	seasonservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/application"
	seasonhandlers "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/handlers"
	seasondb "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/repositories"
	seasonrouter "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/router"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the season module.
type Module struct {
	Service      *seasonservice.SeasonService
	Repository   seasondb.Repository
	SeasonRouter *seasonrouter.SeasonRouter
	obs          observability.Observability
}

// NewSeasonModule wires the season module. ratings feeds strength of
// schedule and the snapshot taken when a season closes.
func NewSeasonModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
	ratings seasonservice.RatingLookup,
	loc *time.Location,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "season.NewSeasonModule initializing")

	repo := seasondb.NewRepository(db)
	service := seasonservice.NewSeasonService(repo, ratings, logger, obs.Metrics, tracer, db, loc)
	handlers := seasonhandlers.NewSeasonHandlers(service, logger, tracer)

	seasonRouter := seasonrouter.NewSeasonRouter(logger, router, eventBus, tracer)
	if err := seasonRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure season router: %w", err)
	}

	return &Module{
		Service:      service,
		Repository:   repo,
		SeasonRouter: seasonRouter,
		obs:          obs,
	}, nil
}

// Close shuts down the season module.
func (m *Module) Close() error {
	m.obs.Logger.Info("Stopping season module")
	if m.SeasonRouter != nil {
		if err := m.SeasonRouter.Close(); err != nil {
			return fmt.Errorf("error closing SeasonRouter: %w", err)
		}
	}
	return nil
}
