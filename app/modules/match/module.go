package match

import (
	"context"
	"errors"
	"fmt"

	matchservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	matchhandlers "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/handlers"
	matchqueue "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/queue"
	matchdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/repositories"
	matchrouter "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/router"
	ratingdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories"
	seasondb "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/repositories"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Dependencies are the repositories and rating engine owned by other modules.
type Dependencies struct {
	Players ratingdb.Repository
	Seasons seasondb.Repository
	Ratings matchservice.RatingCalculator
}

// Module represents the match module.
type Module struct {
	Service     *matchservice.MatchService
	Repository  matchdb.Repository
	Queue       *matchqueue.Service
	MatchRouter *matchrouter.MatchRouter
	obs         observability.Observability
}

// NewMatchModule wires match reporting and the background import queue.
func NewMatchModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
	deps Dependencies,
	policy matchdomain.Policy,
	queueCfg matchqueue.Config,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "match.NewMatchModule initializing")

	repo := matchdb.NewRepository(db)
	service := matchservice.NewMatchService(deps.Players, deps.Seasons, repo, deps.Ratings, policy, logger, obs.Metrics, tracer, db)

	queue, err := matchqueue.NewService(ctx, db, logger, queueCfg, obs.Metrics, eventBus, service)
	if err != nil {
		return nil, fmt.Errorf("failed to create match queue: %w", err)
	}

	handlers := matchhandlers.NewMatchHandlers(service, queue, logger, tracer)

	matchRouter := matchrouter.NewMatchRouter(logger, router, eventBus, tracer)
	if err := matchRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure match router: %w", err)
	}

	return &Module{
		Service:     service,
		Repository:  repo,
		Queue:       queue,
		MatchRouter: matchRouter,
		obs:         obs,
	}, nil
}

// Run starts the import queue.
func (m *Module) Run(ctx context.Context) error {
	return m.Queue.Start(ctx)
}

// Close stops the queue and the router.
func (m *Module) Close(ctx context.Context) error {
	m.obs.Logger.Info("Stopping match module")
	var errs []error
	if m.Queue != nil {
		if err := m.Queue.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error stopping match queue: %w", err))
		}
	}
	if m.MatchRouter != nil {
		if err := m.MatchRouter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing MatchRouter: %w", err))
		}
	}
	return errors.Join(errs...)
}
