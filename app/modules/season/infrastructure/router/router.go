package seasonrouter

import (
	"context"
	"log/slog"

	seasonevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain/events"
	seasonhandlers "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/handlers"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// SeasonRouter registers the season module's Watermill handlers.
type SeasonRouter struct {
	logger   *slog.Logger
	router   *message.Router
	eventBus eventbus.EventBus
	tracer   trace.Tracer
}

// NewSeasonRouter creates a new SeasonRouter.
func NewSeasonRouter(logger *slog.Logger, router *message.Router, eventBus eventbus.EventBus, tracer trace.Tracer) *SeasonRouter {
	return &SeasonRouter{
		logger:   logger,
		router:   router,
		eventBus: eventBus,
		tracer:   tracer,
	}
}

// Configure sets up the router with handlers.
func (r *SeasonRouter) Configure(_ context.Context, handlers seasonhandlers.Handlers) error {
	r.logger.Info("Registering season module handlers")

	registerHandler(r, seasonevents.StartRequestedV1, handlers.HandleStartRequested)
	registerHandler(r, seasonevents.EndRequestedV1, handlers.HandleEndRequested)
	registerHandler(r, seasonevents.RankingsRequestedV1, handlers.HandleRankingsRequested)
	registerHandler(r, seasonevents.TournamentAddRequestedV1, handlers.HandleTournamentAddRequested)
	registerHandler(r, seasonevents.TournamentRemoveRequestedV1, handlers.HandleTournamentRemoveRequested)

	r.logger.Info("Season module handlers registered successfully")
	return nil
}

func registerHandler[T any](
	r *SeasonRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "season." + topic

	r.router.AddNoPublisherHandler(
		handlerName,
		topic,
		r.eventBus,
		handlerwrapper.WrapTransformingTyped(handlerName, r.logger, r.tracer, r.eventBus, handler),
	)
}

// Close shuts down the router.
func (r *SeasonRouter) Close() error {
	return r.router.Close()
}
