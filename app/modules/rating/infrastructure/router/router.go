package ratingrouter

import (
	"context"
	"log/slog"

	ratingevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain/events"
	ratinghandlers "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/handlers"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// RatingRouter registers the rating module's Watermill handlers.
type RatingRouter struct {
	logger   *slog.Logger
	router   *message.Router
	eventBus eventbus.EventBus
	tracer   trace.Tracer
}

// NewRatingRouter creates a new RatingRouter.
func NewRatingRouter(logger *slog.Logger, router *message.Router, eventBus eventbus.EventBus, tracer trace.Tracer) *RatingRouter {
	return &RatingRouter{
		logger:   logger,
		router:   router,
		eventBus: eventBus,
		tracer:   tracer,
	}
}

// Configure sets up the router with handlers.
func (r *RatingRouter) Configure(_ context.Context, handlers ratinghandlers.Handlers) error {
	r.logger.Info("Registering rating module handlers",
		slog.String("rankings_subject", ratingevents.RankingsRequestedV1),
		slog.String("switch_subject", ratingevents.SystemSwitchRequestedV1),
		slog.String("register_subject", ratingevents.PlayerRegisterRequestedV1),
	)

	registerHandler(r, ratingevents.RankingsRequestedV1, handlers.HandleRankingsRequested)
	registerHandler(r, ratingevents.SystemSwitchRequestedV1, handlers.HandleSystemSwitchRequested)
	registerHandler(r, ratingevents.PlayerRegisterRequestedV1, handlers.HandlePlayerRegisterRequested)

	r.logger.Info("Rating module handlers registered successfully")
	return nil
}

func registerHandler[T any](
	r *RatingRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "rating." + topic

	r.router.AddNoPublisherHandler(
		handlerName,
		topic,
		r.eventBus,
		handlerwrapper.WrapTransformingTyped(handlerName, r.logger, r.tracer, r.eventBus, handler),
	)
}

// Close shuts down the router.
func (r *RatingRouter) Close() error {
	return r.router.Close()
}
