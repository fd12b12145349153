package matchrouter

import (
	"context"
	"log/slog"

	matchevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain/events"
	matchhandlers "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/handlers"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// MatchRouter registers the match module's Watermill handlers.
type MatchRouter struct {
	logger   *slog.Logger
	router   *message.Router
	eventBus eventbus.EventBus
	tracer   trace.Tracer
}

// NewMatchRouter creates a new MatchRouter.
func NewMatchRouter(logger *slog.Logger, router *message.Router, eventBus eventbus.EventBus, tracer trace.Tracer) *MatchRouter {
	return &MatchRouter{
		logger:   logger,
		router:   router,
		eventBus: eventBus,
		tracer:   tracer,
	}
}

// Configure sets up the router with handlers.
func (r *MatchRouter) Configure(_ context.Context, handlers matchhandlers.Handlers) error {
	r.logger.Info("Registering match module handlers")

	registerHandler(r, matchevents.ReportRequestedV1, handlers.HandleReportRequested)
	registerHandler(r, matchevents.ImportRequestedV1, handlers.HandleImportRequested)
	registerHandler(r, matchevents.HistoryRequestedV1, handlers.HandleHistoryRequested)

	return nil
}

func registerHandler[T any](
	r *MatchRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "match." + topic

	r.router.AddNoPublisherHandler(
		handlerName,
		topic,
		r.eventBus,
		handlerwrapper.WrapTransformingTyped(handlerName, r.logger, r.tracer, r.eventBus, handler),
	)
}

// Close shuts down the router.
func (r *MatchRouter) Close() error {
	return r.router.Close()
}
