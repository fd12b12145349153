package ratinghandlers

import (
	"context"
	"errors"
	"log/slog"

	ratingservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/application"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	ratingevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain/events"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// RatingHandlers implements Handlers.
type RatingHandlers struct {
	service ratingservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRatingHandlers creates the rating handlers.
func NewRatingHandlers(service ratingservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("ratinghandlers")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingHandlers{service: service, logger: logger, tracer: tracer}
}

// isDomainFailure reports errors that are answered on a failure topic rather
// than retried.
func isDomainFailure(err error) bool {
	return errors.Is(err, ratingdomain.ErrUnknownRatingSystem) ||
		errors.Is(err, ratingdomain.ErrInvalidParams) ||
		errors.Is(err, ratingdomain.ErrPlayerExists) ||
		errors.Is(err, ratingdomain.ErrPlayerNotFound) ||
		errors.Is(err, ratingdomain.ErrInvalidTag)
}

func failed(topic string, err error) []handlerwrapper.Result {
	return []handlerwrapper.Result{{
		Topic:   topic,
		Payload: &ratingevents.FailedPayloadV1{Reason: err.Error()},
	}}
}

func (h *RatingHandlers) HandleRankingsRequested(ctx context.Context, payload *ratingevents.RankingsRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "RatingHandlers.HandleRankingsRequested")
	defer span.End()

	rankings, err := h.service.ListRankings(ctx)
	if err != nil {
		return nil, err
	}
	if payload.Limit > 0 && len(rankings) > payload.Limit {
		rankings = rankings[:payload.Limit]
	}

	h.logger.InfoContext(ctx, "Rankings retrieved",
		slog.Int("count", len(rankings)),
		slog.String("requested_by", payload.RequestedBy),
	)

	return []handlerwrapper.Result{{
		Topic: handlerwrapper.ReplyTopic(ctx, ratingevents.RankingsRetrievedV1),
		Payload: &ratingevents.RankingsRetrievedPayloadV1{
			System:   h.service.Settings().ActiveSystem,
			Rankings: rankings,
		},
	}}, nil
}

func (h *RatingHandlers) HandleSystemSwitchRequested(ctx context.Context, payload *ratingevents.SystemSwitchRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "RatingHandlers.HandleSystemSwitchRequested")
	defer span.End()

	settings, err := h.service.SwitchSystem(ctx, payload.System)
	if err != nil {
		if isDomainFailure(err) {
			h.logger.WarnContext(ctx, "Rating system switch rejected",
				slog.String("system", payload.System),
				slog.String("error", err.Error()),
			)
			return failed(ratingevents.SystemSwitchFailedV1, err), nil
		}
		return nil, err
	}

	h.logger.InfoContext(ctx, "Rating system switched",
		slog.String("system", string(settings.ActiveSystem)),
		slog.String("requested_by", payload.RequestedBy),
	)

	return []handlerwrapper.Result{{
		Topic:   ratingevents.SystemSwitchedV1,
		Payload: &ratingevents.SystemSwitchedPayloadV1{Settings: settings},
	}}, nil
}

func (h *RatingHandlers) HandlePlayerRegisterRequested(ctx context.Context, payload *ratingevents.PlayerRegisterRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "RatingHandlers.HandlePlayerRegisterRequested")
	defer span.End()

	player, err := h.service.RegisterPlayer(ctx, payload.Tag, payload.DiscordID)
	if err != nil {
		if isDomainFailure(err) {
			return failed(ratingevents.PlayerRegisterFailedV1, err), nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic:   ratingevents.PlayerRegisteredV1,
		Payload: &ratingevents.PlayerRegisteredPayloadV1{Player: player},
	}}, nil
}
