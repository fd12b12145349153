package seasonhandlers

import (
	"context"
	"errors"
	"log/slog"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	seasonservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/application"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
	seasonevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain/events"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// SeasonHandlers implements Handlers.
type SeasonHandlers struct {
	service seasonservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewSeasonHandlers creates the season handlers.
func NewSeasonHandlers(service seasonservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("seasonhandlers")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SeasonHandlers{service: service, logger: logger, tracer: tracer}
}

var domainFailures = []error{
	seasondomain.ErrNoActiveSeason,
	seasondomain.ErrSeasonAlreadyActive,
	seasondomain.ErrSeasonClosed,
	seasondomain.ErrSeasonNotFound,
	seasondomain.ErrInvalidMatch,
	seasondomain.ErrEventExists,
	seasondomain.ErrEventNotFound,
	seasonservice.ErrInvalidStartDate,
	ratingdomain.ErrUnknownImportance,
}

func isDomainFailure(err error) bool {
	for _, target := range domainFailures {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// reply answers a domain failure on failTopic and hands anything else back
// to the router for redelivery.
func (h *SeasonHandlers) reply(ctx context.Context, failTopic string, err error) ([]handlerwrapper.Result, error) {
	if !isDomainFailure(err) {
		return nil, err
	}
	h.logger.WarnContext(ctx, "Season request rejected",
		slog.String("topic", failTopic),
		slog.String("error", err.Error()),
	)
	return []handlerwrapper.Result{{
		Topic:   failTopic,
		Payload: &seasonevents.FailedPayloadV1{Reason: err.Error()},
	}}, nil
}

func (h *SeasonHandlers) HandleStartRequested(ctx context.Context, payload *seasonevents.StartRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "SeasonHandlers.HandleStartRequested")
	defer span.End()

	summary, err := h.service.StartSeason(ctx, payload.Name, payload.StartsAt)
	if err != nil {
		return h.reply(ctx, seasonevents.StartFailedV1, err)
	}

	h.logger.InfoContext(ctx, "Season start handled",
		slog.String("season_id", summary.ID),
		slog.String("requested_by", payload.RequestedBy),
	)
	return []handlerwrapper.Result{{
		Topic:   seasonevents.StartedV1,
		Payload: &seasonevents.SeasonPayloadV1{Season: summary},
	}}, nil
}

func (h *SeasonHandlers) HandleEndRequested(ctx context.Context, payload *seasonevents.EndRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "SeasonHandlers.HandleEndRequested")
	defer span.End()

	closed, err := h.service.EndSeason(ctx)
	if err != nil {
		return h.reply(ctx, seasonevents.EndFailedV1, err)
	}

	h.logger.InfoContext(ctx, "Season end handled",
		slog.String("season_id", closed.ID),
		slog.String("requested_by", payload.RequestedBy),
	)
	return []handlerwrapper.Result{{
		Topic: seasonevents.EndedV1,
		Payload: &seasonevents.EndedPayloadV1{
			Season:   closed.Summarize(),
			Rankings: closed.Rankings,
		},
	}}, nil
}

func (h *SeasonHandlers) HandleRankingsRequested(ctx context.Context, payload *seasonevents.RankingsRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "SeasonHandlers.HandleRankingsRequested")
	defer span.End()

	standings, err := h.service.SeasonRankings(ctx, payload.SeasonID)
	if err != nil {
		return h.reply(ctx, seasonevents.RankingsFailedV1, err)
	}
	rows := standings.Rankings
	if payload.Limit > 0 && len(rows) > payload.Limit {
		rows = rows[:payload.Limit]
	}

	return []handlerwrapper.Result{{
		Topic: handlerwrapper.ReplyTopic(ctx, seasonevents.RankingsRetrievedV1),
		Payload: &seasonevents.RankingsRetrievedPayloadV1{
			Season:   standings.Season,
			Rankings: rows,
		},
	}}, nil
}

func (h *SeasonHandlers) HandleTournamentAddRequested(ctx context.Context, payload *seasonevents.TournamentRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "SeasonHandlers.HandleTournamentAddRequested")
	defer span.End()

	importance, err := ratingdomain.ParseImportance(payload.Importance)
	if err != nil {
		return h.reply(ctx, seasonevents.TournamentAddFailedV1, err)
	}
	season, err := h.service.AddTournament(ctx, payload.TournamentName, importance)
	if err != nil {
		return h.reply(ctx, seasonevents.TournamentAddFailedV1, err)
	}

	return []handlerwrapper.Result{{
		Topic: seasonevents.TournamentAddedV1,
		Payload: &seasonevents.TournamentChangedPayloadV1{
			SeasonID:       season.ID,
			TournamentName: payload.TournamentName,
			Events:         season.Events,
		},
	}}, nil
}

func (h *SeasonHandlers) HandleTournamentRemoveRequested(ctx context.Context, payload *seasonevents.TournamentRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "SeasonHandlers.HandleTournamentRemoveRequested")
	defer span.End()

	season, err := h.service.RemoveTournament(ctx, payload.TournamentName)
	if err != nil {
		return h.reply(ctx, seasonevents.TournamentRemoveFailedV1, err)
	}

	return []handlerwrapper.Result{{
		Topic: seasonevents.TournamentRemovedV1,
		Payload: &seasonevents.TournamentChangedPayloadV1{
			SeasonID:       season.ID,
			TournamentName: payload.TournamentName,
			Events:         season.Events,
		},
	}}, nil
}
