package matchhandlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	matchservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/application"
	matchevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain/events"
	matchqueue "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/queue"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ImportQueue queues tournament imports.
type ImportQueue interface {
	EnqueueImport(ctx context.Context, args matchqueue.TournamentImportArgs) (matchqueue.JobInfo, error)
}

// MatchHandlers implements Handlers.
type MatchHandlers struct {
	service matchservice.Service
	queue   ImportQueue
	logger  *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewMatchHandlers creates the match handlers.
func NewMatchHandlers(service matchservice.Service, queue ImportQueue, logger *slog.Logger, tracer trace.Tracer) *MatchHandlers {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("matchhandlers")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchHandlers{service: service, queue: queue, logger: logger, tracer: tracer, now: time.Now}
}

var _ Handlers = (*MatchHandlers)(nil)

var domainFailures = []error{
	seasondomain.ErrNoActiveSeason,
	seasondomain.ErrSeasonClosed,
	seasondomain.ErrInvalidMatch,
	ratingdomain.ErrInvalidMatch,
	ratingdomain.ErrInvalidTag,
	ratingdomain.ErrPlayerNotFound,
	ratingdomain.ErrUnknownImportance,
	matchqueue.ErrEmptyImport,
}

func isDomainFailure(err error) bool {
	for _, target := range domainFailures {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (h *MatchHandlers) reply(ctx context.Context, failTopic string, err error) ([]handlerwrapper.Result, error) {
	if !isDomainFailure(err) {
		return nil, err
	}
	h.logger.WarnContext(ctx, "Match request rejected",
		attr.String("topic", failTopic),
		attr.Error(err),
	)
	return []handlerwrapper.Result{{
		Topic:   failTopic,
		Payload: &matchevents.FailedPayloadV1{Reason: err.Error()},
	}}, nil
}

func (h *MatchHandlers) HandleReportRequested(ctx context.Context, payload *matchevents.ReportRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MatchHandlers.HandleReportRequested")
	defer span.End()

	m := payload.Match
	if m.Timestamp.IsZero() {
		m.Timestamp = h.now().UTC()
	}

	outcome, err := h.service.ReportMatch(ctx, m)
	if err != nil {
		return h.reply(ctx, matchevents.ReportFailedV1, err)
	}

	if outcome.IsDuplicate() {
		h.logger.InfoContext(ctx, "Duplicate match report ignored",
			attr.String("match_id", outcome.MatchID),
			attr.String("reported_by", payload.ReportedBy),
		)
		return []handlerwrapper.Result{{
			Topic:   matchevents.DuplicateV1,
			Payload: &matchevents.DuplicatePayloadV1{MatchID: outcome.MatchID, SeasonID: outcome.SeasonID},
		}}, nil
	}

	return []handlerwrapper.Result{{
		Topic:   matchevents.ReportedV1,
		Payload: &matchevents.ReportedPayloadV1{Outcome: outcome},
	}}, nil
}

func (h *MatchHandlers) HandleImportRequested(ctx context.Context, payload *matchevents.ImportRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MatchHandlers.HandleImportRequested")
	defer span.End()

	// Reject a bad importance now rather than from inside the job.
	if _, err := ratingdomain.ParseImportance(payload.Importance); err != nil {
		return h.reply(ctx, matchevents.ImportFailedV1, err)
	}

	now := h.now().UTC()
	matches := make([]seasondomain.MatchResult, len(payload.Matches))
	for i, m := range payload.Matches {
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
		matches[i] = m
	}

	info, err := h.queue.EnqueueImport(ctx, matchqueue.TournamentImportArgs{
		TournamentName: payload.TournamentName,
		Importance:     payload.Importance,
		Matches:        matches,
		CorrelationID:  attr.CorrelationID(ctx),
	})
	if err != nil {
		return h.reply(ctx, matchevents.ImportFailedV1, err)
	}

	return []handlerwrapper.Result{{
		Topic: matchevents.ImportQueuedV1,
		Payload: &matchevents.ImportQueuedPayloadV1{
			TournamentName: payload.TournamentName,
			JobID:          info.ID,
			AlreadyQueued:  info.AlreadyQueued,
		},
	}}, nil
}

func (h *MatchHandlers) HandleHistoryRequested(ctx context.Context, payload *matchevents.HistoryRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MatchHandlers.HandleHistoryRequested")
	defer span.End()

	records, err := h.service.RecentMatches(ctx, payload.Tag, payload.Limit)
	if err != nil {
		return h.reply(ctx, matchevents.HistoryFailedV1, err)
	}

	return []handlerwrapper.Result{{
		Topic:   handlerwrapper.ReplyTopic(ctx, matchevents.HistoryRetrievedV1),
		Payload: &matchevents.HistoryRetrievedPayloadV1{Tag: payload.Tag, Matches: records},
	}}, nil
}
