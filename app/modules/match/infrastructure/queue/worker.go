package matchqueue

import (
	"context"
	"errors"
	"log/slog"

	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	matchevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain/events"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/riverqueue/river"
)

// Importer runs a tournament import.
type Importer interface {
	ImportTournament(ctx context.Context, batch matchdomain.ImportBatch) (matchdomain.ImportSummary, error)
}

// TournamentImportWorker imports a queued tournament and announces the summary.
type TournamentImportWorker struct {
	river.WorkerDefaults[TournamentImportArgs]
	importer  Importer
	publisher message.Publisher
	logger    *slog.Logger
}

// NewTournamentImportWorker creates the import worker.
func NewTournamentImportWorker(logger *slog.Logger, importer Importer, publisher message.Publisher) *TournamentImportWorker {
	return &TournamentImportWorker{importer: importer, publisher: publisher, logger: logger}
}

// Work imports the batch. Imports that can never succeed, such as one with no
// open season, are cancelled; anything else is retried by river.
func (w *TournamentImportWorker) Work(ctx context.Context, job *river.Job[TournamentImportArgs]) error {
	args := job.Args
	ctx = attr.WithCorrelationID(ctx, args.CorrelationID)
	logger := w.logger.With(
		attr.String("tournament", args.TournamentName),
		attr.ExtractCorrelationID(ctx),
	)

	importance, err := ratingdomain.ParseImportance(args.Importance)
	if err != nil {
		w.announceFailure(ctx, logger, args, err)
		return river.JobCancel(err)
	}

	summary, err := w.importer.ImportTournament(ctx, matchdomain.ImportBatch{
		TournamentName: args.TournamentName,
		Importance:     importance,
		Matches:        args.Matches,
	})
	if err != nil {
		if isPermanent(err) {
			w.announceFailure(ctx, logger, args, err)
			return river.JobCancel(err)
		}
		logger.ErrorContext(ctx, "Tournament import failed, will retry", attr.Error(err))
		return err
	}

	logger.InfoContext(ctx, "Tournament import finished",
		attr.Int("imported", summary.Imported),
		attr.Int("skipped", summary.Skipped),
		attr.Int("failed", summary.Failed),
	)
	if err := handlerwrapper.PublishResult(w.publisher, args.CorrelationID, handlerwrapper.Result{
		Topic:   matchevents.ImportCompletedV1,
		Payload: &matchevents.ImportCompletedPayloadV1{Summary: summary},
	}); err != nil {
		// The import itself is committed and idempotent; only the notice is lost.
		logger.WarnContext(ctx, "Failed to publish import summary", attr.Error(err))
	}
	return nil
}

func isPermanent(err error) bool {
	return errors.Is(err, seasondomain.ErrNoActiveSeason) ||
		errors.Is(err, seasondomain.ErrInvalidMatch) ||
		errors.Is(err, seasondomain.ErrSeasonClosed)
}

func (w *TournamentImportWorker) announceFailure(ctx context.Context, logger *slog.Logger, args TournamentImportArgs, err error) {
	logger.WarnContext(ctx, "Tournament import cancelled", attr.Error(err))
	if pubErr := handlerwrapper.PublishResult(w.publisher, args.CorrelationID, handlerwrapper.Result{
		Topic:   matchevents.ImportFailedV1,
		Payload: &matchevents.FailedPayloadV1{Reason: err.Error()},
	}); pubErr != nil {
		logger.WarnContext(ctx, "Failed to publish import failure", attr.Error(pubErr))
	}
}
