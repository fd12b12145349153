package matchservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	matchdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/repositories"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	ratingdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
	seasondb "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/repositories"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultRecentMatches = 10
	maxRecentMatches     = 100
)

// RatingCalculator is the part of the rating manager a match report needs.
type RatingCalculator interface {
	ActiveSystem() ratingdomain.RatingSystem
	System(id ratingdomain.SystemID) (ratingdomain.RatingSystem, error)
	CalculateMatchResult(winner, loser ratingdomain.Player, mctx ratingdomain.MatchContext) (ratingdomain.MatchUpdate, error)
}

// Clock abstracts time for testing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// MatchService reports matches into the roster ratings, the open season and
// the match log in one transaction.
type MatchService struct {
	players  ratingdb.Repository
	seasons  seasondb.Repository
	matches  matchdb.Repository
	ratings  RatingCalculator
	policy   matchdomain.Policy
	clock    Clock
	logger   *slog.Logger
	metrics  observability.Metrics
	tracer   trace.Tracer
	db       *bun.DB
	reportMu sync.Mutex
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	players ratingdb.Repository,
	seasons seasondb.Repository,
	matches matchdb.Repository,
	ratings RatingCalculator,
	policy matchdomain.Policy,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &MatchService{
		players: players,
		seasons: seasons,
		matches: matches,
		ratings: ratings,
		policy:  policy,
		clock:   systemClock{},
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

// WithClock replaces the service clock. Intended for tests.
func (s *MatchService) WithClock(c Clock) *MatchService {
	s.clock = c
	return s
}

// ReportMatch applies one result. Reports are serialized within the process
// and each runs in its own transaction, so a failure leaves ratings, season
// and log untouched. A repeated result is answered with a duplicate outcome.
func (s *MatchService) ReportMatch(ctx context.Context, m seasondomain.MatchResult) (matchdomain.ReportOutcome, error) {
	identifier := m.WinnerTag + " vs " + m.LoserTag
	result, err := withTelemetry(s, ctx, "ReportMatch", identifier, func(ctx context.Context) (results.OperationResult[matchdomain.ReportOutcome, error], error) {
		if err := m.Validate(); err != nil {
			return results.FailureResult[matchdomain.ReportOutcome, error](err), nil
		}

		s.reportMu.Lock()
		defer s.reportMu.Unlock()

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[matchdomain.ReportOutcome, error], error) {
			return s.reportLogic(ctx, db, m)
		})
	})
	return unwrap(result, err)
}

func (s *MatchService) reportLogic(ctx context.Context, db bun.IDB, m seasondomain.MatchResult) (results.OperationResult[matchdomain.ReportOutcome, error], error) {
	seasonRow, err := s.seasons.LockOpenSeason(ctx, db)
	if err != nil {
		if errors.Is(err, seasondb.ErrNotFound) {
			return results.FailureResult[matchdomain.ReportOutcome, error](seasondomain.ErrNoActiveSeason), nil
		}
		return results.OperationResult[matchdomain.ReportOutcome, error]{}, err
	}
	season := seasonRow.ToDomain()

	duplicate := season.IsDuplicate(m)
	if !duplicate && m.MatchID != "" {
		if duplicate, err = s.matches.ExistsByMatchID(ctx, db, m.MatchID); err != nil {
			return results.OperationResult[matchdomain.ReportOutcome, error]{}, err
		}
	}
	if duplicate {
		s.metrics.RecordDomainEvent(ctx, serviceName, "match_duplicate")
		s.logger.InfoContext(ctx, "Duplicate match skipped",
			attr.ExtractCorrelationID(ctx),
			attr.String("match_id", m.MatchID),
			attr.String("winner_tag", m.WinnerTag),
			attr.String("loser_tag", m.LoserTag),
		)
		return results.SuccessResult[matchdomain.ReportOutcome, error](matchdomain.ReportOutcome{
			Outcome:  seasondomain.OutcomeDuplicate,
			MatchID:  m.MatchID,
			SeasonID: season.ID,
		}), nil
	}

	rows, created, err := s.lockPlayers(ctx, db, m.WinnerTag, m.LoserTag)
	if err != nil {
		if errors.Is(err, ratingdomain.ErrPlayerNotFound) {
			return results.FailureResult[matchdomain.ReportOutcome, error](err), nil
		}
		return results.OperationResult[matchdomain.ReportOutcome, error]{}, err
	}
	winnerRow, loserRow := rows[0], rows[1]
	winner, loser := winnerRow.ToDomain(), loserRow.ToDomain()

	mctx := ratingdomain.MatchContext{
		TournamentName: strings.TrimSpace(m.TournamentName),
		Importance:     importanceOf(season, m.TournamentName),
	}
	update, err := s.ratings.CalculateMatchResult(winner, loser, mctx)
	if err != nil {
		return results.FailureResult[matchdomain.ReportOutcome, error](err), nil
	}

	// Deltas and logged ratings read the system that produced the patch, even
	// if the active one has been switched since.
	sys, err := s.ratings.System(update.System)
	if err != nil {
		return results.OperationResult[matchdomain.ReportOutcome, error]{}, err
	}
	winnerBefore, loserBefore := sys.RatingValue(winner), sys.RatingValue(loser)

	winner.Apply(update.Winner)
	winner.RecordResult(true)
	loser.Apply(update.Loser)
	loser.RecordResult(false)

	winnerRow.SetFromDomain(winner)
	loserRow.SetFromDomain(loser)
	if err := s.players.UpdatePlayers(ctx, db, []*ratingdb.Player{winnerRow, loserRow}); err != nil {
		return results.OperationResult[matchdomain.ReportOutcome, error]{}, err
	}

	if _, err := season.RecordMatch(m); err != nil {
		return results.OperationResult[matchdomain.ReportOutcome, error]{}, fmt.Errorf("failed to fold match into season: %w", err)
	}
	if err := s.seasons.UpdateSeason(ctx, db, seasondb.SeasonFromDomain(season)); err != nil {
		return results.OperationResult[matchdomain.ReportOutcome, error]{}, err
	}

	outcome := matchdomain.ReportOutcome{
		Outcome:        seasondomain.OutcomeRecorded,
		MatchID:        m.MatchID,
		SeasonID:       season.ID,
		System:         update.System,
		Winner:         winner,
		Loser:          loser,
		WinnerDelta:    sys.RatingValue(winner) - winnerBefore,
		LoserDelta:     sys.RatingValue(loser) - loserBefore,
		CreatedPlayers: created,
	}
	if outcome.MatchID == "" {
		outcome.MatchID = uuid.NewString()
	}

	record := matchdomain.MatchRecord{
		MatchID:        outcome.MatchID,
		SeasonID:       season.ID,
		WinnerTag:      winner.Tag,
		LoserTag:       loser.Tag,
		Score:          strings.TrimSpace(m.Score),
		TournamentName: mctx.TournamentName,
		Importance:     mctx.Importance,
		System:         update.System,
		PlayedAt:       m.Timestamp.UTC(),
		WinnerRating:   sys.RatingValue(winner),
		LoserRating:    sys.RatingValue(loser),
		WinnerDelta:    outcome.WinnerDelta,
		LoserDelta:     outcome.LoserDelta,
	}
	if err := s.matches.InsertMatch(ctx, db, matchdb.MatchFromDomain(record)); err != nil {
		return results.OperationResult[matchdomain.ReportOutcome, error]{}, err
	}

	s.metrics.RecordDomainEvent(ctx, serviceName, "match_recorded")
	s.logger.InfoContext(ctx, "Match recorded",
		attr.ExtractCorrelationID(ctx),
		attr.String("match_id", outcome.MatchID),
		attr.String("season_id", season.ID),
		attr.String("winner_tag", winner.Tag),
		attr.String("loser_tag", loser.Tag),
		attr.String("system", string(update.System)),
		attr.Any("winner_delta", outcome.WinnerDelta),
		attr.Any("loser_delta", outcome.LoserDelta),
	)
	return results.SuccessResult[matchdomain.ReportOutcome, error](outcome), nil
}

// lockPlayers returns the rows for winner and loser, in that order, locked for
// update. Missing players are created with the active system's default
// rating when the policy allows it; nothing is inserted unless both resolve.
func (s *MatchService) lockPlayers(ctx context.Context, db bun.IDB, winnerTag, loserTag string) ([2]*ratingdb.Player, []string, error) {
	var out [2]*ratingdb.Player

	rows, err := s.players.GetPlayersByTagsForUpdate(ctx, db, []string{winnerTag, loserTag})
	if err != nil {
		return out, nil, err
	}
	byKey := make(map[string]*ratingdb.Player, len(rows))
	for _, row := range rows {
		byKey[row.TagKey] = row
	}

	var missing []string
	for i, tag := range []string{winnerTag, loserTag} {
		row, ok := byKey[ratingdomain.NormalizeTag(tag)]
		if !ok {
			missing = append(missing, strings.TrimSpace(tag))
			continue
		}
		out[i] = row
	}
	if len(missing) == 0 {
		return out, nil, nil
	}
	if !s.policy.AutoCreatePlayers {
		return out, nil, fmt.Errorf("%w: %s", ratingdomain.ErrPlayerNotFound, strings.Join(missing, ", "))
	}

	for i, tag := range []string{winnerTag, loserTag} {
		if out[i] != nil {
			continue
		}
		player := ratingdomain.Player{Tag: strings.TrimSpace(tag)}
		player.Apply(s.ratings.ActiveSystem().DefaultRating())
		row := ratingdb.PlayerFromDomain(player)
		if err := s.players.InsertPlayer(ctx, db, row); err != nil {
			return out, nil, err
		}
		s.logger.InfoContext(ctx, "Player created from match report",
			attr.ExtractCorrelationID(ctx),
			attr.String("tag", player.Tag),
		)
		out[i] = row
	}
	return out, missing, nil
}

// importanceOf looks the tournament up in the season's events.
func importanceOf(season *seasondomain.Season, tournament string) ratingdomain.Importance {
	name := strings.TrimSpace(tournament)
	if name == "" {
		return ratingdomain.ImportanceStandard
	}
	for _, e := range season.Events {
		if strings.EqualFold(e.Name, name) {
			return e.Importance
		}
	}
	return ratingdomain.ImportanceStandard
}

// isMatchFailure reports the per-match errors an import counts and moves past.
func isMatchFailure(err error) bool {
	return errors.Is(err, seasondomain.ErrInvalidMatch) ||
		errors.Is(err, ratingdomain.ErrInvalidMatch) ||
		errors.Is(err, ratingdomain.ErrPlayerNotFound)
}

// ImportTournament adds the tournament to the open season and reports each
// of its matches. Duplicates are skipped and invalid matches counted as
// failed; an infrastructure error stops the import so it can be retried.
func (s *MatchService) ImportTournament(ctx context.Context, batch matchdomain.ImportBatch) (matchdomain.ImportSummary, error) {
	result, err := withTelemetry(s, ctx, "ImportTournament", batch.TournamentName, func(ctx context.Context) (results.OperationResult[matchdomain.ImportSummary, error], error) {
		name := strings.TrimSpace(batch.TournamentName)
		if name == "" {
			return results.FailureResult[matchdomain.ImportSummary, error](
				fmt.Errorf("%w: tournament name is required", seasondomain.ErrInvalidMatch)), nil
		}

		ensured, err := s.ensureEvent(ctx, name, batch.Importance)
		if err != nil || ensured.IsFailure() {
			return results.OperationResult[matchdomain.ImportSummary, error]{Failure: ensured.Failure}, err
		}

		summary := matchdomain.ImportSummary{TournamentName: name}
		for i, m := range batch.Matches {
			if strings.TrimSpace(m.TournamentName) == "" {
				m.TournamentName = name
			}
			if m.Timestamp.IsZero() {
				m.Timestamp = s.clock.Now().UTC()
			}

			outcome, err := s.ReportMatch(ctx, m)
			switch {
			case err == nil && outcome.IsDuplicate():
				summary.Skipped++
			case err == nil:
				summary.Imported++
			case isMatchFailure(err):
				summary.Failed++
				summary.Errors = append(summary.Errors, fmt.Sprintf("match %d: %v", i+1, err))
			default:
				return results.OperationResult[matchdomain.ImportSummary, error]{}, err
			}
		}

		s.logger.InfoContext(ctx, "Tournament imported",
			attr.ExtractCorrelationID(ctx),
			attr.String("tournament", name),
			attr.Int("imported", summary.Imported),
			attr.Int("skipped", summary.Skipped),
			attr.Int("failed", summary.Failed),
		)
		return results.SuccessResult[matchdomain.ImportSummary, error](summary), nil
	})
	return unwrap(result, err)
}

// ensureEvent adds the tournament to the open season when it is not there yet.
func (s *MatchService) ensureEvent(ctx context.Context, name string, importance ratingdomain.Importance) (results.OperationResult[struct{}, error], error) {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()

	return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[struct{}, error], error) {
		row, err := s.seasons.LockOpenSeason(ctx, db)
		if err != nil {
			if errors.Is(err, seasondb.ErrNotFound) {
				return results.FailureResult[struct{}, error](seasondomain.ErrNoActiveSeason), nil
			}
			return results.OperationResult[struct{}, error]{}, err
		}
		season := row.ToDomain()
		if season.HasEvent(name) {
			return results.SuccessResult[struct{}, error](struct{}{}), nil
		}
		if err := season.AddEvent(seasondomain.EventRef{Name: name, Importance: importance, AddedAt: s.clock.Now().UTC()}); err != nil {
			return results.FailureResult[struct{}, error](err), nil
		}
		if err := s.seasons.UpdateSeason(ctx, db, seasondb.SeasonFromDomain(season)); err != nil {
			return results.OperationResult[struct{}, error]{}, err
		}
		return results.SuccessResult[struct{}, error](struct{}{}), nil
	})
}

// RecentMatches returns a player's latest matches, newest first.
func (s *MatchService) RecentMatches(ctx context.Context, tag string, limit int) ([]matchdomain.MatchRecord, error) {
	result, err := withTelemetry(s, ctx, "RecentMatches", tag, func(ctx context.Context) (results.OperationResult[[]matchdomain.MatchRecord, error], error) {
		if ratingdomain.NormalizeTag(tag) == "" {
			return results.FailureResult[[]matchdomain.MatchRecord, error](ratingdomain.ErrInvalidTag), nil
		}
		switch {
		case limit <= 0:
			limit = defaultRecentMatches
		case limit > maxRecentMatches:
			limit = maxRecentMatches
		}

		rows, err := s.matches.ListMatchesForPlayer(ctx, nil, tag, limit)
		if err != nil {
			return results.OperationResult[[]matchdomain.MatchRecord, error]{}, err
		}
		out := make([]matchdomain.MatchRecord, 0, len(rows))
		for _, row := range rows {
			out = append(out, row.ToDomain())
		}
		return results.SuccessResult[[]matchdomain.MatchRecord, error](out), nil
	})
	return unwrap(result, err)
}
