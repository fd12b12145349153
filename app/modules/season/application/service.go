package seasonservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
	seasondb "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/repositories"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RatingLookup supplies the active system's rating value per player key.
type RatingLookup interface {
	RatingLookup(ctx context.Context) (map[string]float64, error)
}

// SeasonService runs the season lifecycle on top of the season repository.
type SeasonService struct {
	repo    seasondb.Repository
	ratings RatingLookup
	dates   *DateParser
	clock   Clock
	logger  *slog.Logger
	metrics observability.Metrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewSeasonService creates a new SeasonService. loc is the zone used to read
// natural-language start dates; nil means UTC.
func NewSeasonService(
	repo seasondb.Repository,
	ratings RatingLookup,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
	loc *time.Location,
) *SeasonService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &SeasonService{
		repo:    repo,
		ratings: ratings,
		dates:   NewDateParser(loc),
		clock:   systemClock{},
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

// WithClock replaces the service clock. Intended for tests.
func (s *SeasonService) WithClock(c Clock) *SeasonService {
	s.clock = c
	return s
}

// openLedger loads the open season, if any, into a ledger.
func (s *SeasonService) openLedger(ctx context.Context, db bun.IDB, lock bool) (*seasondomain.Ledger, error) {
	var (
		row *seasondb.Season
		err error
	)
	if lock {
		row, err = s.repo.LockOpenSeason(ctx, db)
	} else {
		row, err = s.repo.GetOpenSeason(ctx, db)
	}
	if err != nil {
		if errors.Is(err, seasondb.ErrNotFound) {
			return &seasondomain.Ledger{}, nil
		}
		return nil, err
	}
	return &seasondomain.Ledger{Current: row.ToDomain()}, nil
}

// StartSeason opens a new season. startsAt accepts "now", a date, an RFC 3339
// timestamp or a phrase such as "next monday".
func (s *SeasonService) StartSeason(ctx context.Context, name, startsAt string) (seasondomain.Summary, error) {
	result, err := withTelemetry(s, ctx, "StartSeason", name, func(ctx context.Context) (results.OperationResult[seasondomain.Summary, error], error) {
		start, err := s.dates.Parse(startsAt, s.clock.Now())
		if err != nil {
			return results.FailureResult[seasondomain.Summary, error](err), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[seasondomain.Summary, error], error) {
			ledger, err := s.openLedger(ctx, db, false)
			if err != nil {
				return results.OperationResult[seasondomain.Summary, error]{}, err
			}

			season, err := ledger.Open(uuid.NewString(), name, start)
			if err != nil {
				return results.FailureResult[seasondomain.Summary, error](err), nil
			}

			if err := s.repo.InsertSeason(ctx, db, seasondb.SeasonFromDomain(season)); err != nil {
				if errors.Is(err, seasondb.ErrOpenSeasonExists) {
					return results.FailureResult[seasondomain.Summary, error](seasondomain.ErrSeasonAlreadyActive), nil
				}
				return results.OperationResult[seasondomain.Summary, error]{}, err
			}

			s.logger.InfoContext(ctx, "Season started",
				attr.ExtractCorrelationID(ctx),
				attr.String("season_id", season.ID),
				attr.String("season_name", season.Name),
			)
			return results.SuccessResult[seasondomain.Summary, error](season.Summarize()), nil
		})
	})
	return unwrap(result, err)
}

// EndSeason closes the open season and freezes its rankings against the
// current global ratings.
func (s *SeasonService) EndSeason(ctx context.Context) (*seasondomain.Season, error) {
	result, err := withTelemetry(s, ctx, "EndSeason", "", func(ctx context.Context) (results.OperationResult[*seasondomain.Season, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*seasondomain.Season, error], error) {
			ledger, err := s.openLedger(ctx, db, true)
			if err != nil {
				return results.OperationResult[*seasondomain.Season, error]{}, err
			}
			if ledger.Current == nil {
				return results.FailureResult[*seasondomain.Season, error](seasondomain.ErrNoActiveSeason), nil
			}

			// Reports lock the open season first, so ratings read once the lock
			// is held include every match already folded into it.
			ratings, err := s.lookupRatings(ctx)
			if err != nil {
				return results.OperationResult[*seasondomain.Season, error]{}, err
			}

			closed, err := ledger.CloseCurrent(s.clock.Now().UTC(), ratings)
			if err != nil {
				return results.FailureResult[*seasondomain.Season, error](err), nil
			}

			if err := s.repo.UpdateSeason(ctx, db, seasondb.SeasonFromDomain(closed)); err != nil {
				return results.OperationResult[*seasondomain.Season, error]{}, err
			}

			s.logger.InfoContext(ctx, "Season ended",
				attr.ExtractCorrelationID(ctx),
				attr.String("season_id", closed.ID),
				attr.Int("ranked_players", len(closed.Rankings)),
			)
			return results.SuccessResult[*seasondomain.Season, error](closed), nil
		})
	})
	return unwrap(result, err)
}

func (s *SeasonService) lookupRatings(ctx context.Context) (map[string]float64, error) {
	if s.ratings == nil {
		return map[string]float64{}, nil
	}
	ratings, err := s.ratings.RatingLookup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	return ratings, nil
}

// GetCurrentSeason returns the open season.
func (s *SeasonService) GetCurrentSeason(ctx context.Context) (*seasondomain.Season, error) {
	result, err := withTelemetry(s, ctx, "GetCurrentSeason", "", func(ctx context.Context) (results.OperationResult[*seasondomain.Season, error], error) {
		ledger, err := s.openLedger(ctx, nil, false)
		if err != nil {
			return results.OperationResult[*seasondomain.Season, error]{}, err
		}
		if ledger.Current == nil {
			return results.FailureResult[*seasondomain.Season, error](seasondomain.ErrNoActiveSeason), nil
		}
		return results.SuccessResult[*seasondomain.Season, error](ledger.Current), nil
	})
	return unwrap(result, err)
}

// GetSeason returns a season by id. An empty id or "current" means the open season.
func (s *SeasonService) GetSeason(ctx context.Context, id string) (*seasondomain.Season, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.EqualFold(id, "current") {
		return s.GetCurrentSeason(ctx)
	}
	result, err := withTelemetry(s, ctx, "GetSeason", id, func(ctx context.Context) (results.OperationResult[*seasondomain.Season, error], error) {
		row, err := s.repo.GetSeason(ctx, nil, id)
		if err != nil {
			if errors.Is(err, seasondb.ErrNotFound) {
				return results.FailureResult[*seasondomain.Season, error](fmt.Errorf("%w: %s", seasondomain.ErrSeasonNotFound, id)), nil
			}
			return results.OperationResult[*seasondomain.Season, error]{}, err
		}
		return results.SuccessResult[*seasondomain.Season, error](row.ToDomain()), nil
	})
	return unwrap(result, err)
}

// ListSeasons returns every season's summary, newest first.
func (s *SeasonService) ListSeasons(ctx context.Context) ([]seasondomain.Summary, error) {
	result, err := withTelemetry(s, ctx, "ListSeasons", "", func(ctx context.Context) (results.OperationResult[[]seasondomain.Summary, error], error) {
		rows, err := s.repo.ListSeasons(ctx, nil)
		if err != nil {
			return results.OperationResult[[]seasondomain.Summary, error]{}, err
		}
		out := make([]seasondomain.Summary, 0, len(rows))
		for _, row := range rows {
			out = append(out, row.ToDomain().Summarize())
		}
		return results.SuccessResult[[]seasondomain.Summary, error](out), nil
	})
	return unwrap(result, err)
}

// Standings is a season's header with its ranking table.
type Standings struct {
	Season   seasondomain.Summary         `json:"season"`
	Rankings []seasondomain.SeasonRanking `json:"rankings"`
}

// SeasonRankings returns live rankings for the open season and the frozen
// snapshot for a closed one.
func (s *SeasonService) SeasonRankings(ctx context.Context, seasonID string) (Standings, error) {
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return Standings{}, err
	}
	return s.standings(ctx, season)
}

func (s *SeasonService) standings(ctx context.Context, season *seasondomain.Season) (Standings, error) {
	if !season.IsOpen() {
		return Standings{Season: season.Summarize(), Rankings: season.Rankings}, nil
	}

	ratings, err := s.lookupRatings(ctx)
	if err != nil {
		return Standings{}, err
	}
	return Standings{
		Season:   season.Summarize(),
		Rankings: seasondomain.ComputeSeasonRankings(season, ratings),
	}, nil
}

// AddTournament counts a tournament towards the open season.
func (s *SeasonService) AddTournament(ctx context.Context, name string, importance ratingdomain.Importance) (*seasondomain.Season, error) {
	return s.mutateOpenSeason(ctx, "AddTournament", name, func(season *seasondomain.Season) error {
		return season.AddEvent(seasondomain.EventRef{
			Name:       name,
			Importance: importance,
			AddedAt:    s.clock.Now().UTC(),
		})
	})
}

// RemoveTournament removes a tournament from the open season. Matches already
// counted from it stay in the standings.
func (s *SeasonService) RemoveTournament(ctx context.Context, name string) (*seasondomain.Season, error) {
	return s.mutateOpenSeason(ctx, "RemoveTournament", name, func(season *seasondomain.Season) error {
		return season.RemoveEvent(name)
	})
}

func (s *SeasonService) mutateOpenSeason(ctx context.Context, op, identifier string, mutate func(*seasondomain.Season) error) (*seasondomain.Season, error) {
	result, err := withTelemetry(s, ctx, op, identifier, func(ctx context.Context) (results.OperationResult[*seasondomain.Season, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*seasondomain.Season, error], error) {
			ledger, err := s.openLedger(ctx, db, true)
			if err != nil {
				return results.OperationResult[*seasondomain.Season, error]{}, err
			}
			if ledger.Current == nil {
				return results.FailureResult[*seasondomain.Season, error](seasondomain.ErrNoActiveSeason), nil
			}
			if err := mutate(ledger.Current); err != nil {
				return results.FailureResult[*seasondomain.Season, error](err), nil
			}
			if err := s.repo.UpdateSeason(ctx, db, seasondb.SeasonFromDomain(ledger.Current)); err != nil {
				return results.OperationResult[*seasondomain.Season, error]{}, err
			}
			return results.SuccessResult[*seasondomain.Season, error](ledger.Current), nil
		})
	})
	return unwrap(result, err)
}

// HeadToHead returns the meetings between two players in a season.
func (s *SeasonService) HeadToHead(ctx context.Context, seasonID, a, b string) (seasondomain.HeadToHeadRecord, error) {
	if ratingdomain.NormalizeTag(a) == "" || ratingdomain.NormalizeTag(b) == "" {
		return seasondomain.HeadToHeadRecord{}, fmt.Errorf("%w: two player tags are required", seasondomain.ErrInvalidMatch)
	}
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return seasondomain.HeadToHeadRecord{}, err
	}
	return season.HeadToHeadFor(a, b), nil
}
