package ratingservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	ratingdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RatingManager owns the registry of rating systems and the active choice.
//
// Switching the active system never recomputes stored ratings: it only changes
// which fields rankings read and future matches write. The previous system's
// numbers stay on the players untouched until it is switched back.
type RatingManager struct {
	instrumentation
	repo ratingdb.Repository

	// writeMu serializes settings mutations so persist and apply happen together.
	writeMu sync.Mutex

	mu       sync.RWMutex
	settings ratingdomain.Settings
	systems  map[ratingdomain.SystemID]ratingdomain.RatingSystem
}

// NewRatingManager builds a manager running on defaults until Load is called.
func NewRatingManager(
	repo ratingdb.Repository,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
	defaults ratingdomain.Settings,
) (*RatingManager, error) {
	systems, err := defaults.BuildSystems()
	if err != nil {
		return nil, fmt.Errorf("invalid default rating settings: %w", err)
	}
	return &RatingManager{
		instrumentation: newInstrumentation("RatingManager", logger, metrics, tracer, db),
		repo:            repo,
		settings:        defaults,
		systems:         systems,
	}, nil
}

// Load reads the persisted settings. When none are stored the defaults stay in
// effect; stored settings that fail validation are an error.
func (m *RatingManager) Load(ctx context.Context) (ratingdomain.Settings, error) {
	result, err := withTelemetry(&m.instrumentation, ctx, "LoadRatingSettings", "", func(ctx context.Context) (results.OperationResult[ratingdomain.Settings, error], error) {
		return runInTx(&m.instrumentation, ctx, m.loadLogic)
	})
	settings, err := unwrap(result, err)
	if err != nil {
		return ratingdomain.Settings{}, err
	}
	if err := m.apply(settings); err != nil {
		return ratingdomain.Settings{}, err
	}
	m.logger.InfoContext(ctx, "Rating settings loaded", attr.String("active_system", string(settings.ActiveSystem)))
	return settings, nil
}

func (m *RatingManager) loadLogic(ctx context.Context, db bun.IDB) (results.OperationResult[ratingdomain.Settings, error], error) {
	row, err := m.repo.GetSettings(ctx, db)
	if err != nil {
		if errors.Is(err, ratingdb.ErrNotFound) {
			return results.SuccessResult[ratingdomain.Settings, error](m.Settings()), nil
		}
		return results.OperationResult[ratingdomain.Settings, error]{}, fmt.Errorf("failed to load rating settings: %w", err)
	}
	settings := row.ToDomain()
	if err := settings.Validate(); err != nil {
		return results.OperationResult[ratingdomain.Settings, error]{}, fmt.Errorf("stored rating settings are invalid: %w", err)
	}
	return results.SuccessResult[ratingdomain.Settings, error](settings), nil
}

func (m *RatingManager) apply(settings ratingdomain.Settings) error {
	systems, err := settings.BuildSystems()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.settings = settings
	m.systems = systems
	m.mu.Unlock()
	return nil
}

// Settings returns a copy of the settings in effect.
func (m *RatingManager) Settings() ratingdomain.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// ActiveSystem returns the system currently reading and writing ratings.
func (m *RatingManager) ActiveSystem() ratingdomain.RatingSystem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.systems[m.settings.ActiveSystem]
}

// System returns a registered system by id.
func (m *RatingManager) System(id ratingdomain.SystemID) (ratingdomain.RatingSystem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sys, ok := m.systems[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ratingdomain.ErrUnknownRatingSystem, id)
	}
	return sys, nil
}

// CalculateMatchResult asks the active system for both players' rating
// patches. Counters are the caller's business.
func (m *RatingManager) CalculateMatchResult(winner, loser ratingdomain.Player, mctx ratingdomain.MatchContext) (ratingdomain.MatchUpdate, error) {
	if winner.Key() == "" || loser.Key() == "" {
		return ratingdomain.MatchUpdate{}, fmt.Errorf("%w: both players need a tag", ratingdomain.ErrInvalidMatch)
	}
	if winner.Key() == loser.Key() {
		return ratingdomain.MatchUpdate{}, fmt.Errorf("%w: %s cannot play themselves", ratingdomain.ErrInvalidMatch, winner.Tag)
	}

	sys := m.ActiveSystem()
	wp, lp := sys.ComputeUpdate(winner, loser, mctx)
	return ratingdomain.MatchUpdate{System: sys.ID(), Winner: wp, Loser: lp}, nil
}

// GetRankings ranks the players that have played at least once under the
// active system's ordering.
func (m *RatingManager) GetRankings(players []ratingdomain.Player) []ratingdomain.RankedPlayer {
	active := make([]ratingdomain.Player, 0, len(players))
	for _, p := range players {
		if p.MatchesPlayed > 0 {
			active = append(active, p)
		}
	}

	sys := m.ActiveSystem()
	sorted := sys.SortByRating(active)

	ranked := make([]ratingdomain.RankedPlayer, len(sorted))
	for i, p := range sorted {
		ranked[i] = ratingdomain.RankedPlayer{
			Player:        p,
			Rank:          i + 1,
			DisplayRating: sys.DisplayRating(p),
		}
	}
	return ranked
}

// SwitchSystem makes id the active system and persists the choice.
func (m *RatingManager) SwitchSystem(ctx context.Context, id string) (ratingdomain.Settings, error) {
	return m.updateSettings(ctx, "SwitchRatingSystem", id, func(s *ratingdomain.Settings) error {
		parsed, err := ratingdomain.ParseSystemID(id)
		if err != nil {
			return err
		}
		s.ActiveSystem = parsed
		return nil
	})
}

// UpdateEloParams replaces the Elo tunables.
func (m *RatingManager) UpdateEloParams(ctx context.Context, params ratingdomain.EloParams) (ratingdomain.Settings, error) {
	return m.updateSettings(ctx, "UpdateEloParams", string(ratingdomain.SystemElo), func(s *ratingdomain.Settings) error {
		if err := params.Validate(); err != nil {
			return err
		}
		s.Elo = params
		return nil
	})
}

// UpdateSkillParams replaces the skill tunables.
func (m *RatingManager) UpdateSkillParams(ctx context.Context, params ratingdomain.SkillParams) (ratingdomain.Settings, error) {
	return m.updateSettings(ctx, "UpdateSkillParams", string(ratingdomain.SystemSkill), func(s *ratingdomain.Settings) error {
		if err := params.Validate(); err != nil {
			return err
		}
		s.Skill = params
		return nil
	})
}

// updateSettings applies mutate to a copy of the settings, persists it and
// swaps it in. A mutate error is a domain failure and nothing is written.
func (m *RatingManager) updateSettings(ctx context.Context, operation, identifier string, mutate func(*ratingdomain.Settings) error) (ratingdomain.Settings, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	next := m.Settings()
	result, err := withTelemetry(&m.instrumentation, ctx, operation, identifier, func(ctx context.Context) (results.OperationResult[ratingdomain.Settings, error], error) {
		if err := mutate(&next); err != nil {
			return results.FailureResult[ratingdomain.Settings, error](err), nil
		}
		return runInTx(&m.instrumentation, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[ratingdomain.Settings, error], error) {
			if err := m.repo.SaveSettings(ctx, db, ratingdb.SettingsFromDomain(next)); err != nil {
				return results.OperationResult[ratingdomain.Settings, error]{}, err
			}
			return results.SuccessResult[ratingdomain.Settings, error](next), nil
		})
	})
	saved, err := unwrap(result, err)
	if err != nil {
		return ratingdomain.Settings{}, err
	}
	if err := m.apply(saved); err != nil {
		return ratingdomain.Settings{}, err
	}
	return saved, nil
}
