package ratingservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	ratingdb "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Roster manages player records on top of the rating repository.
type Roster struct {
	instrumentation
	repo    ratingdb.Repository
	manager *RatingManager
}

// NewRoster creates a Roster.
func NewRoster(
	repo ratingdb.Repository,
	manager *RatingManager,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *Roster {
	return &Roster{
		instrumentation: newInstrumentation("Roster", logger, metrics, tracer, db),
		repo:            repo,
		manager:         manager,
	}
}

// Manager exposes the rating manager the roster ranks with.
func (r *Roster) Manager() *RatingManager { return r.manager }

// GetPlayer looks a player up by tag, case-insensitively.
func (r *Roster) GetPlayer(ctx context.Context, tag string) (ratingdomain.Player, error) {
	result, err := withTelemetry(&r.instrumentation, ctx, "GetPlayer", tag, func(ctx context.Context) (results.OperationResult[ratingdomain.Player, error], error) {
		return runInTx(&r.instrumentation, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[ratingdomain.Player, error], error) {
			row, err := r.repo.GetPlayerByTag(ctx, db, tag)
			if err != nil {
				if errors.Is(err, ratingdb.ErrNotFound) {
					return results.FailureResult[ratingdomain.Player, error](fmt.Errorf("%w: %s", ratingdomain.ErrPlayerNotFound, tag)), nil
				}
				return results.OperationResult[ratingdomain.Player, error]{}, err
			}
			return results.SuccessResult[ratingdomain.Player, error](row.ToDomain()), nil
		})
	})
	return unwrap(result, err)
}

// RegisterPlayer adds a player seeded with the active system's default rating.
func (r *Roster) RegisterPlayer(ctx context.Context, tag string, discordID *string) (ratingdomain.Player, error) {
	tag = strings.TrimSpace(tag)
	result, err := withTelemetry(&r.instrumentation, ctx, "RegisterPlayer", tag, func(ctx context.Context) (results.OperationResult[ratingdomain.Player, error], error) {
		if tag == "" {
			return results.FailureResult[ratingdomain.Player, error](ratingdomain.ErrInvalidTag), nil
		}
		return runInTx(&r.instrumentation, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[ratingdomain.Player, error], error) {
			return r.registerLogic(ctx, db, tag, discordID)
		})
	})
	return unwrap(result, err)
}

func (r *Roster) registerLogic(ctx context.Context, db bun.IDB, tag string, discordID *string) (results.OperationResult[ratingdomain.Player, error], error) {
	if _, err := r.repo.GetPlayerByTag(ctx, db, tag); err == nil {
		return results.FailureResult[ratingdomain.Player, error](fmt.Errorf("%w: %s", ratingdomain.ErrPlayerExists, tag)), nil
	} else if !errors.Is(err, ratingdb.ErrNotFound) {
		return results.OperationResult[ratingdomain.Player, error]{}, fmt.Errorf("failed to check existing player: %w", err)
	}

	player := NewPlayer(r.manager, tag)
	player.DiscordID = discordID

	if err := r.repo.InsertPlayer(ctx, db, ratingdb.PlayerFromDomain(player)); err != nil {
		if errors.Is(err, ratingdb.ErrDuplicateTag) {
			return results.FailureResult[ratingdomain.Player, error](fmt.Errorf("%w: %s", ratingdomain.ErrPlayerExists, tag)), nil
		}
		return results.OperationResult[ratingdomain.Player, error]{}, err
	}
	return results.SuccessResult[ratingdomain.Player, error](player), nil
}

// NewPlayer returns a fresh roster entry seeded with the active system's default rating.
func NewPlayer(manager *RatingManager, tag string) ratingdomain.Player {
	player := ratingdomain.Player{Tag: strings.TrimSpace(tag)}
	player.Apply(manager.ActiveSystem().DefaultRating())
	return player
}

// LinkDiscordAccount attaches a Discord account to an existing, possibly
// imported, roster entry.
func (r *Roster) LinkDiscordAccount(ctx context.Context, tag, discordID string) (ratingdomain.Player, error) {
	result, err := withTelemetry(&r.instrumentation, ctx, "LinkDiscordAccount", tag, func(ctx context.Context) (results.OperationResult[ratingdomain.Player, error], error) {
		return runInTx(&r.instrumentation, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[ratingdomain.Player, error], error) {
			row, err := r.repo.GetPlayerByTag(ctx, db, tag)
			if err != nil {
				if errors.Is(err, ratingdb.ErrNotFound) {
					return results.FailureResult[ratingdomain.Player, error](fmt.Errorf("%w: %s", ratingdomain.ErrPlayerNotFound, tag)), nil
				}
				return results.OperationResult[ratingdomain.Player, error]{}, err
			}
			id := discordID
			row.DiscordID = &id
			if err := r.repo.UpdatePlayers(ctx, db, []*ratingdb.Player{row}); err != nil {
				return results.OperationResult[ratingdomain.Player, error]{}, err
			}
			return results.SuccessResult[ratingdomain.Player, error](row.ToDomain()), nil
		})
	})
	return unwrap(result, err)
}

// ListPlayers returns the whole roster.
func (r *Roster) ListPlayers(ctx context.Context) ([]ratingdomain.Player, error) {
	result, err := withTelemetry(&r.instrumentation, ctx, "ListPlayers", "", func(ctx context.Context) (results.OperationResult[[]ratingdomain.Player, error], error) {
		rows, err := r.repo.ListPlayers(ctx, nil)
		if err != nil {
			return results.OperationResult[[]ratingdomain.Player, error]{}, err
		}
		players := make([]ratingdomain.Player, len(rows))
		for i, row := range rows {
			players[i] = row.ToDomain()
		}
		return results.SuccessResult[[]ratingdomain.Player, error](players), nil
	})
	return unwrap(result, err)
}

// ListRankings ranks the roster under the active system.
func (r *Roster) ListRankings(ctx context.Context) ([]ratingdomain.RankedPlayer, error) {
	players, err := r.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return r.manager.GetRankings(players), nil
}

// RatingLookup maps each player key rated by the active system to its rating value.
func (r *Roster) RatingLookup(ctx context.Context) (map[string]float64, error) {
	players, err := r.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	sys := r.manager.ActiveSystem()
	lookup := make(map[string]float64, len(players))
	for _, p := range players {
		if ratingdomain.HasRating(sys.ID(), p) {
			lookup[p.Key()] = sys.RatingValue(p)
		}
	}
	return lookup, nil
}

// ResetRoster deletes every player. Match and season history are not touched.
func (r *Roster) ResetRoster(ctx context.Context) (int, error) {
	result, err := withTelemetry(&r.instrumentation, ctx, "ResetRoster", "", func(ctx context.Context) (results.OperationResult[int, error], error) {
		return runInTx(&r.instrumentation, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
			n, err := r.repo.DeleteAllPlayers(ctx, db)
			if err != nil {
				return results.OperationResult[int, error]{}, err
			}
			return results.SuccessResult[int, error](n), nil
		})
	})
	return unwrap(result, err)
}
