// Package app wires the modules into one running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/powerrank-bot/app/modules/match"
	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	matchqueue "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/queue"
	"github.com/Black-And-White-Club/powerrank-bot/app/modules/rating"
	"github.com/Black-And-White-Club/powerrank-bot/app/modules/season"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/eventbus"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/httpapi"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/Black-And-White-Club/powerrank-bot/config"
	"github.com/Black-And-White-Club/powerrank-bot/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"golang.org/x/sync/errgroup"
)

// App holds the running process.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bundb.DBService
	EventBus      eventbus.EventBus
	Router        *message.Router
	Modules       Modules
	HTTPServer    *httpapi.Server
}

// Modules groups the domain modules.
type Modules struct {
	Rating *rating.Module
	Season *season.Module
	Match  *match.Module
}

// NewApp connects infrastructure and builds every module. On error anything
// already opened is closed again.
func NewApp(ctx context.Context, cfg *config.Config) (app *App, err error) {
	obs := observability.New(config.ToObsConfig(cfg))
	logger := obs.Logger

	app = &App{Config: cfg, Observability: obs}
	defer func() {
		if err != nil {
			app.Close(context.Background())
			app = nil
		}
	}()

	settings, err := cfg.RatingSettings()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	app.DB, err = bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	db := app.DB.GetDB()

	app.EventBus, err = eventbus.NewEventBus(ctx, eventbus.Config{
		URL:              cfg.NATS.URL,
		QueueGroupPrefix: cfg.NATS.QueueGroupPrefix,
		SubscribersCount: cfg.NATS.SubscribersCount,
		AckWaitTimeout:   cfg.NATS.AckWaitTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	app.Router, err = message.NewRouter(message.RouterConfig{CloseTimeout: 30 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}
	app.Router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			Logger:          watermill.NewSlogLogger(logger),
		}.Middleware,
	)

	ratingModule, err := rating.NewRatingModule(ctx, obs, app.EventBus, app.Router, db, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rating module: %w", err)
	}
	app.Modules.Rating = ratingModule

	seasonModule, err := season.NewSeasonModule(ctx, obs, app.EventBus, app.Router, db, ratingModule.Roster, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize season module: %w", err)
	}
	app.Modules.Season = seasonModule

	matchModule, err := match.NewMatchModule(ctx, obs, app.EventBus, app.Router, db,
		match.Dependencies{
			Players: ratingModule.Repository,
			Seasons: seasonModule.Repository,
			Ratings: ratingModule.Manager,
		},
		matchdomain.Policy{AutoCreatePlayers: cfg.Rating.AutoCreatePlayers},
		matchqueue.Config{DSN: cfg.Postgres.DSN, MaxWorkers: cfg.Import.Workers},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize match module: %w", err)
	}
	app.Modules.Match = matchModule

	if cfg.HTTP.Address != "" {
		handler := httpapi.NewRouter(httpapi.Deps{
			Roster:   ratingModule.Roster,
			Settings: ratingModule.Manager,
			Seasons:  seasonModule.Service,
			Matches:  matchModule.Service,
			Gatherer: obs.Registry,
		}, logger, httpapi.Options{
			RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
			Burst:             cfg.HTTP.Burst,
			RequestTimeout:    cfg.HTTP.RequestTimeout,
		})
		app.HTTPServer = httpapi.NewServer(cfg.HTTP.Address, handler, logger)
	}

	logger.InfoContext(ctx, "Application initialized",
		attr.String("rating_system", string(ratingModule.Manager.Settings().ActiveSystem)),
		attr.Any("auto_create_players", cfg.Rating.AutoCreatePlayers),
	)
	return app, nil
}

// Run processes events, import jobs and HTTP requests until ctx is cancelled
// or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Router.Run(ctx)
	})
	g.Go(func() error {
		<-a.Router.Running()
		return a.Modules.Match.Run(ctx)
	})
	if a.HTTPServer != nil {
		g.Go(func() error {
			return a.HTTPServer.Run(ctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close stops the modules and releases connections in reverse order.
func (a *App) Close(ctx context.Context) {
	logger := a.Observability.Logger
	closeWith := func(name string, fn func() error) {
		if err := fn(); err != nil {
			logger.Error("Shutdown step failed", attr.String("component", name), attr.Error(err))
		}
	}

	if a.Modules.Match != nil {
		closeWith("match", func() error { return a.Modules.Match.Close(ctx) })
	}
	if a.Modules.Season != nil {
		closeWith("season", a.Modules.Season.Close)
	}
	if a.Modules.Rating != nil {
		closeWith("rating", a.Modules.Rating.Close)
	}
	if a.EventBus != nil {
		closeWith("eventbus", a.EventBus.Close)
	}
	if a.DB != nil {
		closeWith("database", a.DB.Close)
	}
}
