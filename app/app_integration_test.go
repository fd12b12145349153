//go:build integration

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	matchevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain/events"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
	"github.com/Black-And-White-Club/powerrank-bot/config"
	"github.com/Black-And-White-Club/powerrank-bot/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startInfrastructure(t *testing.T, ctx context.Context) (dsn, natsURL string) {
	t.Helper()

	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("powerrank"),
		tcpostgres.WithUsername("bot"),
		tcpostgres.WithPassword("bot"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err = pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	nc, err := tcnats.Run(ctx, "nats:2.10-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = nc.Terminate(context.Background()) })

	natsURL, err = nc.ConnectionString(ctx)
	require.NoError(t, err)
	return dsn, natsURL
}

func migrateSchema(t *testing.T, ctx context.Context, cfg *config.Config) {
	t.Helper()
	logger := slog.Default()

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	require.NoError(t, err)
	defer dbService.Close()
	require.NoError(t, bundb.MigrateAll(ctx, dbService.GetDB(), logger))

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	require.NoError(t, err)
	defer pool.Close()
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	require.NoError(t, err)
	_, err = migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	require.NoError(t, err)
}

func awaitPayload[T any](t *testing.T, ctx context.Context, ch <-chan *message.Message) T {
	t.Helper()
	var out T
	select {
	case msg := <-ch:
		msg.Ack()
		require.NoError(t, json.Unmarshal(msg.Payload, &out))
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
	return out
}

func publish(t *testing.T, app *App, topic string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, app.EventBus.Publish(topic, message.NewMessage(watermill.NewUUID(), data)))
}

func TestApp_ReportAndImportOverNATS(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	dsn, natsURL := startInfrastructure(t, ctx)

	cfg := config.Defaults()
	cfg.Postgres.DSN = dsn
	cfg.NATS.URL = natsURL
	cfg.HTTP.Address = ""
	cfg.Observability.Environment = "development"
	cfg.Rating.AutoCreatePlayers = true

	migrateSchema(t, ctx, &cfg)

	app, err := NewApp(ctx, &cfg)
	require.NoError(t, err)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- app.Run(runCtx) }()
	t.Cleanup(func() {
		stop()
		<-done
		app.Close(context.Background())
	})
	<-app.Router.Running()

	_, err = app.Modules.Season.Service.StartSeason(ctx, "Fall", "")
	require.NoError(t, err)

	reported, err := app.EventBus.Subscribe(ctx, matchevents.ReportedV1)
	require.NoError(t, err)
	duplicates, err := app.EventBus.Subscribe(ctx, matchevents.DuplicateV1)
	require.NoError(t, err)
	imported, err := app.EventBus.Subscribe(ctx, matchevents.ImportCompletedV1)
	require.NoError(t, err)

	report := matchevents.ReportRequestedPayloadV1{Match: seasondomain.MatchResult{
		MatchID:   "set-1",
		WinnerTag: "Zain",
		LoserTag:  "Cody",
		Score:     "3-1",
	}}
	publish(t, app, matchevents.ReportRequestedV1, report)

	got := awaitPayload[matchevents.ReportedPayloadV1](t, ctx, reported)
	assert.Equal(t, "set-1", got.Outcome.MatchID)
	require.NotNil(t, got.Outcome.Winner.EloScore)
	assert.Equal(t, 1016, *got.Outcome.Winner.EloScore)
	assert.ElementsMatch(t, []string{"Zain", "Cody"}, got.Outcome.CreatedPlayers)

	publish(t, app, matchevents.ReportRequestedV1, report)
	dup := awaitPayload[matchevents.DuplicatePayloadV1](t, ctx, duplicates)
	assert.Equal(t, "set-1", dup.MatchID)

	matches := make([]seasondomain.MatchResult, 0, 4)
	for i := range 4 {
		matches = append(matches, seasondomain.MatchResult{
			MatchID:   fmt.Sprintf("genesis-%d", i),
			WinnerTag: "Mang0",
			LoserTag:  "Zain",
			Timestamp: time.Now().UTC(),
		})
	}
	publish(t, app, matchevents.ImportRequestedV1, matchevents.ImportRequestedPayloadV1{
		TournamentName: "Genesis",
		Importance:     "major",
		Matches:        matches,
	})
	summary := awaitPayload[matchevents.ImportCompletedPayloadV1](t, ctx, imported)
	assert.Equal(t, 4, summary.Summary.Imported)

	standings, err := app.Modules.Season.Service.SeasonRankings(ctx, "current")
	require.NoError(t, err)
	require.NotEmpty(t, standings.Rankings)
	assert.Equal(t, "Mang0", standings.Rankings[0].Tag)

	history, err := app.Modules.Match.Service.RecentMatches(ctx, "zain", 10)
	require.NoError(t, err)
	assert.Len(t, history, 5)

	require.NoError(t, app.Modules.Match.Queue.HealthCheck(ctx))
}
