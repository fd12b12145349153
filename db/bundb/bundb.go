// Package bundb opens the Postgres connection shared by all modules and owns
// their schema migrators.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	matchmigrations "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/infrastructure/repositories/migrations"
	ratingmigrations "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/infrastructure/repositories/migrations"
	seasonmigrations "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/Black-And-White-Club/powerrank-bot/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// DBService holds the bun connection pool.
type DBService struct {
	db *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to Postgres and verifies the connection.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.InfoContext(ctx, "Connected to Postgres", attr.Any("max_open_conns", sqldb.Stats().MaxOpenConnections))
	return &DBService{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// ModuleMigrator pairs a module name with its migrator.
type ModuleMigrator struct {
	Module   string
	Migrator *migrate.Migrator
}

// Migrators returns one migrator per module, each with its own bookkeeping
// tables so modules roll back independently. The order is stable: rating,
// season, match.
func Migrators(db *bun.DB) []ModuleMigrator {
	modules := []struct {
		name string
		ms   *migrate.Migrations
	}{
		{"rating", ratingmigrations.Migrations},
		{"season", seasonmigrations.Migrations},
		{"match", matchmigrations.Migrations},
	}

	out := make([]ModuleMigrator, 0, len(modules))
	for _, m := range modules {
		out = append(out, ModuleMigrator{
			Module: m.name,
			Migrator: migrate.NewMigrator(db, m.ms,
				migrate.WithTableName(m.name+"_bun_migrations"),
				migrate.WithLocksTableName(m.name+"_bun_migration_locks"),
			),
		})
	}
	return out
}

// MigrateAll initializes and applies every module's migrations.
func MigrateAll(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", m.Module, err)
		}
		group, err := m.Migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", m.Module, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", attr.String("module", m.Module))
			continue
		}
		logger.InfoContext(ctx, "Migrated module", attr.String("module", m.Module), attr.String("group", group.String()))
	}
	return nil
}
