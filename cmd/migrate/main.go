package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/Black-And-White-Club/powerrank-bot/config"
	"github.com/Black-And-White-Club/powerrank-bot/db/bundb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "migrate",
		Usage: "database migrations for powerrank-bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "create migration tables",
				Action: withMigrators(initAction),
			},
			{
				Name:   "migrate",
				Usage:  "migrate database, including the job queue schema",
				Action: withMigrators(migrateAction),
			},
			{
				Name:   "rollback",
				Usage:  "rollback the last migration group of every module",
				Action: withMigrators(rollbackAction),
			},
			{
				Name:   "status",
				Usage:  "show applied and pending migrations",
				Action: withMigrators(statusAction),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action:    withMigrators(createGoAction),
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type env struct {
	cfg       *config.Config
	migrators []bundb.ModuleMigrator
}

func withMigrators(action func(*cli.Context, env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.LoadConfig(c.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := observability.NewLogger(config.ToObsConfig(cfg), os.Stderr)

		dbService, err := bundb.NewBunDBService(c.Context, cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer dbService.Close()

		return action(c, env{cfg: cfg, migrators: bundb.Migrators(dbService.GetDB())})
	}
}

func initAction(c *cli.Context, e env) error {
	for _, m := range e.migrators {
		fmt.Printf("Initializing migrations for module: %s\n", m.Module)
		if err := m.Migrator.Init(c.Context); err != nil {
			return fmt.Errorf("init %s: %w", m.Module, err)
		}
	}
	return nil
}

func migrateAction(c *cli.Context, e env) error {
	for _, m := range e.migrators {
		if err := m.Migrator.Init(c.Context); err != nil {
			return fmt.Errorf("init %s: %w", m.Module, err)
		}
		group, err := m.Migrator.Migrate(c.Context)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", m.Module, err)
		}
		if group.IsZero() {
			fmt.Printf("No new migrations to run for module: %s\n", m.Module)
		} else {
			fmt.Printf("Migrated module: %s to %s\n", m.Module, group)
		}
	}
	return migrateRiver(c.Context, e.cfg.Postgres.DSN)
}

// migrateRiver applies river's own job tables.
func migrateRiver(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create river migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("river migrate: %w", err)
	}
	fmt.Printf("Applied %d river migration(s)\n", len(res.Versions))
	return nil
}

func rollbackAction(c *cli.Context, e env) error {
	for i := len(e.migrators) - 1; i >= 0; i-- {
		m := e.migrators[i]
		group, err := m.Migrator.Rollback(c.Context)
		if err != nil {
			return fmt.Errorf("rollback %s: %w", m.Module, err)
		}
		if group.IsZero() {
			fmt.Printf("No groups to roll back for module: %s\n", m.Module)
		} else {
			fmt.Printf("Rolled back module: %s to %s\n", m.Module, group)
		}
	}
	return nil
}

func statusAction(c *cli.Context, e env) error {
	for _, m := range e.migrators {
		ms, err := m.Migrator.MigrationsWithStatus(c.Context)
		if err != nil {
			return fmt.Errorf("status %s: %w", m.Module, err)
		}
		fmt.Printf("%s: applied %s, pending %s\n", m.Module, ms.Applied(), ms.Unapplied())
	}
	return nil
}

func createGoAction(c *cli.Context, e env) error {
	module := c.Args().First()
	for _, m := range e.migrators {
		if m.Module != module {
			continue
		}
		name := strings.Join(c.Args().Tail(), "_")
		mf, err := m.Migrator.CreateGoMigration(c.Context, name)
		if err != nil {
			return err
		}
		fmt.Printf("Created migration for module %s: %s (%s)\n", module, mf.Name, mf.Path)
		return nil
	}
	return fmt.Errorf("invalid module name: %q", module)
}
