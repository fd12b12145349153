// Package matchqueue runs tournament imports as background river jobs.
package matchqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

const serviceName = "river"

// ErrEmptyImport is returned when an import has no matches.
var ErrEmptyImport = errors.New("import has no matches")

// QueueService schedules and runs tournament imports.
type QueueService interface {
	// EnqueueImport queues a tournament import. An identical import that is
	// still pending is reported as AlreadyQueued instead of being queued twice.
	EnqueueImport(ctx context.Context, args TournamentImportArgs) (JobInfo, error)
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Config sizes the import queue.
type Config struct {
	DSN        string
	MaxWorkers int
}

// Service handles tournament import jobs using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics observability.Metrics
}

// NewService connects river to Postgres and registers the import worker.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, cfg Config, metrics observability.Metrics, publisher message.Publisher, importer Importer) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_match_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 2
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewTournamentImportWorker(ctxLogger, importer, publisher))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
			QueueImports:       {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  ctxLogger,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	metrics.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))
	ctxLogger.Info("Match queue service initialized", attr.Int("import_workers", maxWorkers))

	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
	}, nil
}

// Start starts processing jobs.
func (s *Service) Start(ctx context.Context) error {
	return s.timed(ctx, "start_service", func() error {
		if err := s.client.Start(ctx); err != nil {
			return fmt.Errorf("failed to start River client: %w", err)
		}
		s.logger.Info("Match queue service started")
		return nil
	})
}

// Stop waits for running jobs and releases the pool.
func (s *Service) Stop(ctx context.Context) error {
	return s.timed(ctx, "stop_service", func() error {
		defer s.pool.Close()
		if err := s.client.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop River client: %w", err)
		}
		s.logger.Info("Match queue service stopped")
		return nil
	})
}

// EnqueueImport inserts an import job.
func (s *Service) EnqueueImport(ctx context.Context, args TournamentImportArgs) (JobInfo, error) {
	var info JobInfo
	err := s.timed(ctx, "enqueue_import", func() error {
		if len(args.Matches) == 0 {
			return ErrEmptyImport
		}
		res, err := s.client.Insert(ctx, args, nil)
		if err != nil {
			return fmt.Errorf("failed to insert import job: %w", err)
		}
		info = JobInfo{
			ID:            res.Job.ID,
			Kind:          res.Job.Kind,
			Queue:         res.Job.Queue,
			AlreadyQueued: res.UniqueSkippedAsDuplicate,
		}
		s.logger.InfoContext(ctx, "Tournament import queued",
			attr.String("tournament", args.TournamentName),
			attr.Int("matches", len(args.Matches)),
			attr.Any("job_id", info.ID),
			attr.Any("already_queued", info.AlreadyQueued),
		)
		return nil
	})
	return info, err
}

// HealthCheck verifies the job table is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.timed(ctx, "health_check", func() error {
		if s.client == nil {
			return errors.New("river client is nil")
		}
		var count int
		err := s.db.NewSelect().
			Table("river_job").
			ColumnExpr("COUNT(*)").
			Where("queue = ?", QueueImports).
			Scan(ctx, &count)
		if err != nil {
			return fmt.Errorf("queue service health check failed: %w", err)
		}
		s.logger.DebugContext(ctx, "Queue service health check passed", attr.Int("import_jobs", count))
		return nil
	})
}

func (s *Service) timed(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, operation, serviceName)
	if err := fn(); err != nil {
		s.logger.ErrorContext(ctx, "Queue operation failed", attr.String("operation", operation), attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, operation, serviceName)
		return err
	}
	s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
	s.metrics.RecordOperationDuration(ctx, operation, serviceName, time.Since(start))
	return nil
}
