package lobbyjobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	"github.com/brett-phillips/ELO/app/shared/observability/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

const riverService = "river"

// Config controls the sweep schedule.
type Config struct {
	Interval     time.Duration
	InitialDelay time.Duration
}

// Service owns the River client that schedules the queue timeout sweep.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics.Metrics
}

// NewService connects a pgx pool for River, applies River's migrations and
// registers the periodic sweep. Only the elected River leader enqueues
// periodic jobs, so replicas do not sweep concurrently.
func NewService(ctx context.Context, dsn string, lobbies lobbyservice.Service, cfg Config, logger *slog.Logger, m metrics.Metrics) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
		attr.String("module", "lobby"),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", riverService)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", riverService)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", riverService)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", riverService)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver := riverpgxv5.New(pool)
	if err := migrate(ctx, driver, ctxLogger); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", riverService)
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewSweepWorker(lobbies, ctxLogger, nil))

	client, err := river.NewClient(driver, &river.Config{
		Logger: ctxLogger,
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: 1},
		},
		Workers:      workers,
		PeriodicJobs: PeriodicJobs(time.Now(), cfg),
	})
	if err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", riverService)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", riverService)
	m.RecordOperationDuration(ctx, "initialize_service", riverService, time.Since(start))
	ctxLogger.Info("Lobby queue service initialized",
		attr.Duration("sweep_interval", cfg.Interval),
		attr.Duration("initial_delay", cfg.InitialDelay),
	)

	return &Service{client: client, pool: pool, logger: ctxLogger, metrics: m}, nil
}

// PeriodicJobs returns the sweep registration for a process started at start.
func PeriodicJobs(start time.Time, cfg Config) []*river.PeriodicJob {
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			newSweepSchedule(start, cfg.InitialDelay, cfg.Interval),
			func() (river.JobArgs, *river.InsertOpts) {
				return SweepQueueTimeoutsArgs{}, &river.InsertOpts{
					Queue:       QueueName,
					MaxAttempts: 1,
				}
			},
			nil,
		),
	}
}

func migrate(ctx context.Context, driver *riverpgxv5.Driver, logger *slog.Logger) error {
	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("failed to migrate River schema: %w", err)
	}
	for _, v := range res.Versions {
		logger.InfoContext(ctx, "Applied River migration", attr.Int("version", v.Version))
	}
	return nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", riverService)

	if err := s.client.Start(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "start_service", riverService)
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", riverService)
	s.metrics.RecordOperationDuration(ctx, "start_service", riverService, time.Since(start))
	s.logger.Info("Lobby queue service started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("Lobby queue service stopped")
	return nil
}

// HealthCheck pings the River pool.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("river pool unhealthy: %w", err)
	}
	return nil
}
