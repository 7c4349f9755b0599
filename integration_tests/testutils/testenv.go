//go:build integration

package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	lobbymigrations "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories/migrations"
	scoremigrations "github.com/brett-phillips/ELO/app/modules/score/infrastructure/repositories/migrations"
	"github.com/brett-phillips/ELO/config"
	"github.com/brett-phillips/ELO/integration_tests/containers"
)

// appTables lists every module table, children first.
var appTables = []string{
	"team_players", "team_captains", "games", "queued_players", "bans", "lobbies",
	"players", "ranks", "competitions",
}

// TestEnvironment holds all resources needed for integration testing.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DB            *bun.DB
	Config        *config.Config
}

// NewTestEnvironment starts Postgres and NATS and migrates the schema.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Cleanup()
		return nil, err
	}
	env.NatsContainer = natsContainer

	env.DB = bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn))), pgdialect.New())
	if err := runMigrations(ctx, env.DB, dsn); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: dsn},
		NATS:     config.NATSConfig{URL: natsURL},
		Lobby: config.LobbyConfig{
			SweepInterval:     time.Hour,
			SweepInitialDelay: time.Hour,
			CommandInterval:   time.Millisecond,
			CooldownIdleTTL:   time.Hour,
			DBTimeout:         10 * time.Second,
			CaptainSeed:       1,
		},
	}
	return env, nil
}

func runMigrations(ctx context.Context, db *bun.DB, dsn string) error {
	if err := runRiverMigrations(ctx, dsn); err != nil {
		return err
	}

	ordered := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"score", scoremigrations.Migrations},
		{"lobby", lobbymigrations.Migrations},
	}
	for _, mod := range ordered {
		migrator := migrate.NewMigrator(db, mod.migrations,
			migrate.WithTableName("bun_migrations_"+mod.name),
			migrate.WithLocksTableName("bun_migration_locks_"+mod.name),
		)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", mod.name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
		log.Printf("Ran %s migrations group #%d", mod.name, group.ID)
	}
	return nil
}

func runRiverMigrations(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

// CleanupDatabase truncates all module tables and queued River jobs.
func (env *TestEnvironment) CleanupDatabase(ctx context.Context) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := env.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := env.DB.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to cleanup river jobs: %w", err)
	}
	return nil
}

// Cleanup tears down all resources created for testing.
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.DB != nil {
		_ = env.DB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
}
