package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/brett-phillips/ELO/app/eventbus"
	"github.com/brett-phillips/ELO/app/modules/lobby"
	"github.com/brett-phillips/ELO/app/modules/score"
	"github.com/brett-phillips/ELO/app/shared/observability"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	"github.com/brett-phillips/ELO/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// App holds the process-wide dependencies and the lobby and score modules.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	LobbyModule   *lobby.Module
	ScoreModule   *score.Module

	routers []*message.Router
	server  *http.Server
	logger  *slog.Logger
}

// Initialize connects to Postgres and NATS and builds both modules. Each
// module gets its own Watermill router.
func (app *App) Initialize(ctx context.Context, cfg *config.Config) error {
	app.Config = cfg
	app.Observability = observability.Init(observability.Config{
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Observability.Environment,
		LogLevel:    cfg.Observability.LogLevel,
		LogFormat:   cfg.Observability.LogFormat,
	})
	app.logger = app.Observability.Logger
	app.logger.InfoContext(ctx, "Initializing application")

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.DB = bun.NewDB(pgdb, pgdialect.New())

	bus, err := eventbus.NewNATS(ctx, cfg.NATS.URL, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	app.EventBus = bus

	lobbyRouter, err := app.newRouter()
	if err != nil {
		return err
	}
	app.LobbyModule, err = lobby.NewLobbyModule(ctx, cfg, app.Observability, bus, lobbyRouter, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize lobby module: %w", err)
	}

	scoreRouter, err := app.newRouter()
	if err != nil {
		return err
	}
	app.ScoreModule, err = score.NewScoreModule(ctx, cfg, app.Observability, bus, scoreRouter, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize score module: %w", err)
	}

	app.server = &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           NewHTTPHandler(app.logger, app.Observability.Registry, app.healthChecks()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return nil
}

func (app *App) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(app.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}
	app.routers = append(app.routers, router)
	return router, nil
}

func (app *App) healthChecks() map[string]HealthCheck {
	return map[string]HealthCheck{
		"postgres": app.DB.PingContext,
		"nats":     app.EventBus.Ping,
		"jobs":     app.LobbyModule.Jobs.HealthCheck,
	}
}

// Run starts the routers, the modules and the HTTP server, and blocks until
// ctx is cancelled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, router := range app.routers {
		g.Go(func() error {
			if err := router.Run(ctx); err != nil {
				return fmt.Errorf("watermill router: %w", err)
			}
			return nil
		})
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go app.LobbyModule.Run(ctx, &wg)
	go app.ScoreModule.Run(ctx, &wg)

	g.Go(func() error {
		app.logger.InfoContext(ctx, "HTTP server listening", attr.String("addr", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	wg.Wait()
	return err
}

// Close stops the modules and releases connections.
func (app *App) Close() error {
	app.logger.Info("Shutting down application")

	var errs []error
	if app.LobbyModule != nil {
		errs = append(errs, app.LobbyModule.Close())
	}
	if app.ScoreModule != nil {
		errs = append(errs, app.ScoreModule.Close())
	}
	if app.EventBus != nil {
		errs = append(errs, app.EventBus.Close())
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}

	err := errors.Join(errs...)
	if err != nil {
		app.logger.Error("Errors during shutdown", attr.Error(err))
	}
	return err
}
