package lobby

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/brett-phillips/ELO/app/eventbus"
	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	lobbyhandlers "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/handlers"
	lobbyjobs "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/jobs"
	lobbynotifier "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/notifier"
	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	lobbyrouter "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/router"
	"github.com/brett-phillips/ELO/app/shared/observability"
	"github.com/brett-phillips/ELO/config"
	"github.com/uptrace/bun"
)

// Module represents the lobby module.
type Module struct {
	LobbyService lobbyservice.Service
	LobbyRouter  *lobbyrouter.LobbyRouter
	Jobs         *lobbyjobs.Service
	logger       *slog.Logger
	cancelFunc   context.CancelFunc
}

// NewLobbyModule creates and initializes a new lobby module.
func NewLobbyModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "lobby"))
	logger.InfoContext(ctx, "lobby.NewLobbyModule initializing")

	seed := cfg.Lobby.CaptainSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	service := lobbyservice.NewLobbyService(
		lobbydb.NewRepository(db),
		lobbynotifier.New(eventBus, logger),
		lobbydomain.NewModeSelector(seed),
		lobbyservice.NewCooldownCache(cfg.Lobby.CooldownIdleTTL),
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
		lobbyservice.WithDBTimeout(cfg.Lobby.DBTimeout),
	)

	handlers := lobbyhandlers.NewLobbyHandlers(
		service,
		lobbyhandlers.NewUserRateLimiter(cfg.Lobby.CommandInterval),
		logger,
		obs.Tracer,
	)

	lobbyRouter := lobbyrouter.NewLobbyRouter(logger, router, eventBus, eventBus, obs.Tracer, obs.Metrics, obs.Registry)
	if err := lobbyRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure lobby router: %w", err)
	}

	jobs, err := lobbyjobs.NewService(ctx, cfg.Postgres.DSN, service, lobbyjobs.Config{
		Interval:     cfg.Lobby.SweepInterval,
		InitialDelay: cfg.Lobby.SweepInitialDelay,
	}, logger, obs.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create lobby job service: %w", err)
	}

	return &Module{
		LobbyService: service,
		LobbyRouter:  lobbyRouter,
		Jobs:         jobs,
		logger:       logger,
	}, nil
}

// Run starts the sweep scheduler and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting lobby module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.Jobs.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start lobby job service", slog.String("error", err.Error()))
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Lobby module goroutine stopped")
}

// Close shuts down the lobby module.
func (m *Module) Close() error {
	m.logger.Info("Stopping lobby module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	var firstErr error
	if m.Jobs != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.Jobs.Stop(stopCtx); err != nil {
			firstErr = fmt.Errorf("error stopping lobby jobs: %w", err)
		}
	}
	if m.LobbyRouter != nil {
		if err := m.LobbyRouter.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("error closing LobbyRouter: %w", err)
		}
	}

	m.logger.Info("Lobby module stopped")
	return firstErr
}
