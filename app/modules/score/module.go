package score

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/brett-phillips/ELO/app/eventbus"
	lobbynotifier "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/notifier"
	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	scoreservice "github.com/brett-phillips/ELO/app/modules/score/application"
	scorehandlers "github.com/brett-phillips/ELO/app/modules/score/infrastructure/handlers"
	scoredb "github.com/brett-phillips/ELO/app/modules/score/infrastructure/repositories"
	scorerouter "github.com/brett-phillips/ELO/app/modules/score/infrastructure/router"
	"github.com/brett-phillips/ELO/app/shared/observability"
	"github.com/brett-phillips/ELO/config"
	"github.com/uptrace/bun"
)

// Module represents the score module.
type Module struct {
	ScoreService scoreservice.Service
	ScoreRouter  *scorerouter.ScoreRouter
	logger       *slog.Logger
	cancelFunc   context.CancelFunc
}

// NewScoreModule creates a new instance of the score module. Games are read
// through the lobby repository; both modules share one database.
func NewScoreModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "score"))
	logger.InfoContext(ctx, "score.NewScoreModule initializing")

	service := scoreservice.NewScoreService(
		scoredb.NewRepository(db),
		lobbydb.NewRepository(db),
		lobbynotifier.New(eventBus, logger),
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
		scoreservice.WithDBTimeout(cfg.Lobby.DBTimeout),
	)

	scoreRouter := scorerouter.NewScoreRouter(logger, router, eventBus, eventBus, obs.Tracer, obs.Metrics, obs.Registry)
	if err := scoreRouter.Configure(ctx, scorehandlers.NewScoreHandlers(service, logger, obs.Tracer)); err != nil {
		return nil, fmt.Errorf("failed to configure score router: %w", err)
	}

	return &Module{
		ScoreService: service,
		ScoreRouter:  scoreRouter,
		logger:       logger,
	}, nil
}

// Run blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting score module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Score module goroutine stopped")
}

// Close shuts down the score module.
func (m *Module) Close() error {
	m.logger.Info("Stopping score module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if m.ScoreRouter != nil {
		if err := m.ScoreRouter.Close(); err != nil {
			return fmt.Errorf("error closing ScoreRouter: %w", err)
		}
	}

	m.logger.Info("Score module stopped")
	return nil
}
