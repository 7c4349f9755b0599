package lobbyrouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/brett-phillips/ELO/app/eventbus"
	lobbyevents "github.com/brett-phillips/ELO/app/modules/lobby/domain/events"
	lobbyhandlers "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/handlers"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	sharedmetrics "github.com/brett-phillips/ELO/app/shared/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// LobbyRouter handles Watermill handler registration for lobby commands.
type LobbyRouter struct {
	logger         *slog.Logger
	router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metrics        sharedmetrics.Metrics
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewLobbyRouter creates a new LobbyRouter. Router metrics are skipped when
// registry is nil or APP_ENV=test.
func NewLobbyRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	m sharedmetrics.Metrics,
	registry *prometheus.Registry,
) *LobbyRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil && os.Getenv(TestEnvironmentFlag) != TestEnvironmentValue {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder = &builder
	}
	return &LobbyRouter{
		logger:         logger,
		router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metrics:        m,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds middleware and registers the lobby handlers.
func (r *LobbyRouter) Configure(_ context.Context, handlers lobbyhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.router)
	} else {
		r.logger.Info("Skipping Prometheus router metrics middleware - either in test environment or metrics not configured")
	}

	r.router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	r.registerHandlers(handlers)
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    sharedmetrics.Metrics
}

func (r *LobbyRouter) registerHandlers(handlers lobbyhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	registerHandler(deps, lobbyevents.JoinRequestedV1, handlers.HandleJoinRequested)
	registerHandler(deps, lobbyevents.LeaveRequestedV1, handlers.HandleLeaveRequested)
	registerHandler(deps, lobbyevents.ForceJoinRequestedV1, handlers.HandleForceJoinRequested)
	registerHandler(deps, lobbyevents.ForceRemoveRequestedV1, handlers.HandleForceRemoveRequested)
	registerHandler(deps, lobbyevents.ClearQueueRequestedV1, handlers.HandleClearQueueRequested)
	registerHandler(deps, lobbyevents.QueueRequestedV1, handlers.HandleQueueRequested)

	registerHandler(deps, lobbyevents.StartDraftRequestedV1, handlers.HandleStartDraftRequested)
	registerHandler(deps, lobbyevents.PickRequestedV1, handlers.HandlePickRequested)
	registerHandler(deps, lobbyevents.SubRequestedV1, handlers.HandleSubRequested)

	registerHandler(deps, lobbyevents.CreateLobbyRequestedV1, handlers.HandleCreateLobbyRequested)
	registerHandler(deps, lobbyevents.UpdateSettingsRequestedV1, handlers.HandleUpdateSettingsRequested)
	registerHandler(deps, lobbyevents.DeleteLobbyRequestedV1, handlers.HandleDeleteLobbyRequested)

	r.logger.Info("Lobby module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "lobby." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.metrics,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *LobbyRouter) Close() error {
	return r.router.Close()
}
