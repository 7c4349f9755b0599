package scorerouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/brett-phillips/ELO/app/eventbus"
	scoreevents "github.com/brett-phillips/ELO/app/modules/score/domain/events"
	scorehandlers "github.com/brett-phillips/ELO/app/modules/score/infrastructure/handlers"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	sharedmetrics "github.com/brett-phillips/ELO/app/shared/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// ScoreRouter handles Watermill handler registration for score commands.
type ScoreRouter struct {
	logger         *slog.Logger
	router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metrics        sharedmetrics.Metrics
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

func NewScoreRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	m sharedmetrics.Metrics,
	registry *prometheus.Registry,
) *ScoreRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil && os.Getenv(TestEnvironmentFlag) != TestEnvironmentValue {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder = &builder
	}
	return &ScoreRouter{
		logger:         logger,
		router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metrics:        m,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds middleware and registers the score handlers.
func (r *ScoreRouter) Configure(_ context.Context, handlers scorehandlers.Handlers) error {
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

	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	registerHandler(deps, scoreevents.ReportResultRequestedV1, handlers.HandleReportResultRequested)

	registerHandler(deps, scoreevents.RegisterPlayerRequestedV1, handlers.HandleRegisterPlayerRequested)
	registerHandler(deps, scoreevents.UpdateStatsRequestedV1, handlers.HandleUpdateStatsRequested)
	registerHandler(deps, scoreevents.ResetLeaderboardRequestedV1, handlers.HandleResetLeaderboardRequested)

	registerHandler(deps, scoreevents.UpdateCompetitionRequestedV1, handlers.HandleUpdateCompetitionRequested)
	registerHandler(deps, scoreevents.AddRankRequestedV1, handlers.HandleAddRankRequested)
	registerHandler(deps, scoreevents.RemoveRankRequestedV1, handlers.HandleRemoveRankRequested)

	r.logger.Info("Score module handlers registered successfully")
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    sharedmetrics.Metrics
}

func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "score." + topic

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
func (r *ScoreRouter) Close() error {
	return r.router.Close()
}
