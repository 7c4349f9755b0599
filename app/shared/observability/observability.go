package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/brett-phillips/ELO/app/shared/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config selects log output and the metrics namespace.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	LogFormat   string // json|text
}

// Observability bundles what every module needs to log, trace and count.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Metrics  metrics.LobbyMetrics
	Registry *prometheus.Registry
}

// Init builds the process-wide logger, tracer and Prometheus registry.
// Tracing uses the global otel provider, so exporters are configured by
// whoever installs that provider.
func Init(cfg Config) *Observability {
	logger := NewLogger(os.Stdout, cfg).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.Environment),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(cfg.ServiceName),
		Metrics:  metrics.NewPrometheusMetrics(reg, strings.ReplaceAll(cfg.ServiceName, "-", "_")),
		Registry: reg,
	}
}

// NewLogger returns a slog logger writing to w.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NoOpLogger discards all output.
var NoOpLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
