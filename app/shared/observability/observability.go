// Package observability builds the logger, tracer and metrics shared by all modules.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Black-And-White-Club/powerrank-bot"

// Config mirrors the observability section of the service configuration.
type Config struct {
	Environment string
	LogLevel    string
	ServiceName string
}

// Observability bundles what every module constructor needs.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Metrics  Metrics
	Registry *prometheus.Registry
}

// New builds observability for the process. Metrics are registered on a fresh
// registry together with the Go and process collectors.
func New(cfg Config) Observability {
	return newWithWriter(cfg, os.Stdout)
}

func newWithWriter(cfg Config, w io.Writer) Observability {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "powerrank-bot"
	}

	logger := NewLogger(cfg, w)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(instrumentationName),
		Metrics:  NewPrometheusMetrics(registry, strings.ReplaceAll(cfg.ServiceName, "-", "_")),
		Registry: registry,
	}
}

// NewLogger returns a JSON logger, or a text logger in development.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.Environment == "development" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
