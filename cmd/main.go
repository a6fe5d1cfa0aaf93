package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/sentinel/internal/config"
	"github.com/UnknownOlympus/sentinel/internal/geo"
	"github.com/UnknownOlympus/sentinel/internal/interpreter"
	"github.com/UnknownOlympus/sentinel/internal/metrics"
	"github.com/UnknownOlympus/sentinel/internal/orchestrator"
	"github.com/UnknownOlympus/sentinel/internal/pipeline"
	"github.com/UnknownOlympus/sentinel/internal/risk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// googleRoutingRateLimit is the Google Directions request budget per second.
const googleRoutingRateLimit = 10

// main is the entry point of the application.
func main() {
	// Cancel the run between stages on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	policy, _ := cfg.Policy()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	weatherProvider := geo.NewOpenMeteoProvider(cfg.WeatherURL, cfg.HTTPTimeout, logger)

	rateLimit := 0
	if geo.ProviderType(cfg.Routing.Provider) == geo.ProviderTypeGoogle {
		rateLimit = googleRoutingRateLimit
	}
	routeProvider, err := geo.NewRouteProvider(geo.ProviderConfig{
		Type:      geo.ProviderType(cfg.Routing.Provider),
		APIKey:    cfg.Routing.APIKey,
		BaseURL:   cfg.Routing.BaseURL,
		RateLimit: rateLimit,
		Timeout:   cfg.HTTPTimeout,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create routing provider: %v", err)
	}
	logger.InfoContext(ctx, "Routing provider initialized", "type", cfg.Routing.Provider)

	interp, err := newInterpreter(cfg, policy, appMetrics, logger)
	if err != nil {
		log.Fatalf("Failed to create interpreter: %v", err)
	}
	logger.InfoContext(ctx, "Interpreter initialized", "type", cfg.Interpreter.Provider)

	geoClient := geo.NewClient(weatherProvider, routeProvider, appMetrics, logger)
	sentinel, err := orchestrator.New(
		geoClient,
		interp,
		orchestrator.Config{User: cfg.User, Safe: cfg.Safe, Policy: policy},
		logger,
		pipeline.WithMetrics(appMetrics),
		pipeline.WithObserver(func(stageID string, status pipeline.Status) {
			logger.DebugContext(ctx, "Stage status changed", "stage", stageID, "status", status)
		}),
	)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	fmt.Println("## Starting Sentinel crew...")

	notification, err := sentinel.Run(ctx)
	writeMetrics(ctx, logger, reg, cfg.MetricsFile)
	if err != nil {
		logger.ErrorContext(ctx, "Run aborted", "error", err)
		stop()
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("## Sentinel finished. Final result:")
	fmt.Println(notification)
}

// newInterpreter returns the configured interpreter, or the rules interpreter when no model is wanted.
func newInterpreter(
	cfg *config.Config,
	policy risk.Policy,
	appMetrics *metrics.Metrics,
	logger *slog.Logger,
) (pipeline.Interpreter, error) {
	if cfg.Interpreter.Provider == config.InterpreterRules {
		return orchestrator.NewRulesInterpreter(policy), nil
	}

	return interpreter.New(interpreterConfig(cfg, appMetrics, logger))
}

// interpreterConfig bounds model requests by the same timeout as every other outbound call.
func interpreterConfig(cfg *config.Config, appMetrics *metrics.Metrics, logger *slog.Logger) interpreter.Config {
	return interpreter.Config{
		Type:    interpreter.ProviderType(cfg.Interpreter.Provider),
		APIKey:  cfg.Interpreter.APIKey,
		BaseURL: cfg.Interpreter.BaseURL,
		Model:   cfg.Interpreter.Model,
		Timeout: cfg.HTTPTimeout,
		Metrics: appMetrics,
		Logger:  logger,
	}
}

// writeMetrics dumps the registry in text exposition format when a path is configured.
func writeMetrics(ctx context.Context, log *slog.Logger, reg *prometheus.Registry, path string) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		log.ErrorContext(ctx, "Failed to write metrics file", "path", path, "error", err)
		return
	}
	log.DebugContext(ctx, "Metrics written", "path", path)
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
