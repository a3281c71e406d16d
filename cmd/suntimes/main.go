package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	httpadapter "github.com/couchcryptid/suntimes/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/suntimes/internal/adapter/kafka"
	"github.com/couchcryptid/suntimes/internal/adapter/tzfinder"
	"github.com/couchcryptid/suntimes/internal/cities"
	"github.com/couchcryptid/suntimes/internal/config"
	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/couchcryptid/suntimes/internal/observability"
	"github.com/couchcryptid/suntimes/internal/pipeline"
	"github.com/couchcryptid/suntimes/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	table := cities.Default()
	if cfg.CitiesFile != "" {
		table, err = cities.LoadFile(cfg.CitiesFile)
		if err != nil {
			logger.Error("failed to load cities file", "error", err, "path", cfg.CitiesFile)
			os.Exit(1)
		}
	}
	logger.Info("city table loaded", "cities", table.Len())

	// Zone inference is feature-flagged via TZ_INFERENCE_ENABLED.
	var finder domain.ZoneFinder
	if cfg.TZInferenceEnabled {
		f, err := tzfinder.New(metrics, logger)
		if err != nil {
			logger.Error("failed to load time zone data", "error", err)
			os.Exit(1)
		}
		finder = tzfinder.NewCachedFinder(f, cfg.TZCacheSize, metrics)
		metrics.ZoneInferenceEnabled.Set(1)
		logger.Info("time zone inference enabled", "cache_size", cfg.TZCacheSize)
	} else {
		logger.Info("time zone inference disabled")
	}

	builder := report.NewBuilder(table, finder, report.Settings{
		Zenith:     cfg.Zenith,
		DateWindow: cfg.DateWindow,
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ready sharedobs.ReadinessChecker = builder
	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(builder, metrics, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, builder, ready, metrics, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
