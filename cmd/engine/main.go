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
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/neo-risk-engine/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/neo-risk-engine/internal/adapter/kafka"
	"github.com/couchcryptid/neo-risk-engine/internal/adapter/neows"
	"github.com/couchcryptid/neo-risk-engine/internal/config"
	"github.com/couchcryptid/neo-risk-engine/internal/domain"
	"github.com/couchcryptid/neo-risk-engine/internal/observability"
	"github.com/couchcryptid/neo-risk-engine/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		slog.Error("engine exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "neo-risk-engine")
	metrics := observability.NewMetrics()

	// NeoWs lookups are feature-flagged via NEOWS_ENABLED / NEOWS_API_KEY.
	var lookup domain.NeoLookup
	if cfg.NeoWsEnabled {
		client := neows.NewClient(cfg.NeoWsAPIKey, cfg.NeoWsBaseURL, cfg.NeoWsTimeout, metrics, logger)
		cached, err := neows.NewCachedLookup(client, cfg.NeoWsCacheSize, metrics)
		if err != nil {
			return err
		}
		lookup = cached
		metrics.NeoWsEnabled.Set(1)
		logger.Info("neows lookup enabled", "cache_size", cfg.NeoWsCacheSize, "timeout", cfg.NeoWsTimeout)
	} else {
		logger.Info("neows lookup disabled")
	}

	var (
		p      *pipeline.Pipeline
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
		ready  sharedobs.ReadinessChecker = httpadapter.AlwaysReady{}
	)
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p = pipeline.New(reader, pipeline.NewTransformer(logger), writer, logger, metrics, cfg.BatchSize)
		ready = p
	} else {
		logger.Info("kafka pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, lookup, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if p != nil {
		g.Go(func() error {
			return p.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
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
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("engine stopped with error", "error", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
