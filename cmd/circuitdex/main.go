package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/bootstrap"
	"github.com/kailas-cloud/circuitdex/internal/config"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/mode"
	logpkg "github.com/kailas-cloud/circuitdex/internal/logger"
	"github.com/kailas-cloud/circuitdex/internal/metrics"
	chiTransport "github.com/kailas-cloud/circuitdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/circuitdex/internal/usecase/health"
	"github.com/kailas-cloud/circuitdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting circuitdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("circuits_path", cfg.Dataset.CircuitsPath),
		zap.String("embeddings_path", cfg.Dataset.EmbeddingsPath),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterHTTPMetrics()

	ctx := context.Background()

	cache, err := bootstrap.Cache(ctx, cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Embedding cache unavailable", zap.Error(err))
	}
	if cache != nil {
		defer cache.Close()
	}

	// Build embedder chain (composition root)
	queryEmbedding := bootstrap.BuildEmbedder(cfg.Embedding, cfg.Embedding.QueryInstruction, cache, cfg.Cache, logger)
	if queryEmbedding != nil {
		logger.Info("Query embedder created",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	} else {
		logger.Warn("No embedding provider configured, hybrid search disabled")
	}

	searchSvc, err := bootstrap.OpenSearch(ctx, cfg.Dataset, queryEmbedding, logger)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}

	// Pass nil interfaces (not typed nil pointers) for absent components.
	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	var embChecker healthuc.EmbeddingChecker
	if queryEmbedding != nil {
		embChecker = queryEmbedding
	}
	healthSvc := healthuc.New(searchSvc, cachePinger, embChecker)

	defaultMode := mode.Parse(cfg.Search.DefaultMode)
	if defaultMode == mode.Hybrid && !searchSvc.Stats().Semantic {
		logger.Warn("Semantic search unavailable, defaulting to lexical mode")
		defaultMode = mode.Lexical
	}

	server := chiTransport.NewServer(searchSvc, healthSvc, logger).
		WithDefaultMode(defaultMode).
		WithQueryTimeout(time.Duration(cfg.Search.QueryTimeoutSec) * time.Second)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
