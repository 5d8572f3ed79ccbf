// Package bootstrap assembles the components shared by the circuitdex server
// and the circuitctl CLI from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/config"
	"github.com/kailas-cloud/circuitdex/internal/db"
	"github.com/kailas-cloud/circuitdex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/circuitdex/internal/db/redis"
	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/metrics"
	"github.com/kailas-cloud/circuitdex/internal/repository/dataset"
	"github.com/kailas-cloud/circuitdex/internal/repository/embcache"
	openaiEmb "github.com/kailas-cloud/circuitdex/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/circuitdex/internal/usecase/embedding"
	searchuc "github.com/kailas-cloud/circuitdex/internal/usecase/search"
)

// Cache opens the embedding cache selected by cfg and waits until it answers.
// Returns a nil store for the "none" driver.
func Cache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.CacheDriverNone:
		return nil, nil
	case config.CacheDriverMemory:
		store, err = memory.NewStore(memory.Config{MaxBytes: cfg.MaxBytes, MaxItems: cfg.MaxItems})
	case config.CacheDriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:       cfg.Addrs,
			Username:    cfg.Username,
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: time.Duration(cfg.ReadinessTimeout) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", cfg.Driver, err)
	}

	timeout := time.Duration(cfg.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s cache not ready: %w", cfg.Driver, err)
	}
	logger.Info("Embedding cache ready", zap.String("driver", cfg.Driver), zap.Strings("addrs", cfg.Addrs))
	return store, nil
}

// Embedding is an assembled embedder chain plus the provider at its base,
// which answers health checks.
type Embedding struct {
	Embedder domain.Embedder
	Provider *openaiEmb.Embedder
}

// HealthCheck probes the provider.
func (e *Embedding) HealthCheck(ctx context.Context) error {
	if err := e.Provider.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding health check: %w", err)
	}
	return nil
}

// BuildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
// store may be nil to skip caching. Returns nil when no provider is configured.
func BuildEmbedder(
	cfg config.EmbeddingConfig,
	instruction string,
	store db.Store,
	cacheCfg config.CacheConfig,
	logger *zap.Logger,
) *Embedding {
	if !cfg.Enabled() {
		return nil
	}

	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	// Cached
	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, embcache.Options{
			Model:   cfg.Model,
			Backend: cacheCfg.Driver,
			TTL:     time.Duration(cacheCfg.TTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	// Instrumented (logging, chunking, dimension check)
	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Provider, cfg.Model, cfg.Dimensions, logger,
	).WithBatchSize(cfg.BatchSize)

	// Instruction prefix (outermost, so the cache key includes the instruction)
	if instruction != "" {
		embedder = domain.NewPrefixEmbedder(embedder, instruction)
	}

	return &Embedding{Embedder: embedder, Provider: base}
}

// OpenSearch loads the dataset named in cfg and builds the search service.
// emb may be nil, in which case only lexical queries are served.
func OpenSearch(
	ctx context.Context, cfg config.DatasetConfig, emb *Embedding, logger *zap.Logger,
) (*searchuc.Service, error) {
	repo := dataset.New(logger)

	if cfg.MetadataPath != "" {
		md, err := repo.LoadMetadata(ctx, cfg.MetadataPath)
		if err != nil {
			return nil, fmt.Errorf("load metadata: %w", err)
		}
		logger.Info("Dataset metadata",
			zap.String("timestamp", md.Timestamp),
			zap.String("model", md.ModelName),
			zap.Int("circuits", md.NumCircuits),
			zap.Int("dimension", md.EmbeddingDimension),
			zap.Bool("normalized", md.EmbeddingsNormalized),
		)
	}

	var embed searchuc.Embedder
	if emb != nil {
		embed = emb.Embedder
	}

	svc, err := searchuc.Open(ctx, repo, searchuc.Source{
		CircuitsPath:   cfg.CircuitsPath,
		EmbeddingsPath: cfg.EmbeddingsPath,
	}, embed, logger)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return svc, nil
}
