package circuitdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/corpus"
	"github.com/kailas-cloud/circuitdex/internal/db"
	"github.com/kailas-cloud/circuitdex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/circuitdex/internal/db/redis"
	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/request"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/result"
	"github.com/kailas-cloud/circuitdex/internal/index/vector"
	"github.com/kailas-cloud/circuitdex/internal/repository/dataset"
	"github.com/kailas-cloud/circuitdex/internal/repository/embcache"
	healthuc "github.com/kailas-cloud/circuitdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/circuitdex/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheItems       = 10000
	defaultEmbeddingModel   = "default"
)

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
	Get(ctx context.Context, id int64) (circuit.Circuit, error)
	Stats() searchuc.Stats
}

// Client is the circuitdex SDK entry point. It is safe for concurrent use.
type Client struct {
	cache     db.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// Open loads the corpus, connects the optional embedding cache and returns a
// ready client. Any load or integrity error fails the call.
func Open(ctx context.Context, opts ...Option) (_ *Client, err error) {
	cfg := &clientConfig{embeddingModel: defaultEmbeddingModel}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.circuitsPath == "" && cfg.circuits == nil {
		return nil, errors.New("circuitdex: corpus required (use WithDataset or WithCircuits)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { obs.observe("open", start, err) }()

	cache, err := createCache(cfg)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err = cache.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			cache.Close()
			return nil, fmt.Errorf("circuitdex: cache not ready: %w", err)
		}
	}

	embed := buildEmbedder(cfg, cache)
	svc, err := openSearch(ctx, cfg, embed)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, fmt.Errorf("circuitdex: open corpus: %w", err)
	}

	return wireClient(svc, cache, cfg.embedder, obs), nil
}

func wireClient(svc searchUseCase, cache db.Store, emb Embedder, obs *observer) *Client {
	// Typed nil pointers must not reach the health service as non-nil interfaces.
	var pinger healthuc.CachePinger
	if cache != nil {
		pinger = cache
	}
	var checker healthuc.EmbeddingChecker
	if hc, ok := emb.(HealthChecker); ok {
		checker = hc
	}

	return &Client{
		cache:     cache,
		searchSvc: svc,
		healthSvc: healthuc.New(svc, pinger, checker),
		obs:       obs,
	}
}

func createCache(cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case cacheNone:
		return nil, nil
	case cacheMemory:
		s, err := memory.NewStore(memory.Config{
			MaxBytes: cfg.cacheMaxBytes,
			MaxItems: defaultCacheItems,
		})
		if err != nil {
			return nil, fmt.Errorf("circuitdex: create memory cache: %w", err)
		}
		return s, nil
	case cacheRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.cacheAddr},
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("circuitdex: create redis cache: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("circuitdex: unknown cache driver %q", cfg.cacheDriver)
	}
}

// buildEmbedder assembles adapter -> cache -> instruction prefix.
// Returns nil without an embedder so the search service stays lexical-only.
func buildEmbedder(cfg *clientConfig, cache db.Store) searchuc.Embedder {
	if cfg.embedder == nil {
		return nil
	}

	var e domain.Embedder = &embedderAdapter{inner: cfg.embedder}
	if cache != nil {
		e = embcache.New(e, cache, embcache.Options{
			Model:   cfg.embeddingModel,
			Backend: cfg.cacheDriver,
			TTL:     cfg.cacheTTL,
		}, nil, zap.NewNop())
	}
	if cfg.queryInstruction != "" {
		e = domain.NewPrefixEmbedder(e, cfg.queryInstruction)
	}
	return e
}

func openSearch(ctx context.Context, cfg *clientConfig, embed searchuc.Embedder) (*searchuc.Service, error) {
	if cfg.circuits == nil {
		src := searchuc.Source{CircuitsPath: cfg.circuitsPath, EmbeddingsPath: cfg.embeddingsPath}
		return searchuc.Open(ctx, dataset.New(zap.NewNop()), src, embed, zap.NewNop())
	}

	circuits := make([]circuit.Circuit, len(cfg.circuits))
	for i := range cfg.circuits {
		circuits[i] = toInternalCircuit(&cfg.circuits[i])
	}

	var m *vector.Matrix
	if cfg.vectors != nil {
		var err error
		m, err = vector.FromRows(cfg.vectors)
		if err != nil {
			return nil, fmt.Errorf("embedding matrix: %w", err)
		}
	}
	return searchuc.New(corpus.New(circuits), m, embed, zap.NewNop())
}

// Close releases the embedding cache.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Stats describes the loaded corpus.
func (c *Client) Stats() Stats {
	st := c.searchSvc.Stats()
	return Stats{
		Circuits:       st.Circuits,
		LexicallyValid: st.LexicallyValid,
		Dimension:      st.Dimension,
		Semantic:       st.Semantic,
	}
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
