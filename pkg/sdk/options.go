package circuitdex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Cache drivers.
const (
	cacheNone   = ""
	cacheMemory = "memory"
	cacheRedis  = "redis"
)

type clientConfig struct {
	circuitsPath   string
	embeddingsPath string

	circuits []Circuit
	vectors  [][]float32

	embedder         Embedder
	embeddingModel   string
	queryInstruction string

	cacheDriver   string
	cacheAddr     string
	cachePassword string
	cacheMaxBytes int64
	cacheTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDataset loads the corpus from a circuits JSON file and an optional
// .npy embedding matrix. Pass an empty embeddingsPath for lexical-only search.
func WithDataset(circuitsPath, embeddingsPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.circuitsPath = circuitsPath
		c.embeddingsPath = embeddingsPath
	})
}

// WithCircuits uses an in-memory corpus. vectors may be nil; otherwise it
// must hold one unit-length row per circuit, in the same order.
func WithCircuits(circuits []Circuit, vectors [][]float32) Option {
	return optionFunc(func(c *clientConfig) {
		c.circuits = circuits
		c.vectors = vectors
	})
}

// WithEmbedder sets the query embedding provider. Required for hybrid search.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithEmbeddingModel names the model behind the embedder. Cached vectors are
// keyed by it, so two models never share entries. Default: "default".
func WithEmbeddingModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingModel = model
	})
}

// WithQueryInstruction prepends an instruction to every query before embedding,
// as asymmetric retrieval models expect.
func WithQueryInstruction(instruction string) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryInstruction = instruction
	})
}

// WithMemoryCache caches query embeddings in process, bounded by maxBytes.
func WithMemoryCache(maxBytes int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = cacheMemory
		c.cacheMaxBytes = maxBytes
	})
}

// WithRedisCache caches query embeddings in Redis.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = cacheRedis
		c.cacheAddr = addr
		c.cachePassword = password
	})
}

// WithCacheTTL expires cached embeddings. Zero keeps them until evicted.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts, durations, hit
// counts) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// SearchOption tunes a single query.
type SearchOption func(*searchConfig)

type searchConfig struct {
	mode SearchMode
	topK int
}

// Limit caps the number of hits. Zero selects the default of 20 and negative
// values fail with ErrInvalidRequest. There is no upper bound: a limit above the
// corpus size returns every match.
func Limit(k int) SearchOption {
	return func(s *searchConfig) { s.topK = k }
}

// Lexical selects BM25-only ranking.
func Lexical() SearchOption {
	return func(s *searchConfig) { s.mode = ModeLexical }
}

// Mode selects the ranking explicitly.
func Mode(m SearchMode) SearchOption {
	return func(s *searchConfig) { s.mode = m }
}
