package health

import (
	"context"

	"github.com/kailas-cloud/circuitdex/internal/usecase/search"
)

// IndexStater reports the size of the loaded search index.
type IndexStater interface {
	Stats() search.Stats
}

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
