package search

import (
	"context"

	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
	"github.com/kailas-cloud/circuitdex/internal/index/vector"
)

// Loader reads the dataset files the service is built from.
type Loader interface {
	LoadCircuits(ctx context.Context, path string) ([]circuit.Circuit, error)
	LoadEmbeddings(ctx context.Context, path string) (*vector.Matrix, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
