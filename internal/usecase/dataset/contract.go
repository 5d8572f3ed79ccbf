package dataset

import (
	"context"

	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/index/vector"
	repo "github.com/kailas-cloud/circuitdex/internal/repository/dataset"
)

// Store reads raw circuits and writes the built dataset files.
type Store interface {
	LoadRecords(ctx context.Context, path string) ([]repo.Record, error)
	SaveRecords(ctx context.Context, path string, records []repo.Record) error
	SaveEmbeddings(ctx context.Context, path string, m *vector.Matrix) error
	SaveMetadata(ctx context.Context, path string, md repo.Metadata) error
}

// Embedder vectorizes document text. Implementations that also satisfy
// domain.BatchEmbedder are called once per batch.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
