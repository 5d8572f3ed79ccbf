package circuitdex

import "github.com/kailas-cloud/circuitdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrCorpusMalformed        = domain.ErrCorpusMalformed
	ErrCorpusIntegrity        = domain.ErrCorpusIntegrity
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrSemanticUnavailable    = domain.ErrSemanticUnavailable
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
