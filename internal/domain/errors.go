package domain

import "errors"

var (
	// ErrNotFound signals a missing circuit.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a rejected search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrCorpusMalformed signals an unreadable corpus or embedding file.
	ErrCorpusMalformed = errors.New("malformed corpus")
	// ErrCorpusIntegrity signals that the corpus and embedding matrix disagree.
	ErrCorpusIntegrity = errors.New("corpus integrity violation")
	// ErrVectorDimMismatch signals a query vector whose dimension differs from the matrix.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrSemanticUnavailable signals a hybrid query without a configured query embedder.
	ErrSemanticUnavailable = errors.New("semantic search not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
