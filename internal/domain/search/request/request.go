package request

import (
	"fmt"

	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in bytes.
	MaxQueryLength = 4096
	DefaultTopK    = 20
	// MaxTopK is the largest top_k the HTTP API accepts. Requests built
	// in-process have no upper bound; a top_k above the corpus size returns every match.
	MaxTopK = 100
)

// Request is a validated search query. An empty query is valid and yields no lexical signal.
type Request struct {
	query      string
	searchMode mode.Mode
	topK       int
}

// New validates and normalizes search parameters.
// Defaults: mode=hybrid, topK=20.
func New(query string, m mode.Mode, topK int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d bytes): %w", MaxQueryLength, domain.ErrInvalidRequest)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode %q: %w", m, domain.ErrInvalidRequest)
	}
	if topK < 0 {
		return Request{}, fmt.Errorf("top_k must be positive: %w", domain.ErrInvalidRequest)
	}
	if topK == 0 {
		topK = DefaultTopK
	}

	return Request{query: query, searchMode: m, topK: topK}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Mode returns the ranking strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// TopK returns the maximum number of results.
func (r *Request) TopK() int { return r.topK }
