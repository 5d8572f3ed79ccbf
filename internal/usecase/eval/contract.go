package eval

import (
	"context"

	"github.com/kailas-cloud/circuitdex/internal/domain/search/request"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/result"
)

// Searcher ranks circuits for a request.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}
