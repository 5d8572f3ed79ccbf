package domain

import "context"

type embeddingUsageKey struct{}

// EmbeddingUsage collects the tokens spent embedding queries for one HTTP request.
// The handler stores a pointer in the context, the search service records into it.
type EmbeddingUsage struct {
	TotalTokens int
	Used        bool // set on cache hits too, which cost 0 tokens
}

// NewContextWithUsage attaches a fresh usage collector to ctx.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext returns the collector attached to ctx, or nil.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// AddTokens records consumed tokens. Safe on a nil receiver.
func (u *EmbeddingUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.TotalTokens += n
	u.Used = true
}
