package circuitdex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
	"github.com/kailas-cloud/circuitdex/internal/domain/component"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/mode"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/request"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/result"
)

// Search ranks the corpus for query. Hybrid is the default mode.
// An empty query is valid and ranks by the non-lexical signals only.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (_ []Hit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	sc := searchConfig{mode: ModeHybrid}
	for _, o := range opts {
		o(&sc)
	}

	req, err := request.New(query, mode.Parse(string(sc.mode)), sc.topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	c.obs.observeHits(SearchMode(req.Mode()), len(results))
	return fromResults(results), nil
}

// Get returns a circuit by its stable ID.
func (c *Client) Get(ctx context.Context, id int64) (_ Circuit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	ci, err := c.searchSvc.Get(ctx, id)
	if err != nil {
		return Circuit{}, fmt.Errorf("get circuit %d: %w", id, err)
	}
	return fromInternalCircuit(&ci), nil
}

func fromResults(results []result.Result) []Hit {
	hits := make([]Hit, len(results))
	for i := range results {
		r := &results[i]
		ci := r.Circuit()
		s := r.Scores()
		hits[i] = Hit{
			Rank:    i + 1,
			Circuit: fromInternalCircuit(&ci),
			Score:   s.Final,
			Scores: Scores{
				Semantic:  s.Semantic,
				Keyword:   s.Keyword,
				Component: s.Component,
			},
		}
	}
	return hits
}

func fromInternalCircuit(c *circuit.Circuit) Circuit {
	var components map[string]int
	if b := c.Breakdown(); len(b) > 0 {
		components = make(map[string]int, len(b))
		for t, n := range b {
			components[string(t)] = n
		}
	}
	return Circuit{
		ID:             c.ID(),
		Name:           c.Name(),
		Description:    c.Description(),
		Tags:           append([]string(nil), c.Tags()...),
		Components:     components,
		EmbeddingText:  c.EmbeddingText(),
		ScopeNames:     append([]string(nil), c.ScopeNames()...),
		ComponentCount: c.ComponentCount(),
	}
}

func toInternalCircuit(c *Circuit) circuit.Circuit {
	var b component.Breakdown
	if len(c.Components) > 0 {
		b = make(component.Breakdown, len(c.Components))
		for t, n := range c.Components {
			b[component.Type(t)] = n
		}
	}
	return circuit.New(circuit.Fields{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Tags:           c.Tags,
		Breakdown:      b,
		EmbeddingText:  c.EmbeddingText,
		ScopeNames:     c.ScopeNames,
		ComponentCount: c.ComponentCount,
	})
}
