package eval

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/domain/search/mode"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/request"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/result"
)

// DefaultTopK matches the depth the query set was judged at.
const DefaultTopK = 5

// Run is the outcome of one query in one mode. Err is set when that mode
// could not serve the query; the other mode still runs.
type Run struct {
	Results []result.Result
	Err     error
}

// Comparison holds both rankings for a query side by side.
type Comparison struct {
	Query   Query
	Hybrid  Run
	Lexical Run
	// Overlap is the number of circuits present in both top-k lists.
	Overlap int
}

// CategorySummary aggregates comparisons for one category.
type CategorySummary struct {
	Queries int
	// LexicalEmpty counts queries for which lexical mode found nothing.
	LexicalEmpty int
	// HybridEmpty counts queries for which hybrid mode found nothing or failed.
	HybridEmpty int
	MeanOverlap float64
}

// Report is the result of an evaluation pass.
type Report struct {
	TopK        int
	Comparisons []Comparison
	Summary     map[Category]CategorySummary
}

// Runner evaluates a query set in both search modes.
type Runner struct {
	search Searcher
	topK   int
	logger *zap.Logger
}

// NewRunner creates a Runner. topK <= 0 uses DefaultTopK.
func NewRunner(s Searcher, topK int, logger *zap.Logger) *Runner {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{search: s, topK: topK, logger: logger}
}

// Run evaluates queries in order. Per-mode search failures are recorded in the
// report; only context cancellation and invalid queries abort the pass.
func (r *Runner) Run(ctx context.Context, queries []Query) (Report, error) {
	rep := Report{
		TopK:        r.topK,
		Comparisons: make([]Comparison, 0, len(queries)),
		Summary:     make(map[Category]CategorySummary),
	}

	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return Report{}, fmt.Errorf("eval: %w", err)
		}

		hybrid, err := r.run(ctx, q, mode.Hybrid)
		if err != nil {
			return Report{}, err
		}
		lexical, err := r.run(ctx, q, mode.Lexical)
		if err != nil {
			return Report{}, err
		}

		c := Comparison{
			Query:   q,
			Hybrid:  hybrid,
			Lexical: lexical,
			Overlap: overlap(hybrid.Results, lexical.Results),
		}
		rep.Comparisons = append(rep.Comparisons, c)
	}

	rep.Summary = summarize(rep.Comparisons)
	return rep, nil
}

func (r *Runner) run(ctx context.Context, q Query, m mode.Mode) (Run, error) {
	req, err := request.New(q.Text, m, r.topK)
	if err != nil {
		return Run{}, fmt.Errorf("query %q: %w", q.Text, err)
	}

	res, err := r.search.Search(ctx, &req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Run{}, fmt.Errorf("eval %q: %w", q.Text, err)
		}
		r.logger.Warn("eval query failed",
			zap.String("query", q.Text),
			zap.String("mode", string(m)),
			zap.Error(err),
		)
		return Run{Err: err}, nil
	}
	return Run{Results: res}, nil
}

func overlap(a, b []result.Result) int {
	seen := make(map[int]struct{}, len(a))
	for i := range a {
		seen[a[i].Position()] = struct{}{}
	}
	n := 0
	for i := range b {
		if _, ok := seen[b[i].Position()]; ok {
			n++
		}
	}
	return n
}

func summarize(comparisons []Comparison) map[Category]CategorySummary {
	out := make(map[Category]CategorySummary)
	overlaps := make(map[Category]int)
	for i := range comparisons {
		c := &comparisons[i]
		s := out[c.Query.Category]
		s.Queries++
		if len(c.Lexical.Results) == 0 {
			s.LexicalEmpty++
		}
		if len(c.Hybrid.Results) == 0 {
			s.HybridEmpty++
		}
		overlaps[c.Query.Category] += c.Overlap
		out[c.Query.Category] = s
	}
	for cat, s := range out {
		s.MeanOverlap = float64(overlaps[cat]) / float64(s.Queries)
		out[cat] = s
	}
	return out
}
