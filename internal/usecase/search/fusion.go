package search

import (
	"cmp"
	"slices"
)

// Weights are the per-channel fusion coefficients. They sum to 1.
type Weights struct {
	Semantic   float64
	Lexical    float64
	Structural float64
}

// Sum returns the total weight.
func (w Weights) Sum() float64 { return w.Semantic + w.Lexical + w.Structural }

var (
	// HybridWeights rank by meaning and wording equally with a small structural nudge.
	HybridWeights = Weights{Semantic: 0.45, Lexical: 0.45, Structural: 0.10}
	// LexicalWeights rank by BM25 alone.
	LexicalWeights = Weights{Semantic: 0, Lexical: 1, Structural: 0}
)

// normalizeLexical divides scores by their maximum over the valid positions when that maximum is positive.
// Positions outside valid are zero already and stay zero.
func normalizeLexical(scores []float64, valid []int) []float64 {
	out := make([]float64, len(scores))
	maxScore := 0.0
	for _, pos := range valid {
		maxScore = max(maxScore, scores[pos])
	}
	if maxScore <= 0 {
		return out
	}
	for _, pos := range valid {
		out[pos] = scores[pos] / maxScore
	}
	return out
}

// fuse combines the aligned channel scores into final scores.
func fuse(semantic, lexical, structural []float64, w Weights) []float64 {
	final := make([]float64, len(lexical))
	for i := range final {
		final[i] = w.Semantic*semantic[i] + w.Lexical*lexical[i] + w.Structural*structural[i]
	}
	return final
}

// rank returns up to k positions ordered by final score descending. Equal scores keep
// ascending position order. keep, when set, excludes positions it rejects.
func rank(final []float64, k int, keep func(pos int) bool) []int {
	positions := make([]int, 0, len(final))
	for pos := range final {
		if keep == nil || keep(pos) {
			positions = append(positions, pos)
		}
	}
	slices.SortStableFunc(positions, func(a, b int) int {
		return cmp.Compare(final[b], final[a])
	})
	if len(positions) > k {
		positions = positions[:k]
	}
	return positions
}
