package search

import (
	"math"
	"reflect"
	"testing"
)

func TestWeights_SumToOne(t *testing.T) {
	for name, w := range map[string]Weights{"hybrid": HybridWeights, "lexical": LexicalWeights} {
		if math.Abs(w.Sum()-1) > 1e-12 {
			t.Errorf("%s weights sum to %v", name, w.Sum())
		}
	}
	if HybridWeights != (Weights{Semantic: 0.45, Lexical: 0.45, Structural: 0.10}) {
		t.Errorf("hybrid weights changed: %+v", HybridWeights)
	}
}

func TestNormalizeLexical(t *testing.T) {
	got := normalizeLexical([]float64{2, 0, 4, 0}, []int{0, 2})
	want := []float64{0.5, 0, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeLexical() = %v, want %v", got, want)
	}
}

func TestNormalizeLexical_AllZero(t *testing.T) {
	got := normalizeLexical([]float64{0, 0}, []int{0, 1})
	if !reflect.DeepEqual(got, []float64{0, 0}) {
		t.Errorf("expected zeros, got %v", got)
	}
	if got := normalizeLexical(nil, nil); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestFuse(t *testing.T) {
	final := fuse([]float64{1, 0}, []float64{0, 1}, []float64{0.5, 0}, HybridWeights)
	if math.Abs(final[0]-0.5) > 1e-12 {
		t.Errorf("final[0] = %v, want 0.5", final[0])
	}
	if math.Abs(final[1]-0.45) > 1e-12 {
		t.Errorf("final[1] = %v, want 0.45", final[1])
	}
}

func TestRank_StableTies(t *testing.T) {
	got := rank([]float64{0.2, 0.9, 0.2, 0.9, 0.1}, 10, nil)
	want := []int{1, 3, 0, 2, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rank() = %v, want %v", got, want)
	}
}

func TestRank_TopKAndFilter(t *testing.T) {
	final := []float64{0.3, 0, 0.7, 0.5}
	got := rank(final, 2, func(pos int) bool { return final[pos] > 0 })
	if !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("rank() = %v", got)
	}

	got = rank(final, 10, func(pos int) bool { return final[pos] > 0 })
	if !reflect.DeepEqual(got, []int{2, 3, 0}) {
		t.Errorf("filtered rank() = %v", got)
	}
}

func TestRank_Empty(t *testing.T) {
	if got := rank(nil, 5, nil); len(got) != 0 {
		t.Errorf("expected no positions, got %v", got)
	}
}
