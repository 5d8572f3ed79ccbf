package vector

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/circuitdex/internal/domain"
)

func TestNewMatrix_SizeMismatch(t *testing.T) {
	_, err := NewMatrix(2, 3, make([]float32, 5))
	if !errors.Is(err, domain.ErrCorpusMalformed) {
		t.Errorf("expected ErrCorpusMalformed, got %v", err)
	}
}

func TestFromRows(t *testing.T) {
	m, err := FromRows([][]float32{{1, 0}, {0, 1}, {0.6, 0.8}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Rows() != 3 || m.Dim() != 2 {
		t.Fatalf("unexpected shape %dx%d", m.Rows(), m.Dim())
	}
	if r := m.Row(2); r[0] != 0.6 || r[1] != 0.8 {
		t.Errorf("unexpected row 2: %v", r)
	}

	if _, err := FromRows([][]float32{{1, 0}, {1}}); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestDot(t *testing.T) {
	m, _ := FromRows([][]float32{{1, 0}, {0, 1}, {0.6, 0.8}})
	got, err := m.Dot([]float32{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 1, 0.8}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("row %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDot_DimMismatch(t *testing.T) {
	m, _ := FromRows([][]float32{{1, 0}})
	if _, err := m.Dot([]float32{1, 0, 0}); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestDot_EmptyMatrix(t *testing.T) {
	m, err := FromRows([][]float32{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := m.Dot([]float32{1, 0, 0})
	if err != nil {
		t.Fatalf("empty matrix must accept any query, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty scores, got %v", got)
	}
}

func TestDot_NonFiniteRowIsZero(t *testing.T) {
	nan := float32(math.NaN())
	m, _ := FromRows([][]float32{{nan, 0}, {1, 0}})
	got, err := m.Dot([]float32{1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != 0 {
		t.Errorf("NaN row must score 0, got %v", got[0])
	}
	if got[1] != 1 {
		t.Errorf("finite row must be unaffected, got %v", got[1])
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("unexpected normalized vector %v", v)
	}
	if math.Abs(Norm(v)-1) > 1e-6 {
		t.Errorf("expected unit norm, got %v", Norm(v))
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector must stay zero, got %v", zero)
	}
}

func TestNormalize_DoesNotAlias(t *testing.T) {
	in := []float32{2, 0}
	out := Normalize(in)
	if in[0] != 2 {
		t.Error("input modified")
	}
	if out[0] != 1 {
		t.Errorf("expected 1, got %v", out[0])
	}
}
