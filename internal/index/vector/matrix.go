// Package vector holds the dense embedding matrix and the brute-force dot product over it.
package vector

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/circuitdex/internal/domain"
)

// Matrix is a row-major rows x dim float32 matrix. Immutable after construction.
type Matrix struct {
	rows int
	dim  int
	data []float32
}

// NewMatrix wraps data as a rows x dim matrix. The slice is retained, not copied.
func NewMatrix(rows, dim int, data []float32) (*Matrix, error) {
	if rows < 0 || dim < 0 {
		return nil, fmt.Errorf("new matrix %dx%d: %w", rows, dim, domain.ErrCorpusMalformed)
	}
	if len(data) != rows*dim {
		return nil, fmt.Errorf("new matrix %dx%d with %d values: %w",
			rows, dim, len(data), domain.ErrCorpusMalformed)
	}
	return &Matrix{rows: rows, dim: dim, data: data}, nil
}

// FromRows builds a matrix from equally sized rows.
func FromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	dim := len(rows[0])
	data := make([]float32, 0, len(rows)*dim)
	for i, r := range rows {
		if len(r) != dim {
			return nil, fmt.Errorf("row %d has dim %d, want %d: %w", i, len(r), dim, domain.ErrVectorDimMismatch)
		}
		data = append(data, r...)
	}
	return &Matrix{rows: len(rows), dim: dim, data: data}, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Dim returns the row dimension.
func (m *Matrix) Dim() int { return m.dim }

// Row returns row i without copying. Callers must not modify it.
func (m *Matrix) Row(i int) []float32 {
	return m.data[i*m.dim : (i+1)*m.dim]
}

// Data returns the backing slice.
func (m *Matrix) Data() []float32 { return m.data }

// Dot returns the dot product of q with every row. Rows are unit vectors, so this is cosine similarity.
// A row whose product is not finite scores 0. A matrix without rows accepts any query.
func (m *Matrix) Dot(q []float32) ([]float64, error) {
	if m.rows == 0 {
		return []float64{}, nil
	}
	if len(q) != m.dim {
		return nil, fmt.Errorf("dot with %d-dim query on %d-dim matrix: %w", len(q), m.dim, domain.ErrVectorDimMismatch)
	}
	out := make([]float64, m.rows)
	for i := range m.rows {
		row := m.Row(i)
		var sum float64
		for j, v := range row {
			sum += float64(v) * float64(q[j])
		}
		if math.IsNaN(sum) || math.IsInf(sum, 0) {
			sum = 0
		}
		out[i] = sum
	}
	return out, nil
}

// Norm returns the euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	n := Norm(v)
	out := make([]float32, len(v))
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}
