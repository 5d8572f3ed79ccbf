package result

import (
	"testing"

	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
)

func TestNew(t *testing.T) {
	c := circuit.New(circuit.Fields{ID: 42, Name: "Decade counter"})
	r := New(3, c, Breakdown{Final: 0.7, Semantic: 0.6, Keyword: 1, Component: 1})

	if r.Position() != 3 {
		t.Errorf("Position() = %d", r.Position())
	}
	got := r.Circuit()
	if got.ID() != 42 {
		t.Errorf("Circuit().ID() = %d", got.ID())
	}
	if r.Score() != 0.7 || r.Scores().Keyword != 1 {
		t.Errorf("unexpected scores %+v", r.Scores())
	}
}
