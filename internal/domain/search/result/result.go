package result

import "github.com/kailas-cloud/circuitdex/internal/domain/circuit"

// Breakdown holds the per-channel scores behind a ranking.
// Keyword is the max-normalized lexical score.
type Breakdown struct {
	Final     float64
	Semantic  float64
	Keyword   float64
	Component float64
}

// Result is a single ranked circuit.
type Result struct {
	position int
	circuit  circuit.Circuit
	scores   Breakdown
}

// New creates a search result.
func New(position int, c circuit.Circuit, scores Breakdown) Result {
	return Result{position: position, circuit: c, scores: scores}
}

// Position returns the dense corpus position of the circuit.
func (r *Result) Position() int { return r.position }

// Circuit returns the matched circuit.
func (r *Result) Circuit() circuit.Circuit { return r.circuit }

// Scores returns the score breakdown.
func (r *Result) Scores() Breakdown { return r.scores }

// Score returns the final fused score.
func (r *Result) Score() float64 { return r.scores.Final }
