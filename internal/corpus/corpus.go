// Package corpus holds the ordered circuit collection and the subset of it that is lexically indexed.
package corpus

import (
	"fmt"

	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
	"github.com/kailas-cloud/circuitdex/internal/index/tokenize"
)

// LexicalScorer scores a tokenized query against the valid subset, one score per subset document.
type LexicalScorer interface {
	Len() int
	Score(query []string) []float64
}

// Corpus is an immutable, order-stable list of circuits. A circuit's dense position is its
// index in the list and aligns with the embedding matrix row.
type Corpus struct {
	circuits []circuit.Circuit
	valid    []int
	byID     map[int64]int
}

// New builds a corpus and records the lexically valid positions.
// When IDs repeat, lookups resolve to the first position.
func New(circuits []circuit.Circuit) *Corpus {
	c := &Corpus{
		circuits: circuits,
		byID:     make(map[int64]int, len(circuits)),
	}
	for pos := range circuits {
		if circuits[pos].IsLexicallyValid() {
			c.valid = append(c.valid, pos)
		}
		if _, dup := c.byID[circuits[pos].ID()]; !dup {
			c.byID[circuits[pos].ID()] = pos
		}
	}
	return c
}

// Len returns the number of circuits.
func (c *Corpus) Len() int { return len(c.circuits) }

// At returns the circuit at dense position pos.
func (c *Corpus) At(pos int) circuit.Circuit { return c.circuits[pos] }

// Circuits returns all circuits in dense order. Callers must not modify the slice.
func (c *Corpus) Circuits() []circuit.Circuit { return c.circuits }

// ValidPositions returns the dense positions of the lexically valid subset in ascending order.
func (c *Corpus) ValidPositions() []int { return c.valid }

// ByID returns the circuit with the given stable ID and its dense position.
func (c *Corpus) ByID(id int64) (circuit.Circuit, int, error) {
	pos, ok := c.byID[id]
	if !ok {
		return circuit.Circuit{}, -1, fmt.Errorf("circuit %d: %w", id, domain.ErrNotFound)
	}
	return c.circuits[pos], pos, nil
}

// LexicalDocuments tokenizes the enriched text of every valid circuit, in subset order.
func (c *Corpus) LexicalDocuments() [][]string {
	docs := make([][]string, len(c.valid))
	for i, pos := range c.valid {
		docs[i] = tokenize.Tokenize(c.circuits[pos].EmbeddingText())
	}
	return docs
}

// LexicalScores scores query on the subset index and scatters the result into a
// full-length buffer. Positions outside the valid subset stay 0.
func (c *Corpus) LexicalScores(idx LexicalScorer, query []string) ([]float64, error) {
	full := make([]float64, len(c.circuits))
	if len(c.valid) == 0 {
		return full, nil
	}
	if idx.Len() != len(c.valid) {
		return nil, fmt.Errorf("lexical index has %d documents, valid subset has %d: %w",
			idx.Len(), len(c.valid), domain.ErrCorpusIntegrity)
	}
	subset := idx.Score(query)
	for i, pos := range c.valid {
		full[pos] = subset[i]
	}
	return full, nil
}
