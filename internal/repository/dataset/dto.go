package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
	"github.com/kailas-cloud/circuitdex/internal/domain/component"
)

// JSON field names of a circuit record.
const (
	fieldEmbeddingText = "embedding_text"
)

// circuitRow is the JSON shape of a circuit. Absent or null fields decode to zero values.
type circuitRow struct {
	ID             flexibleID     `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Tags           []string       `json:"tags"`
	Breakdown      map[string]int `json:"component_breakdown"`
	EmbeddingText  string         `json:"embedding_text"`
	ScopeNames     []string       `json:"scope_names"`
	ComponentCount int            `json:"component_count"`
}

// flexibleID accepts ids written as JSON numbers or numeric strings.
type flexibleID int64

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		b = []byte(s)
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", b, err)
	}
	*id = flexibleID(v)
	return nil
}

// rowToCircuit converts a decoded row. Unknown component keys are kept.
func rowToCircuit(r *circuitRow) circuit.Circuit {
	var b component.Breakdown
	if len(r.Breakdown) > 0 {
		b = make(component.Breakdown, len(r.Breakdown))
		for k, v := range r.Breakdown {
			b[component.Type(k)] = v
		}
	}
	return circuit.New(circuit.Fields{
		ID:             int64(r.ID),
		Name:           r.Name,
		Description:    r.Description,
		Tags:           r.Tags,
		Breakdown:      b,
		EmbeddingText:  r.EmbeddingText,
		ScopeNames:     r.ScopeNames,
		ComponentCount: r.ComponentCount,
	})
}

// Record is a circuit together with its raw JSON object, so rewriting a file
// preserves fields circuitdex does not model.
type Record struct {
	Circuit circuit.Circuit
	raw     map[string]json.RawMessage
}

// NewRecord wraps a circuit that has no backing JSON object.
func NewRecord(c circuit.Circuit) Record {
	return Record{Circuit: c}
}

// MarshalJSON writes the raw object with embedding_text replaced by the circuit's current text.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return json.Marshal(circuitToRow(r.Circuit))
	}
	out := make(map[string]json.RawMessage, len(r.raw)+1)
	for k, v := range r.raw {
		out[k] = v
	}
	text, err := json.Marshal(r.Circuit.EmbeddingText())
	if err != nil {
		return nil, fmt.Errorf("marshal embedding text: %w", err)
	}
	out[fieldEmbeddingText] = text
	return json.Marshal(out)
}

func circuitToRow(c circuit.Circuit) circuitRow {
	var b map[string]int
	if bd := c.Breakdown(); len(bd) > 0 {
		b = make(map[string]int, len(bd))
		for k, v := range bd {
			b[string(k)] = v
		}
	}
	return circuitRow{
		ID:             flexibleID(c.ID()),
		Name:           c.Name(),
		Description:    c.Description(),
		Tags:           c.Tags(),
		Breakdown:      b,
		EmbeddingText:  c.EmbeddingText(),
		ScopeNames:     c.ScopeNames(),
		ComponentCount: c.ComponentCount(),
	}
}

// Metadata describes one dataset build.
type Metadata struct {
	Timestamp                string        `json:"timestamp"`
	NumCircuits              int           `json:"num_circuits"`
	EmbeddingDimension       int           `json:"embedding_dimension"`
	ModelName                string        `json:"model_name"`
	CircuitsWithDescriptions int           `json:"circuits_with_descriptions"`
	CircuitsWithScopeNames   int           `json:"circuits_with_scope_names"`
	CircuitsWithComponents   int           `json:"circuits_with_components"`
	MeanTextLength           float64       `json:"mean_text_length"`
	EmbeddingsNormalized     bool          `json:"embeddings_normalized"`
	Files                    MetadataFiles `json:"files"`
}

// MetadataFiles names the artifacts of a build, relative to the output directory.
type MetadataFiles struct {
	Embeddings string `json:"embeddings"`
	Circuits   string `json:"circuits"`
}
