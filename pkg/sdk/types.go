package circuitdex

// SearchMode controls the ranking.
type SearchMode string

// Search mode constants.
const (
	// ModeHybrid fuses semantic, lexical and structural scores.
	ModeHybrid SearchMode = "hybrid"
	// ModeLexical ranks by BM25 alone and drops circuits without a keyword match.
	ModeLexical SearchMode = "lexical"
)

// Circuit is one searchable circuit design.
type Circuit struct {
	ID             int64
	Name           string
	Description    string
	Tags           []string
	Components     map[string]int // component type -> count
	EmbeddingText  string
	ScopeNames     []string
	ComponentCount int
}

// Title returns the name, or "untitled" when it is empty.
func (c *Circuit) Title() string {
	if c.Name == "" {
		return "untitled"
	}
	return c.Name
}

// Scores is the per-signal breakdown behind a hit.
type Scores struct {
	Semantic  float64
	Keyword   float64 // BM25 divided by the corpus maximum for the query
	Component float64 // 0, 0.5 or 1
}

// Hit is a single ranked circuit.
type Hit struct {
	Rank    int // 1-based
	Circuit Circuit
	Score   float64
	Scores  Scores
}

// Stats describes the loaded corpus.
type Stats struct {
	Circuits       int
	LexicallyValid int
	Dimension      int  // 0 without an embedding matrix
	Semantic       bool // hybrid queries can be served
}
