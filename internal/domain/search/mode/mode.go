package mode

import "strings"

// Mode is the ranking strategy.
type Mode string

// Search mode constants.
const (
	// Hybrid fuses semantic, lexical and structural signals.
	Hybrid Mode = "hybrid"
	// Lexical ranks by BM25 alone and drops documents without a lexical match.
	Lexical Mode = "lexical"
)

// baselineAlias is accepted as a synonym for Lexical.
const baselineAlias = "baseline"

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Lexical
}

// Parse maps user input to a Mode. Empty input selects Hybrid; "baseline" selects Lexical.
// Unknown values are returned as-is and fail IsValid.
func Parse(s string) Mode {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "":
		return Hybrid
	case baselineAlias:
		return Lexical
	default:
		return Mode(v)
	}
}
