// Package circuit holds the searchable circuit document.
package circuit

import (
	"unicode/utf8"

	"github.com/kailas-cloud/circuitdex/internal/domain/component"
)

// EmptySentinel is the enriched text the dataset producer writes for circuits
// with nothing worth describing.
const EmptySentinel = "Empty circuit"

// MinLexicalTextLength is the enriched-text length, in characters, a circuit
// must exceed to be admitted into the lexical index.
const MinLexicalTextLength = 10

// UntitledName replaces an empty circuit name in display output.
const UntitledName = "untitled"

// Circuit is an immutable circuit document. Missing fields read as zero values.
type Circuit struct {
	id             int64
	name           string
	description    string
	tags           []string
	breakdown      component.Breakdown
	embeddingText  string
	scopeNames     []string
	componentCount int
}

// Fields is the raw attribute set a Circuit is built from.
type Fields struct {
	ID             int64
	Name           string
	Description    string
	Tags           []string
	Breakdown      component.Breakdown
	EmbeddingText  string
	ScopeNames     []string
	ComponentCount int
}

// New builds a Circuit, copying slices and maps so callers cannot mutate it later.
func New(f Fields) Circuit {
	return Circuit{
		id:             f.ID,
		name:           f.Name,
		description:    f.Description,
		tags:           cloneStrings(f.Tags),
		breakdown:      f.Breakdown.Clone(),
		embeddingText:  f.EmbeddingText,
		scopeNames:     cloneStrings(f.ScopeNames),
		componentCount: f.ComponentCount,
	}
}

// ID returns the stable external identifier.
func (c *Circuit) ID() int64 { return c.id }

// Name returns the raw name, possibly empty.
func (c *Circuit) Name() string { return c.name }

// Title returns the name or UntitledName when it is empty.
func (c *Circuit) Title() string {
	if c.name == "" {
		return UntitledName
	}
	return c.name
}

// Description returns the raw, possibly HTML-tagged description.
func (c *Circuit) Description() string { return c.description }

// Tags returns the tag list.
func (c *Circuit) Tags() []string { return c.tags }

// Breakdown returns the component inventory.
func (c *Circuit) Breakdown() component.Breakdown { return c.breakdown }

// EmbeddingText returns the precomputed enriched text.
func (c *Circuit) EmbeddingText() string { return c.embeddingText }

// ScopeNames returns the names of the circuit's sub-scopes.
func (c *Circuit) ScopeNames() []string { return c.scopeNames }

// ComponentCount returns the total number of placed components.
func (c *Circuit) ComponentCount() int { return c.componentCount }

// IsLexicallyValid reports whether the enriched text is substantial enough to index:
// non-empty, not the empty sentinel, and longer than MinLexicalTextLength.
func (c *Circuit) IsLexicallyValid() bool {
	t := c.embeddingText
	return t != "" && t != EmptySentinel && utf8.RuneCountInString(t) > MinLexicalTextLength
}

// WithEmbeddingText returns a copy carrying text as its enriched text.
func (c *Circuit) WithEmbeddingText(text string) Circuit {
	cp := *c
	cp.embeddingText = text
	return cp
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
