package circuit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/circuitdex/internal/domain/component"
)

const (
	maxDescriptionRunes   = 200
	maxScopeNames         = 5
	maxDistinctiveEntries = 5
)

var (
	htmlTagRegex = regexp.MustCompile(`<[^>]+>`)

	genericNamePatterns = []string{
		"untitled", "project", "assignment", "homework", "lab",
		"test", "demo", "ex", "tp", "experiment",
	}
)

// CleanHTML strips tags and collapses whitespace.
func CleanHTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(htmlTagRegex.ReplaceAllString(s, "")), " ")
}

// IsGenericName reports names that carry no signal: very short names and
// classroom boilerplate such as "Lab 3" or "Untitled".
func IsGenericName(name string) bool {
	if len(name) <= 3 {
		return true
	}
	lower := strings.ToLower(name)
	for _, p := range genericNamePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// BuildEmbeddingText renders the enriched text used for both lexical and semantic indexing.
// Returns EmptySentinel when the circuit has nothing to say.
func BuildEmbeddingText(c *Circuit) string {
	var parts []string

	if !IsGenericName(c.name) {
		parts = append(parts, c.name)
	}

	if desc := CleanHTML(c.description); desc != "" {
		parts = append(parts, truncateRunes(desc, maxDescriptionRunes))
	}

	if scopes := c.scopeNames; len(scopes) > 0 {
		if len(scopes) > maxScopeNames {
			scopes = scopes[:maxScopeNames]
		}
		parts = append(parts, "Modules: "+strings.Join(scopes, ", "))
	}

	if len(c.tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(c.tags, ", "))
	}

	b := c.breakdown
	if len(b) > 0 {
		if b.HasAny(component.Sequential...) {
			parts = append(parts, "Sequential logic circuit")
			if b.Has(component.Clock) {
				parts = append(parts, "Clocked operation")
			}
		} else {
			parts = append(parts, "Combinational logic circuit")
		}
	}

	if distinctive := distinctiveComponents(b); len(distinctive) > 0 {
		if len(distinctive) > maxDistinctiveEntries {
			distinctive = distinctive[:maxDistinctiveEntries]
		}
		parts = append(parts, "Components: "+strings.Join(distinctive, ", "))
	}

	in, out := b.Count(component.Input), b.Count(component.Output)
	if in > 0 || out > 0 {
		parts = append(parts, fmt.Sprintf("%d inputs, %d outputs", in, out))
	}

	text := strings.Join(parts, ". ")
	if text == "" {
		return EmptySentinel
	}
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text
}

func distinctiveComponents(b component.Breakdown) []string {
	var out []string
	for _, t := range component.Distinctive {
		if b.Has(t) {
			out = append(out, componentPhrase(t, b.Count(t)))
		}
	}
	return out
}

func componentPhrase(t component.Type, count int) string {
	plural := ""
	if count > 1 {
		plural = "s"
	}
	var noun string
	switch t {
	case component.DFlipFlop, component.SRFlipFlop, component.JKFlipFlop, component.TFlipFlop:
		noun = strings.Replace(string(t), "flipFlop", " flip-flop", 1)
	case component.SevenSegDisplay:
		noun = "7-segment display"
	case component.HexDisplay:
		noun = "hex display"
	case component.SubCircuit:
		noun = "subcircuit module"
	default:
		noun = strings.ToLower(string(t))
	}
	return fmt.Sprintf("%d %s%s", count, noun, plural)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
