// Package intent detects which component family a query asks for and scores
// circuits by whether they contain it.
package intent

import (
	"strings"

	"github.com/kailas-cloud/circuitdex/internal/domain/component"
)

// Structural scores.
const (
	ScoreMatch    = 1.0
	ScoreOpposite = 0.0
	ScoreNeutral  = 0.5
)

// Rule maps a query keyword to the component types it asks for.
// Opposite is a type that signals the inverse function, empty when none.
type Rule struct {
	Keyword  string
	Match    []component.Type
	Opposite component.Type
}

// Rules is evaluated in order; the first keyword found in the query wins.
// "demultiplexer" contains "multiplexer" and "demux" contains "mux", so both
// resolve to the multiplexer rules ahead of their own entries.
var Rules = []Rule{
	{Keyword: "multiplexer", Match: []component.Type{component.Multiplexer}, Opposite: component.Demultiplexer},
	{Keyword: "mux", Match: []component.Type{component.Multiplexer}, Opposite: component.Demultiplexer},
	{Keyword: "demultiplexer", Match: []component.Type{component.Demultiplexer}, Opposite: component.Multiplexer},
	{Keyword: "demux", Match: []component.Type{component.Demultiplexer}, Opposite: component.Multiplexer},
	{Keyword: "flip flop", Match: component.FlipFlops},
	{Keyword: "latch", Match: []component.Type{component.DFlipFlop, component.SRFlipFlop}},
	{Keyword: "memory element", Match: []component.Type{
		component.DFlipFlop, component.JKFlipFlop, component.SRFlipFlop, component.TFlipFlop,
		component.Ram, component.EEPROM,
	}},
	{Keyword: "adder", Match: []component.Type{component.FullAdder, component.HalfAdder}},
	{Keyword: "display", Match: []component.Type{component.SevenSegDisplay, component.HexDisplay, component.DigitalLed}},
	{Keyword: "seven segment", Match: []component.Type{component.SevenSegDisplay}},
	{Keyword: "counter", Match: []component.Type{component.Counter}},
	{Keyword: "decoder", Match: []component.Type{component.Decoder}},
}

// Intent is a detected structural intent. The zero value means none.
type Intent struct {
	rule *Rule
}

// None is the absent intent.
var None = Intent{}

// Detect returns the intent of the first rule whose keyword occurs in the lowercased query.
func Detect(query string) Intent {
	q := strings.ToLower(query)
	for i := range Rules {
		if strings.Contains(q, Rules[i].Keyword) {
			return Intent{rule: &Rules[i]}
		}
	}
	return None
}

// Found reports whether an intent was detected.
func (in Intent) Found() bool { return in.rule != nil }

// Keyword returns the matched keyword, empty for None.
func (in Intent) Keyword() string {
	if in.rule == nil {
		return ""
	}
	return in.rule.Keyword
}

// Match returns the requested component types.
func (in Intent) Match() []component.Type {
	if in.rule == nil {
		return nil
	}
	return in.rule.Match
}

// Opposite returns the opposing component type, empty when there is none.
func (in Intent) Opposite() component.Type {
	if in.rule == nil {
		return ""
	}
	return in.rule.Opposite
}

// Score returns ScoreMatch when b holds any requested type, ScoreOpposite when it holds
// only the opposite type, and ScoreNeutral otherwise or when there is no intent.
func Score(b component.Breakdown, in Intent) float64 {
	if !in.Found() {
		return ScoreNeutral
	}
	if b.HasAny(in.Match()...) {
		return ScoreMatch
	}
	if op := in.Opposite(); op != "" && b.Has(op) {
		return ScoreOpposite
	}
	return ScoreNeutral
}
