// Package component defines the closed vocabulary of circuit component types
// and the per-circuit inventory of how many of each a circuit uses.
package component

import "sort"

// Type is a circuit component type name, e.g. "Multiplexer".
type Type string

// Component types understood by the simulator.
const (
	Input              Type = "Input"
	Output             Type = "Output"
	Button             Type = "Button"
	Power              Type = "Power"
	Ground             Type = "Ground"
	AndGate            Type = "AndGate"
	OrGate             Type = "OrGate"
	NotGate            Type = "NotGate"
	NandGate           Type = "NandGate"
	NorGate            Type = "NorGate"
	XorGate            Type = "XorGate"
	XnorGate           Type = "XnorGate"
	DFlipFlop          Type = "DflipFlop"
	SRFlipFlop         Type = "SRflipFlop"
	JKFlipFlop         Type = "JKflipFlop"
	TFlipFlop          Type = "TflipFlop"
	FullAdder          Type = "FullAdder"
	HalfAdder          Type = "HalfAdder"
	Multiplexer        Type = "Multiplexer"
	Demultiplexer      Type = "Demultiplexer"
	Decoder            Type = "Decoder"
	Encoder            Type = "Encoder"
	Splitter           Type = "Splitter"
	ConstantVal        Type = "ConstantVal"
	TriState           Type = "TriState"
	ControlledInverter Type = "ControlledInverter"
	Clock              Type = "Clock"
	LED                Type = "LED"
	SevenSegDisplay    Type = "SevenSegDisplay"
	HexDisplay         Type = "HexDisplay"
	RGBLed             Type = "RGBLed"
	Stepper            Type = "Stepper"
	TTY                Type = "TTY"
	Random             Type = "Random"
	Counter            Type = "Counter"
	ALU                Type = "ALU"
	MSB                Type = "MSB"
	LSB                Type = "LSB"
	BitSelector        Type = "BitSelector"
	DigitalLed         Type = "DigitalLed"
	VariableLed        Type = "VariableLed"
	EEPROM             Type = "EEPROM"
	Rom                Type = "Rom"
	Ram                Type = "Ram"
	Tunnel             Type = "Tunnel"
	Rectangle          Type = "Rectangle"
	Text               Type = "Text"
	Arrow              Type = "Arrow"
	SubCircuit         Type = "SubCircuit"
)

// Vocabulary lists every known type in canonical order.
var Vocabulary = []Type{
	Input, Output, Button, Power, Ground,
	AndGate, OrGate, NotGate, NandGate, NorGate, XorGate, XnorGate,
	DFlipFlop, SRFlipFlop, JKFlipFlop, TFlipFlop,
	FullAdder, HalfAdder, Multiplexer, Demultiplexer,
	Decoder, Encoder, Splitter, ConstantVal,
	TriState, ControlledInverter, Clock,
	LED, SevenSegDisplay, HexDisplay, RGBLed,
	Stepper, TTY, Random,
	Counter, ALU, MSB, LSB,
	BitSelector, DigitalLed, VariableLed,
	EEPROM, Rom, Ram, Tunnel,
	Rectangle, Text, Arrow,
	SubCircuit,
}

var known = func() map[Type]struct{} {
	m := make(map[Type]struct{}, len(Vocabulary))
	for _, t := range Vocabulary {
		m[t] = struct{}{}
	}
	return m
}()

// IsKnown reports whether t belongs to the vocabulary.
func (t Type) IsKnown() bool {
	_, ok := known[t]
	return ok
}

// FlipFlops are the four flip-flop flavours.
var FlipFlops = []Type{DFlipFlop, SRFlipFlop, JKFlipFlop, TFlipFlop}

// Sequential types mark a circuit as sequential logic.
var Sequential = []Type{DFlipFlop, SRFlipFlop, JKFlipFlop, TFlipFlop, Clock}

// Distinctive types are worth naming explicitly in enriched text.
// Order is canonical so generated text is reproducible.
var Distinctive = []Type{
	DFlipFlop, SRFlipFlop, JKFlipFlop, TFlipFlop,
	FullAdder, HalfAdder,
	Multiplexer, Demultiplexer,
	Decoder, Encoder,
	Counter, ALU,
	SevenSegDisplay, HexDisplay, RGBLed,
	EEPROM, Rom, Ram,
	SubCircuit,
}

// Breakdown maps a component type to how many instances a circuit contains.
// A nil Breakdown is an empty inventory.
type Breakdown map[Type]int

// Has reports whether t is present. A key counts as present regardless of its count,
// matching how the dataset producer only emits keys it has seen.
func (b Breakdown) Has(t Type) bool {
	_, ok := b[t]
	return ok
}

// Count returns the number of t instances, 0 when absent.
func (b Breakdown) Count(t Type) int {
	return b[t]
}

// HasAny reports whether any of types is present.
func (b Breakdown) HasAny(types ...Type) bool {
	for _, t := range types {
		if b.Has(t) {
			return true
		}
	}
	return false
}

// Unknown returns the keys outside the vocabulary, sorted.
func (b Breakdown) Unknown() []Type {
	var out []Type
	for t := range b {
		if !t.IsKnown() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy.
func (b Breakdown) Clone() Breakdown {
	if b == nil {
		return nil
	}
	c := make(Breakdown, len(b))
	for k, v := range b {
		c[k] = v
	}
	return c
}
