package circuit

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/circuitdex/internal/domain/component"
)

func TestCleanHTML(t *testing.T) {
	got := CleanHTML("<p>4-bit   <b>ripple</b></p>\n<br/>counter")
	if got != "4-bit ripple counter" {
		t.Errorf("unexpected clean text %q", got)
	}
	if CleanHTML("") != "" {
		t.Error("empty input must stay empty")
	}
}

func TestIsGenericName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"", true},
		{"abc", true},
		{"Untitled", true},
		{"Lab 3", true},
		{"My Project", true},
		{"Ripple Counter", false},
		{"Full adder", false},
	}
	for _, tt := range tests {
		if got := IsGenericName(tt.name); got != tt.want {
			t.Errorf("IsGenericName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBuildEmbeddingText_Empty(t *testing.T) {
	c := New(Fields{Name: "lab"})
	if got := BuildEmbeddingText(&c); got != EmptySentinel {
		t.Errorf("expected sentinel, got %q", got)
	}
}

func TestBuildEmbeddingText_Sequential(t *testing.T) {
	c := New(Fields{
		Name:        "Ripple Counter",
		Description: "<p>Counts <i>up</i></p>",
		Tags:        []string{"counter", "sequential"},
		ScopeNames:  []string{"main", "stage"},
		Breakdown: component.Breakdown{
			component.JKFlipFlop: 4,
			component.Clock:      1,
			component.Input:      2,
			component.Output:     4,
		},
	})

	want := "Ripple Counter. Counts up. Modules: main, stage. Tags: counter, sequential. " +
		"Sequential logic circuit. Clocked operation. Components: 4 JK flip-flops. 2 inputs, 4 outputs."
	if got := BuildEmbeddingText(&c); got != want {
		t.Errorf("unexpected text:\n got %q\nwant %q", got, want)
	}
}

func TestBuildEmbeddingText_Combinational(t *testing.T) {
	c := New(Fields{
		Name: "Display driver",
		Breakdown: component.Breakdown{
			component.SevenSegDisplay: 1,
			component.HexDisplay:      2,
			component.SubCircuit:      1,
			component.AndGate:         3,
		},
	})

	got := BuildEmbeddingText(&c)
	want := "Display driver. Combinational logic circuit. " +
		"Components: 1 7-segment display, 2 hex displays, 1 subcircuit module."
	if got != want {
		t.Errorf("unexpected text:\n got %q\nwant %q", got, want)
	}
}

func TestBuildEmbeddingText_Limits(t *testing.T) {
	c := New(Fields{
		Name:        "Big design",
		Description: strings.Repeat("é", 250),
		ScopeNames:  []string{"a", "b", "c", "d", "e", "f"},
		Breakdown: component.Breakdown{
			component.DFlipFlop:     1,
			component.SRFlipFlop:    1,
			component.JKFlipFlop:    1,
			component.TFlipFlop:     1,
			component.FullAdder:     1,
			component.Multiplexer:   1,
			component.Demultiplexer: 1,
		},
	})

	got := BuildEmbeddingText(&c)
	if !strings.Contains(got, strings.Repeat("é", 200)+". ") {
		t.Error("description must be truncated to 200 runes")
	}
	if strings.Contains(got, strings.Repeat("é", 201)) {
		t.Error("description longer than 200 runes")
	}
	if !strings.Contains(got, "Modules: a, b, c, d, e.") {
		t.Errorf("expected first five scopes, got %q", got)
	}
	if strings.Contains(got, "multiplexer") {
		t.Errorf("only five distinctive components expected, got %q", got)
	}
	if !strings.Contains(got, "1 fulladder") {
		t.Errorf("expected fifth distinctive component, got %q", got)
	}
}
