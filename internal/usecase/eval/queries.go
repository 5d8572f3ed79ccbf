package eval

// Category groups evaluation queries by what they probe.
type Category string

const (
	// Exact queries name a component the way circuit authors do.
	Exact Category = "exact"
	// Synonym queries use an abbreviation or alternative name.
	Synonym Category = "synonym"
	// Semantic queries describe a function without naming a component.
	Semantic Category = "semantic"
)

// Query is one evaluation query.
type Query struct {
	Text     string
	Category Category
}

// DefaultQueries is the fixed query set used to compare hybrid and lexical ranking.
var DefaultQueries = []Query{
	{Text: "flip flop", Category: Exact},
	{Text: "multiplexer", Category: Exact},
	{Text: "counter", Category: Exact},
	{Text: "mux", Category: Synonym},
	{Text: "latch", Category: Synonym},
	{Text: "demux", Category: Synonym},
	{Text: "memory element", Category: Semantic},
	{Text: "data selector", Category: Semantic},
	{Text: "seven segment display", Category: Exact},
	{Text: "arithmetic circuit", Category: Semantic},
}
