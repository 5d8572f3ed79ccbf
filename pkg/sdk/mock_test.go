package circuitdex

import (
	"context"
	"sync/atomic"
)

// --- Embedder mocks ---

type mockEmbedder struct {
	fn    func(ctx context.Context, text string) (EmbeddingResult, error)
	calls atomic.Int32
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	m.calls.Add(1)
	return m.fn(ctx, text)
}

// fixedEmbedder always returns vec with a token count of 2.
func fixedEmbedder(vec ...float32) *mockEmbedder {
	return &mockEmbedder{fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
		return EmbeddingResult{Embedding: vec, PromptTokens: 2, TotalTokens: 2}, nil
	}}
}

type checkingEmbedder struct {
	*mockEmbedder
	healthErr error
}

func (c *checkingEmbedder) HealthCheck(_ context.Context) error { return c.healthErr }

// --- Fixtures ---

func testCircuits() []Circuit {
	return []Circuit{
		{
			ID:             1,
			Name:           "Ripple Counter",
			EmbeddingText:  "Four bit ripple counter with JK flip-flops.",
			Components:     map[string]int{"JKflipFlop": 4, "Clock": 1},
			ComponentCount: 5,
		},
		{
			ID:             2,
			Name:           "Mux 2:1",
			EmbeddingText:  "Two to one multiplexer data selector.",
			Components:     map[string]int{"Multiplexer": 1},
			ComponentCount: 1,
		},
		{
			ID:            3,
			EmbeddingText: "Full adder arithmetic circuit.",
		},
	}
}

func testVectors() [][]float32 {
	return [][]float32{{1, 0}, {0, 1}, {0.6, 0.8}}
}
