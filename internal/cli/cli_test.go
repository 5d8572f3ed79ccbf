package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/circuitdex/internal/domain"
)

const testCorpus = `[
  {"id": 1, "name": "Counter", "embedding_text": "Four bit binary counter built from JK flip flops with a shared clock."},
  {"id": 2, "name": "Mux", "embedding_text": "Two input multiplexer that selects one data line.",
   "component_breakdown": {"Multiplexer": 1}},
  {"id": 3, "name": "Adder", "embedding_text": "Half adder made of an XOR gate and an AND gate."},
  {"id": 4, "name": "Untitled", "embedding_text": ""}
]`

const testRawExport = `[
  {"id": "11", "name": "Ripple counter", "description": "<p>Counts clock pulses.</p>",
   "component_breakdown": {"JKflipFlop": 4, "Clock": 1}},
  {"id": "12", "name": "Selector", "description": "Selects one of four inputs.",
   "component_breakdown": {"Multiplexer": 1, "Input": 4}},
  {"id": "13", "name": "Adder", "description": "Adds two bits.",
   "component_breakdown": {"XorGate": 1, "AndGate": 1}}
]`

// writeConfig writes a config file for the given dataset and embedding endpoint.
func writeConfig(t *testing.T, circuits, embeddings, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`dataset:
  circuits_path: %q
  embeddings_path: %q
embedding:
  base_url: %q
  model: test-model
  dimensions: 3
  batch_size: 2
  workers: 2
cache:
  driver: none
logging:
  level: error
`, circuits, embeddings, baseURL)
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// run executes circuitctl with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// embeddingServer answers OpenAI-compatible /embeddings calls with a
// deterministic three-dimensional vector per input text.
func embeddingServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			http.NotFound(w, r)
			return
		}
		calls.Add(1)

		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		data := make([]map[string]any, len(req.Input))
		for i, text := range req.Input {
			v := []float32{0, 0, 1}
			switch {
			case strings.Contains(strings.ToLower(text), "count"):
				v = []float32{1, 0, 0}
			case strings.Contains(strings.ToLower(text), "select"):
				v = []float32{0, 1, 0}
			}
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": v}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "test-model",
			"data":   data,
			"usage":  map[string]int{"prompt_tokens": len(req.Input), "total_tokens": len(req.Input)},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Version:", "Commit:", "Built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestQueryCmd_Lexical(t *testing.T) {
	cfg := writeConfig(t, writeFile(t, "circuits.json", testCorpus), "", "")

	out, err := run(t, "--config", cfg, "query", "--mode", "lexical", "counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Counter") {
		t.Errorf("expected the counter circuit in output, got:\n%s", out)
	}
	if strings.Contains(out, "Adder") {
		t.Errorf("lexical mode must drop circuits without a term match, got:\n%s", out)
	}
}

func TestQueryCmd_LexicalNoMatch(t *testing.T) {
	cfg := writeConfig(t, writeFile(t, "circuits.json", testCorpus), "", "")

	out, err := run(t, "--config", cfg, "query", "-m", "baseline", "oscilloscope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No results found.") {
		t.Errorf("expected empty result message, got:\n%s", out)
	}
}

func TestQueryCmd_JSON(t *testing.T) {
	cfg := writeConfig(t, writeFile(t, "circuits.json", testCorpus), "", "")

	out, err := run(t, "--config", cfg, "query", "--mode", "lexical", "--json", "-k", "2", "multiplexer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got struct {
		Query string    `json:"query"`
		Mode  string    `json:"mode"`
		TopK  int       `json:"top_k"`
		Items []hitJSON `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Query != "multiplexer" || got.Mode != "lexical" || got.TopK != 2 {
		t.Errorf("unexpected header: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].ID != 2 || got.Items[0].Rank != 1 {
		t.Fatalf("expected the mux circuit only, got %+v", got.Items)
	}
	if got.Items[0].Semantic != 0 || got.Items[0].Component != 0 {
		t.Errorf("lexical hits carry no semantic or component score, got %+v", got.Items[0])
	}
}

func TestQueryCmd_HybridWithoutEmbeddings(t *testing.T) {
	cfg := writeConfig(t, writeFile(t, "circuits.json", testCorpus), "", "")

	_, err := run(t, "--config", cfg, "query", "counter")
	if !errors.Is(err, domain.ErrSemanticUnavailable) {
		t.Fatalf("expected ErrSemanticUnavailable, got %v", err)
	}
}

func TestQueryCmd_InvalidTopK(t *testing.T) {
	cfg := writeConfig(t, writeFile(t, "circuits.json", testCorpus), "", "")

	_, err := run(t, "--config", cfg, "query", "-m", "lexical", "-k", "-1", "counter")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestQueryCmd_MissingText(t *testing.T) {
	cfg := writeConfig(t, writeFile(t, "circuits.json", testCorpus), "", "")

	if _, err := run(t, "--config", cfg, "query"); err == nil {
		t.Fatal("expected error without query text")
	}
}

func TestQueryCmd_MissingConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "query", "counter")
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestEvalCmd_LexicalOnly(t *testing.T) {
	cfg := writeConfig(t, writeFile(t, "circuits.json", testCorpus), "", "")

	out, err := run(t, "--config", cfg, "eval", "-k", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		`[exact] "counter"`,
		"hybrid failed:",
		"overlap: 0/3",
		"Summary",
		"exact",
		"synonym",
		"semantic",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestBuildCmd_RequiresProvider(t *testing.T) {
	cfg := writeConfig(t, writeFile(t, "circuits.json", testCorpus), "", "")

	_, err := run(t, "--config", cfg, "build", "--input", writeFile(t, "raw.json", testRawExport))
	if err == nil || !strings.Contains(err.Error(), "no embedding provider") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestBuildCmd_RequiresInput(t *testing.T) {
	cfg := writeConfig(t, writeFile(t, "circuits.json", testCorpus), "", "")

	if _, err := run(t, "--config", cfg, "build"); err == nil {
		t.Fatal("expected error without --input")
	}
}

func TestBuildThenHybridQuery(t *testing.T) {
	var calls atomic.Int32
	srv := embeddingServer(t, &calls)
	outDir := t.TempDir()

	buildCfg := writeConfig(t, writeFile(t, "unused.json", testCorpus), "", srv.URL)
	out, err := run(t, "--config", buildCfg, "build",
		"--input", writeFile(t, "raw.json", testRawExport),
		"--output-dir", outDir,
		"--batch-size", "1",
		"--normalize",
	)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Built dataset of 3 circuits (dimension 3, model test-model)") {
		t.Errorf("unexpected build summary:\n%s", out)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected one provider call per circuit with batch size 1, got %d", got)
	}

	circuits := glob(t, outDir, "circuits_enriched_3_*.json")
	embeddings := glob(t, outDir, "embeddings_3_*.npy")
	glob(t, outDir, "metadata_3_*.json")

	queryCfg := writeConfig(t, circuits, embeddings, srv.URL)
	out, err = run(t, "--config", queryCfg, "query", "--json", "-k", "1", "pulse counter")
	if err != nil {
		t.Fatalf("query: %v\n%s", err, out)
	}

	var got struct {
		Mode  string    `json:"mode"`
		Items []hitJSON `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Mode != "hybrid" || len(got.Items) != 1 {
		t.Fatalf("unexpected response: %+v", got)
	}
	if got.Items[0].ID != 11 {
		t.Errorf("expected the ripple counter first, got %+v", got.Items[0])
	}
	if got.Items[0].Semantic < 0.99 {
		t.Errorf("expected a near-identical semantic score, got %v", got.Items[0].Semantic)
	}
}

func glob(t *testing.T, dir, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one file matching %s, got %v (%v)", pattern, matches, err)
	}
	return matches[0]
}
