package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/circuitdex/internal/domain/search/mode"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/request"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/result"
)

func newQueryCmd(root *rootOptions) *cobra.Command {
	var (
		topK     int
		modeName string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Rank circuits for a free-text query",
		Long: `Loads the configured dataset and ranks every circuit for the query.

Hybrid mode fuses semantic similarity, BM25 and component intent and needs an
embedding provider. Lexical mode (alias: baseline) ranks by BM25 alone and
drops circuits that share no term with the query.`,
		Example: `  circuitctl query "4 bit counter"
  circuitctl query --mode lexical -k 5 "seven segment display"
  circuitctl query --json "data selector"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			req, err := request.New(args[0], mode.Parse(modeName), topK)
			if err != nil {
				return err
			}

			svc, release, err := openSearch(cmd.Context(), &cfg, logger)
			if err != nil {
				return err
			}
			defer release()

			results, err := svc.Search(cmd.Context(), &req)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if jsonOut {
				return printResultsJSON(cmd, &req, results)
			}
			printResults(cmd, &req, results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 10, "maximum number of results, no upper bound (0: 20)")
	cmd.Flags().StringVarP(&modeName, "mode", "m", string(mode.Hybrid), "ranking mode: hybrid, lexical or baseline")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output results as JSON")
	return cmd
}

// hitJSON is the machine-readable form of one ranked circuit.
type hitJSON struct {
	Rank      int     `json:"rank"`
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Semantic  float64 `json:"semantic"`
	Keyword   float64 `json:"keyword"`
	Component float64 `json:"component"`
}

func printResultsJSON(cmd *cobra.Command, req *request.Request, results []result.Result) error {
	hits := make([]hitJSON, len(results))
	for i := range results {
		c := results[i].Circuit()
		s := results[i].Scores()
		hits[i] = hitJSON{
			Rank:      i + 1,
			ID:        c.ID(),
			Name:      c.Title(),
			Score:     s.Final,
			Semantic:  s.Semantic,
			Keyword:   s.Keyword,
			Component: s.Component,
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{
		"query": req.Query(),
		"mode":  req.Mode(),
		"top_k": req.TopK(),
		"items": hits,
	}); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

func printResults(cmd *cobra.Command, req *request.Request, results []result.Result) {
	cmd.Printf("Query: %q (%s, top %d)\n\n", req.Query(), req.Mode(), req.TopK())
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Printf("  %-4s %-8s %-32s %7s %7s %7s %7s\n", "#", "ID", "NAME", "FINAL", "SEM", "KW", "COMP")
	for i := range results {
		c := results[i].Circuit()
		s := results[i].Scores()
		cmd.Printf("  %-4d %-8d %-32s %7.3f %7.3f %7.3f %7.2f\n",
			i+1, c.ID(), truncate(c.Title(), 32), s.Final, s.Semantic, s.Keyword, s.Component)
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
