package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/circuitdex/internal/usecase/eval"
)

const evalColumn = 34

func newEvalCmd(root *rootOptions) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Compare hybrid and lexical ranking on the built-in query set",
		Long: `Runs every evaluation query in hybrid and lexical mode and prints both
rankings side by side, followed by a per-category summary.

Queries come in three categories. Exact queries name a component, synonym
queries use an abbreviation, semantic queries describe a function.
A failing mode is reported and does not stop the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			svc, release, err := openSearch(cmd.Context(), &cfg, logger)
			if err != nil {
				return err
			}
			defer release()

			rep, err := eval.NewRunner(svc, topK, logger).Run(cmd.Context(), eval.DefaultQueries)
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}
			printReport(cmd, &rep)
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", eval.DefaultTopK, "results compared per query")
	return cmd
}

func printReport(cmd *cobra.Command, rep *eval.Report) {
	for i := range rep.Comparisons {
		printComparison(cmd, rep.TopK, &rep.Comparisons[i])
	}

	cmd.Println("Summary")
	cmd.Printf("  %-10s %8s %14s %13s %13s\n", "CATEGORY", "QUERIES", "LEXICAL EMPTY", "HYBRID EMPTY", "MEAN OVERLAP")
	for _, cat := range []eval.Category{eval.Exact, eval.Synonym, eval.Semantic} {
		s, ok := rep.Summary[cat]
		if !ok {
			continue
		}
		cmd.Printf("  %-10s %8d %14d %13d %13.2f\n", cat, s.Queries, s.LexicalEmpty, s.HybridEmpty, s.MeanOverlap)
	}
}

func printComparison(cmd *cobra.Command, topK int, c *eval.Comparison) {
	cmd.Printf("[%s] %q\n", c.Query.Category, c.Query.Text)
	cmd.Printf("  %-3s %-*s %-*s\n", "#", evalColumn, "HYBRID", evalColumn, "LEXICAL")

	for i := 0; i < topK; i++ {
		h, hok := cell(c.Hybrid, i)
		l, lok := cell(c.Lexical, i)
		if !hok && !lok {
			break
		}
		cmd.Printf("  %-3d %-*s %-*s\n", i+1, evalColumn, h, evalColumn, l)
	}

	if c.Hybrid.Err != nil {
		cmd.Printf("  hybrid failed: %v\n", c.Hybrid.Err)
	}
	if c.Lexical.Err != nil {
		cmd.Printf("  lexical failed: %v\n", c.Lexical.Err)
	}
	if c.Lexical.Err == nil && len(c.Lexical.Results) == 0 {
		cmd.Println("  lexical: no keyword match")
	}
	cmd.Printf("  overlap: %d/%d\n\n", c.Overlap, topK)
}

// cell renders the i-th result of a run as "title (score)".
func cell(r eval.Run, i int) (string, bool) {
	if i >= len(r.Results) {
		return "", false
	}
	res := r.Results[i]
	c := res.Circuit()
	return fmt.Sprintf("%s (%.3f)", truncate(c.Title(), evalColumn-8), res.Score()), true
}
