package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/circuitdex/internal/bootstrap"
	"github.com/kailas-cloud/circuitdex/internal/config"
	repo "github.com/kailas-cloud/circuitdex/internal/repository/dataset"
	datasetuc "github.com/kailas-cloud/circuitdex/internal/usecase/dataset"
)

func newBuildCmd(root *rootOptions) *cobra.Command {
	var (
		input     string
		outputDir string
		batchSize int
		workers   int
		normalize bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the enriched corpus and embedding matrix from a raw export",
		Long: `Reads a raw circuit export, writes an enriched embedding text for every
circuit and encodes it with the configured embedding provider.

Three files are written to the output directory, suffixed with the circuit
count and a timestamp: circuits_enriched_*.json, embeddings_*.npy and
metadata_*.json. Point dataset.circuits_path and dataset.embeddings_path at
the first two to serve them.`,
		Example: `  circuitctl build --input raw/circuits.json --output-dir data
  circuitctl build --input raw/circuits.json --workers 8 --normalize`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			emb := bootstrap.BuildEmbedder(cfg.Embedding, "", nil, config.CacheConfig{}, logger)
			if emb == nil {
				return errors.New("no embedding provider configured: set embedding.base_url or embedding.api_key")
			}

			opts := datasetuc.Options{
				Model:     cfg.Embedding.Model,
				BatchSize: cfg.Embedding.BatchSize,
				Workers:   cfg.Embedding.Workers,
				Normalize: normalize,
			}
			if batchSize > 0 {
				opts.BatchSize = batchSize
			}
			if workers > 0 {
				opts.Workers = workers
			}

			builder := datasetuc.New(repo.New(logger), emb.Embedder, opts, logger)
			out, err := builder.Build(cmd.Context(), input, outputDir)
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}

			md := out.Metadata
			cmd.Printf("Built dataset of %d circuits (dimension %d, model %s)\n",
				md.NumCircuits, md.EmbeddingDimension, md.ModelName)
			cmd.Printf("  with description:  %d\n", md.CircuitsWithDescriptions)
			cmd.Printf("  with scope names:  %d\n", md.CircuitsWithScopeNames)
			cmd.Printf("  with components:   %d\n", md.CircuitsWithComponents)
			cmd.Printf("  text length:       mean %.1f, min %d, max %d\n", out.Text.Mean, out.Text.Min, out.Text.Max)
			cmd.Printf("  tokens used:       %d\n", out.TotalTokens)
			cmd.Println()
			cmd.Printf("Circuits:   %s\n", out.CircuitsPath)
			cmd.Printf("Embeddings: %s\n", out.EmbeddingsPath)
			cmd.Printf("Metadata:   %s\n", out.MetadataPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "raw circuits JSON export (required)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "data", "directory for the built files")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "texts per embedding request (0: embedding.batch_size)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent embedding requests (0: embedding.workers)")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "rescale vectors to unit length before saving")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
