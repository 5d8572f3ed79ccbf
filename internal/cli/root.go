// Package cli implements the circuitctl commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/bootstrap"
	"github.com/kailas-cloud/circuitdex/internal/config"
	logpkg "github.com/kailas-cloud/circuitdex/internal/logger"
	searchuc "github.com/kailas-cloud/circuitdex/internal/usecase/search"
	"github.com/kailas-cloud/circuitdex/internal/version"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	env        string
	verbose    bool
}

// NewRootCmd creates the circuitctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "circuitctl",
		Short: "Query, build and evaluate circuitdex datasets",
		Long: `circuitctl works on circuitdex datasets without running the HTTP server.

It ranks circuits for a query, builds the enriched corpus and embedding matrix
from a raw circuit export, and compares hybrid and lexical ranking on the
built-in evaluation queries.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default: config/<env>.yaml)")
	cmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(),
		"environment name, selects config/<env>.yaml")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false,
		"log at the configured level instead of warnings only")

	cmd.AddCommand(
		newQueryCmd(opts),
		newBuildCmd(opts),
		newEvalCmd(opts),
		NewVersionCmd(),
	)
	return cmd
}

// load reads the configuration and creates the logger.
func (o *rootOptions) load() (config.Config, *zap.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(o.env)
	}
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	var level string
	if o.verbose {
		level = cfg.Logging.Level
	}
	logger, err := logpkg.NewLogger(logpkg.EnvCLI, level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

// openSearch builds the search service the way the server does.
// The returned func releases the embedding cache.
func openSearch(
	ctx context.Context, cfg *config.Config, logger *zap.Logger,
) (*searchuc.Service, func(), error) {
	cache, err := bootstrap.Cache(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if cache != nil {
			cache.Close()
		}
	}

	emb := bootstrap.BuildEmbedder(cfg.Embedding, cfg.Embedding.QueryInstruction, cache, cfg.Cache, logger)
	svc, err := bootstrap.OpenSearch(ctx, cfg.Dataset, emb, logger)
	if err != nil {
		release()
		return nil, nil, err
	}
	return svc, release, nil
}
