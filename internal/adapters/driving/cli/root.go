// Package cli provides the gitdocs command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/gitdocs-ai/gitdocs/internal/adapters/driven/config/file"
	"github.com/gitdocs-ai/gitdocs/internal/adapters/driven/embedding/openai"
	"github.com/gitdocs-ai/gitdocs/internal/adapters/driven/htmlconvert"
	"github.com/gitdocs-ai/gitdocs/internal/adapters/driven/objectstore/httpstore"
	vectormemory "github.com/gitdocs-ai/gitdocs/internal/adapters/driven/vector/memory"
	vectorsqlite "github.com/gitdocs-ai/gitdocs/internal/adapters/driven/vector/sqlite"
	"github.com/gitdocs-ai/gitdocs/internal/connectors/github"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driving"
	"github.com/gitdocs-ai/gitdocs/internal/core/services"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
	"github.com/gitdocs-ai/gitdocs/internal/robots"
	"github.com/gitdocs-ai/gitdocs/internal/tasks"
)

// version is overridable at build time via -ldflags.
var version = "0.1.0"

var (
	flagVerbose   bool
	flagConfigDir string

	// Wired by buildApp; tests may substitute their own.
	docsService driving.DocumentationService
	registry    *services.HandlerRegistry
	supervisor  *tasks.Supervisor
	appCfg      configfile.Config
	closers     []func() error
)

var rootCmd = &cobra.Command{
	Use:   "gitdocs",
	Short: "Documentation server for GitHub repositories",
	Long: `gitdocs resolves, indexes and searches the documentation of GitHub
repositories (llms.txt manifests, READMEs and GitHub Pages sites) and
serves it to AI assistants over the Model Context Protocol.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if docsService != nil {
			return nil // already wired (tests)
		}
		return buildApp(cmd.Context())
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.gitdocs)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildApp wires the full pipeline from configuration. Optional
// backends (embedding, persistent index, object store) degrade to
// disabled rather than failing startup.
func buildApp(ctx context.Context) error {
	cfg, err := configfile.Load(flagConfigDir)
	if err != nil {
		return err
	}
	appCfg = cfg

	ghClient := github.NewClient(ctx, cfg.GitHub.Token)

	var store driven.ObjectStore
	if cfg.Store.BaseURL != "" {
		s, err := httpstore.NewStore(cfg.Store.BaseURL)
		if err != nil {
			return fmt.Errorf("configuring object store: %w", err)
		}
		store = s
	}

	var embedder driven.EmbeddingService
	if cfg.Embedding.APIKey != "" {
		e, err := openai.NewService(openai.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
		if err != nil {
			return fmt.Errorf("configuring embeddings: %w", err)
		}
		embedder = e
		closers = append(closers, e.Close)
	} else {
		logger.Warn("no embedding API key configured; search falls back to full documents")
	}

	var index driven.VectorIndex
	if embedder != nil {
		if cfg.Index.Path != "" {
			ix, err := vectorsqlite.NewIndex(cfg.Index.Path)
			if err != nil {
				return fmt.Errorf("opening vector index: %w", err)
			}
			index = ix
			closers = append(closers, ix.Close)
		} else {
			index = vectormemory.NewIndex()
		}
	}

	supervisor = tasks.NewSupervisor()
	supervisor.Start()

	resolver := services.NewResolver(
		ghClient,
		ghClient,
		store,
		robots.New(robots.WithUserAgent(cfg.Robots.UserAgent)),
		htmlconvert.New(),
		supervisor,
	)
	ranker := services.NewRanker(embedder, index, services.DefaultWeights())
	indexer := services.NewIndexer(embedder, index)

	docsService = services.NewDocumentationService(resolver, ranker, indexer, supervisor)
	registry = services.NewHandlerRegistry(docsService, ghClient)
	return nil
}

func shutdown() {
	if supervisor != nil {
		supervisor.Stop()
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Warn("shutdown: %v", err)
		}
	}
	closers = nil
}
