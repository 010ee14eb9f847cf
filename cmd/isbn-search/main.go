// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the isbn-search CLI.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/isbn-search/internal/history"
	"github.com/pdiddy/isbn-search/internal/openbd"
	"github.com/pdiddy/isbn-search/internal/search"
	"github.com/pdiddy/isbn-search/internal/secrets"
	"github.com/pdiddy/isbn-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is replaced in PersistentPreRunE once flags are parsed.
	logger = zap.NewNop()

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets map[string]string
)

// rootCmd is the base command. Without a subcommand it opens the
// interactive search screen.
var rootCmd = &cobra.Command{
	Use:   "isbn-search",
	Short: "Look up books by ISBN on openBD",
	Long: `isbn-search looks up bibliographic summaries for a list of ISBN-10 and
ISBN-13 identifiers using the openBD API.

Run without arguments to open the interactive search screen. Use the lookup
subcommand for one-shot searches, serve for the HTTP API, and history to
review past searches.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runTUI,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./isbn-search.yaml or ~/.config/isbn-search/isbn-search.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

// newLogger builds the production JSON logger on stderr, or on the given
// paths when set.
func newLogger(verbose bool, paths ...string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if len(paths) > 0 {
		cfg.OutputPaths = paths
		cfg.ErrorOutputPaths = paths
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// newPipeline wires the openBD client and the configured history store.
// The returned store is nil when history is disabled; the caller closes it.
func newPipeline(cfg types.Config) (*search.Pipeline, history.Store, error) {
	store, err := history.Open(cfg.History)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}

	p := &search.Pipeline{
		Lookup: openbd.NewClient(cfg.Lookup, logger),
		Logger: logger,
	}
	if store != nil {
		p.Recorder = store
	}
	return p, store, nil
}

func closeStore(store history.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.Warn("closing history", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
