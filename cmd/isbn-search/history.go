// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/isbn-search/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and export past searches",
	Long: `History reads the configured history store (history.backend) and lists
or exports recorded searches, newest first.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer closeStore(store)

		records, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		history.FormatTable(records, cmd.OutOrStdout())
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recent searches as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer closeStore(store)

		switch format {
		case "yaml":
			return history.ExportYAML(cmd.Context(), store, limit, cmd.OutOrStdout())
		case "json":
			return history.ExportJSON(cmd.Context(), store, limit, cmd.OutOrStdout())
		default:
			return fmt.Errorf("unknown export format %q (want yaml or json)", format)
		}
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of searches to list")
	historyExportCmd.Flags().Int("limit", 100, "maximum number of searches to export")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (history.Store, error) {
	cfg, err := currentConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("history is disabled (history.backend is none)")
	}
	return store, nil
}
