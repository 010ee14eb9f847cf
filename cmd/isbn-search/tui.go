// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdiddy/isbn-search/internal/search"
	"github.com/pdiddy/isbn-search/internal/tui"
)

// tuiLogFile receives log output while the terminal is in use by the UI.
const tuiLogFile = "isbn-search.log"

func runTUI(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	l, err := newLogger(verbose, tuiLogFile)
	if err != nil {
		return err
	}
	_ = logger.Sync()
	logger = l

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	p, store, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	bridge := &tui.Bridge{}
	controller := search.NewController(p, bridge)
	controller.OnChange(bridge.OnChange)

	prog := tea.NewProgram(tui.New(cmd.Context(), controller), tea.WithAltScreen())
	bridge.Bind(prog)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
