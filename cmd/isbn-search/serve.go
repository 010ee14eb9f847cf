// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pdiddy/isbn-search/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Long: `Serve starts a JSON HTTP API exposing ISBN search and the search history.

  GET  /api/search?isbn=9784000000000,4000000000
  POST /api/search      {"input": "9784000000000\n4000000000"}
  GET  /api/history?limit=20
  GET  /api/history/:id
  GET  /healthz`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from serve.addr, :8080)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Serve.Addr = addr
	}

	p, store, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	var hist server.HistoryReader
	if store != nil {
		hist = store
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(p, hist, logger).Run(ctx, cfg.Serve.Addr)
}
