// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the ISBN search pipeline and search history as a
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/isbn-search/internal/search"
	"github.com/pdiddy/isbn-search/pkg/types"
)

const defaultHistoryLimit = 20

// HistoryReader is the read side of a history store.
type HistoryReader interface {
	Recent(ctx context.Context, n int) ([]types.SearchRecord, error)
	Get(ctx context.Context, id string) (types.SearchRecord, error)
}

// Server serves the search API. Each request runs the pipeline on its own;
// requests share no search state.
type Server struct {
	pipeline *search.Pipeline
	history  HistoryReader
	logger   *zap.Logger
	engine   *gin.Engine
}

// New builds the router. hist may be nil when history is disabled.
func New(p *search.Pipeline, hist HistoryReader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{pipeline: p, history: hist, logger: logger}
	s.engine = s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

func (s *Server) setupRoutes() *gin.Engine {
	routes := gin.New()
	routes.Use(gin.Recovery(), s.logRequest)

	routes.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := routes.Group("/api")
	{
		api.GET("/search", s.searchQuery)
		api.POST("/search", s.searchBody)
		api.GET("/history", s.listHistory)
		api.GET("/history/:id", s.getHistory)
	}
	return routes
}

// logRequest is a zap replacement for gin.Logger.
func (s *Server) logRequest(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)))
}
