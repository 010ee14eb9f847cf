// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs the ISBN search pipeline (parse, validate, look up)
// and owns the state of the interactive search surface.
package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/isbn-search/internal/history"
	"github.com/pdiddy/isbn-search/internal/isbn"
	"github.com/pdiddy/isbn-search/internal/render"
	"github.com/pdiddy/isbn-search/pkg/types"
)

// Lookuper fetches summaries for a batch of valid identifiers. The result
// is aligned with isbns; nil entries are misses.
type Lookuper interface {
	Lookup(ctx context.Context, isbns []string) ([]*types.Book, error)
}

// Recorder persists completed searches.
type Recorder interface {
	Record(ctx context.Context, rec types.SearchRecord) error
}

// Ticket identifies one started search.
type Ticket struct {
	Seq     uint64
	Input   string
	Outcome isbn.Outcome
}

// Result is the outcome of one search. Err is set when the lookup failed;
// it has already been logged and Books is nil.
type Result struct {
	Seq     uint64
	Input   string
	Outcome isbn.Outcome
	Books   []*types.Book
	Err     error

	// Requested reports whether a lookup request was issued.
	Requested bool

	// Stale reports that a newer search started before this one finished,
	// so the result was not applied to controller state.
	Stale bool
}

// Status returns success unless the lookup failed.
func (r Result) Status() types.SearchStatus {
	if r.Err != nil {
		return types.StatusFailed
	}
	return types.StatusSuccess
}

// Cards renders the present records of the result.
func (r Result) Cards() []types.Card {
	return render.Cards(r.Books)
}

// Pipeline wires the lookup client, an optional recorder and a logger.
type Pipeline struct {
	Lookup   Lookuper
	Recorder Recorder
	Logger   *zap.Logger
}

// Prepare parses and validates input. It issues no request.
func Prepare(seq uint64, input string) Ticket {
	return Ticket{Seq: seq, Input: input, Outcome: isbn.ParseAndValidate(input)}
}

// Run searches input without any shared state. Used by the HTTP API and
// the one-shot CLI.
func (p *Pipeline) Run(ctx context.Context, input string) Result {
	return p.complete(ctx, Prepare(0, input))
}

// complete performs the lookup for t, if it has valid identifiers, and
// records the search. Failures are logged, never returned.
func (p *Pipeline) complete(ctx context.Context, t Ticket) Result {
	logger := p.logger()
	res := Result{Seq: t.Seq, Input: t.Input, Outcome: t.Outcome}

	if len(t.Outcome.Valid) > 0 {
		res.Requested = true
		books, err := p.Lookup.Lookup(ctx, t.Outcome.Valid)
		if err != nil {
			logger.Error("lookup failed",
				zap.Uint64("seq", t.Seq),
				zap.Strings("isbns", t.Outcome.Valid),
				zap.Error(err))
			res.Err = err
		} else {
			res.Books = books
			logger.Info("lookup completed",
				zap.Uint64("seq", t.Seq),
				zap.Int("requested", len(t.Outcome.Valid)),
				zap.Int("found", len(render.Cards(books))))
		}
	}

	if p.Recorder != nil {
		rec := history.NewRecord(t.Input, t.Outcome.Valid, t.Outcome.Invalid, res.Books, res.Err)
		if err := p.Recorder.Record(ctx, rec); err != nil {
			logger.Warn("recording search failed", zap.String("id", rec.ID), zap.Error(err))
		}
	}
	return res
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
