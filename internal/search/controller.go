// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/isbn-search/internal/render"
	"github.com/pdiddy/isbn-search/pkg/types"
)

// Phase is the state of the search surface.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSearching
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSearching:
		return "searching"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a copy of the controller state.
type State struct {
	Phase Phase

	// Last is the terminal phase (success or failed) of the most recently
	// applied search, or idle before the first one.
	Last Phase

	Loading bool
	Input   string
	Results []*types.Book
	Invalid []types.InvalidISBN

	// Seq is the sequence number of the newest started search.
	Seq uint64
	Err error
}

// Cards renders the current results.
func (s State) Cards() []types.Card {
	return render.Cards(s.Results)
}

// Notifier surfaces rejected candidates to the user.
type Notifier interface {
	Notify(message string, invalid []types.InvalidISBN)
}

// Controller owns the search state and moves it through
// Idle → Searching → (Success | Failed) → Idle. Searches may overlap; each
// is tagged with a sequence number and only the newest one is applied.
// In-flight requests are never cancelled by a newer search.
type Controller struct {
	pipeline *Pipeline
	notifier Notifier

	// emitMu is held from a state change until its listeners and notifier
	// have returned, so they observe transitions in the order they happened.
	// It is always taken before mu.
	emitMu sync.Mutex

	mu        sync.Mutex
	seq       uint64
	state     State
	listeners []func(State)
}

// NewController returns an idle controller. notifier may be nil.
func NewController(p *Pipeline, notifier Notifier) *Controller {
	return &Controller{pipeline: p, notifier: notifier}
}

// OnChange registers fn to receive a copy of the state after every
// transition, in transition order. Listeners may call Snapshot but must not
// start or finish a search.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Start begins a new search: it clears the displayed results, marks the
// controller as loading, validates input and notifies about rejected
// candidates. It does not block on the network.
func (c *Controller) Start(input string) Ticket {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	c.seq++
	t := Prepare(c.seq, input)
	c.state = State{
		Phase:   PhaseSearching,
		Last:    c.state.Last,
		Loading: true,
		Input:   input,
		Invalid: t.Outcome.Invalid,
		Seq:     t.Seq,
	}
	snap := c.snapshotLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	emit(listeners, snap)

	if t.Outcome.HasInvalid() && c.notifier != nil {
		c.notifier.Notify(t.Outcome.Notice(), t.Outcome.Invalid)
	}
	return t
}

// Finish looks up the valid identifiers of t and applies the result if t
// is still the newest search.
func (c *Controller) Finish(ctx context.Context, t Ticket) Result {
	res := c.pipeline.complete(ctx, t)

	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if t.Seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.pipeline.logger().Debug("discarding stale search result",
			zap.Uint64("seq", t.Seq), zap.Uint64("latest", latest))
		res.Stale = true
		return res
	}

	phase := PhaseSuccess
	if res.Err != nil {
		phase = PhaseFailed
	}
	c.state.Phase = phase
	c.state.Last = phase
	c.state.Loading = false
	c.state.Results = res.Books
	c.state.Err = res.Err
	done := c.snapshotLocked()

	c.state.Phase = PhaseIdle
	idle := c.snapshotLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	emit(listeners, done)
	emit(listeners, idle)
	return res
}

// Search runs Start then Finish.
func (c *Controller) Search(ctx context.Context, input string) Result {
	return c.Finish(ctx, c.Start(input))
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	if s.Results != nil {
		s.Results = append([]*types.Book(nil), s.Results...)
	}
	if s.Invalid != nil {
		s.Invalid = append([]types.InvalidISBN(nil), s.Invalid...)
	}
	return s
}

func (c *Controller) listenersLocked() []func(State) {
	return append([]func(State){}, c.listeners...)
}

func emit(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}
