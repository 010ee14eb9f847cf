// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/isbn-search/internal/search"
	"github.com/pdiddy/isbn-search/pkg/types"
)

// Sender delivers messages into a running program. *tea.Program
// implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// stateMsg carries a controller transition.
type stateMsg struct {
	state search.State
}

// noticeMsg carries the message about rejected identifiers.
type noticeMsg struct {
	text string
}

// Bridge relays controller transitions and notices into a program. Use it
// as the controller's notifier and register OnChange as a listener; bind
// it once the program exists. Events before Bind are dropped.
type Bridge struct {
	mu     sync.Mutex
	sender Sender
}

// Bind sets the destination of relayed events.
func (b *Bridge) Bind(s Sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sender = s
}

// OnChange forwards a state snapshot.
func (b *Bridge) OnChange(s search.State) {
	b.send(stateMsg{state: s})
}

// Notify implements search.Notifier.
func (b *Bridge) Notify(message string, _ []types.InvalidISBN) {
	b.send(noticeMsg{text: message})
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	s := b.sender
	b.mu.Unlock()
	if s != nil {
		s.Send(msg)
	}
}
