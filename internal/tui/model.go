// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive terminal front end: a multi-line input
// box, a search trigger, a loading indicator, a blocking notice for
// rejected identifiers and the result cards.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/isbn-search/internal/render"
	"github.com/pdiddy/isbn-search/internal/search"
)

const (
	placeholder = "One ISBN per line, or comma separated"
	helpText    = "ctrl+s search • esc quit"
)

// Model is the bubbletea model of the search screen. It renders the
// controller state it receives through a Bridge.
type Model struct {
	ctx        context.Context
	controller *search.Controller

	input   textarea.Model
	spinner spinner.Model

	state  search.State
	notice string
}

// New returns a model driving controller. ctx bounds every lookup.
func New(ctx context.Context, controller *search.Controller) Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = true
	ta.SetHeight(6)
	ta.SetWidth(60)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		controller: controller,
		input:      ta,
		spinner:    sp,
		state:      controller.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		var cmd tea.Cmd
		if msg.state.Loading && !m.state.Loading {
			cmd = m.spinner.Tick
		}
		m.state = msg.state
		return m, cmd

	case noticeMsg:
		m.notice = msg.text
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			m.input.SetWidth(msg.Width - 4)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The notice blocks all other input until acknowledged.
	if m.notice != "" {
		m.notice = ""
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "ctrl+s":
		return m, m.search(m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// search runs one search off the update loop. Its transitions and notice
// arrive as stateMsg and noticeMsg.
func (m Model) search(input string) tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		controller.Search(ctx, input)
		return nil
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("ISBN search"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice + "\n\npress any key to continue"))
		b.WriteString("\n\n")
	}

	// A failed search leaves the result area empty; the failure is logged.
	switch {
	case m.state.Loading:
		b.WriteString(m.spinner.View() + " Searching...\n")
	case m.state.Last == search.PhaseFailed:
	case m.state.Seq > 0:
		render.FormatText(m.state.Cards(), &b)
	}

	return b.String()
}
