// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render projects lookup results into display cards and writes
// them as terminal cards, JSON, or a CSL-YAML bibliography.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/isbn-search/pkg/types"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	isbnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// Cards maps each present record to a card, in result order. Absent
// records produce nothing.
func Cards(results []*types.Book) []types.Card {
	cards := make([]types.Card, 0, len(results))
	for i, b := range results {
		if b == nil {
			continue
		}
		cards = append(cards, types.Card{
			Position:  i,
			Title:     b.Title,
			ISBN:      b.ISBN,
			Publisher: b.Publisher,
			Author:    b.Author,
			PubDate:   FormatPubDate(b.PubDate),
		})
	}
	return cards
}

// CardBody returns the unstyled lines of a card.
func CardBody(c types.Card) []string {
	return []string{
		c.Title,
		c.ISBN,
		"Publisher: " + c.Publisher,
		"Published: " + c.PubDate,
		"Author: " + c.Author,
	}
}

// RenderCard draws a single bordered card.
func RenderCard(c types.Card) string {
	lines := CardBody(c)
	lines[0] = titleStyle.Render(lines[0])
	lines[1] = isbnStyle.Render(lines[1])
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// FormatText writes cards as bordered terminal boxes to w.
func FormatText(cards []types.Card, w io.Writer) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	for _, c := range cards {
		fmt.Fprintln(w, RenderCard(c))
	}
	if len(cards) == 1 {
		fmt.Fprintln(w, "1 result")
		return
	}
	fmt.Fprintf(w, "%d results\n", len(cards))
}

// FormatJSON writes cards as indented JSON to w.
func FormatJSON(cards []types.Card, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cards)
}
