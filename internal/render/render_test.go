// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/isbn-search/pkg/types"
)

func TestFormatPubDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"full date", "20230405", "2023-04-05"},
		{"year month", "202304", "2023-04"},
		{"year only", "2023", "2023"},
		{"empty", "", ""},
		{"seven chars", "2023040", "2023040"},
		{"already formatted", "2023-04-05", "2023-04-05"},
		{"non-numeric eight chars", "abcdefgh", "abcd-ef-gh"},
		{"multibyte six chars", "令和五年四月", "令和五年-四月"},
		{"nine chars", "202304051", "202304051"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPubDate(tt.input))
		})
	}
}

func TestFormatPubDateNeverPanics(t *testing.T) {
	inputs := []string{"\xff\xfe\xfd\xfc\xfb\xfa\xf9\xf8", "\x00\x00\x00\x00\x00\x00", "🙂🙂🙂🙂🙂🙂🙂🙂", strings.Repeat("9", 100)}
	for _, in := range inputs {
		assert.NotPanics(t, func() { FormatPubDate(in) })
	}
}

func sampleBook() *types.Book {
	return &types.Book{
		Title:     "T",
		ISBN:      "9784000000000",
		Publisher: "P",
		PubDate:   "20200101",
		Author:    "A",
	}
}

func TestCards(t *testing.T) {
	other := &types.Book{Title: "U", ISBN: "4000000000", Publisher: "Q", PubDate: "202001", Author: "B"}
	cards := Cards([]*types.Book{nil, sampleBook(), nil, other})

	require.Len(t, cards, 2)
	assert.Equal(t, types.Card{
		Position:  1,
		Title:     "T",
		ISBN:      "9784000000000",
		Publisher: "P",
		Author:    "A",
		PubDate:   "2020-01-01",
	}, cards[0])
	assert.Equal(t, 3, cards[1].Position)
	assert.Equal(t, "2020-01", cards[1].PubDate)
}

func TestCardsAllAbsent(t *testing.T) {
	assert.Empty(t, Cards([]*types.Book{nil}))
	assert.Empty(t, Cards(nil))
}

func TestCardsKeepsDuplicates(t *testing.T) {
	b := sampleBook()
	cards := Cards([]*types.Book{b, b})
	require.Len(t, cards, 2)
	assert.Equal(t, cards[0].ISBN, cards[1].ISBN)
}

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	FormatText(Cards([]*types.Book{sampleBook()}), &buf)

	out := buf.String()
	for _, want := range []string{"T", "9784000000000", "Publisher: P", "Published: 2020-01-01", "Author: A", "1 result\n"} {
		assert.Contains(t, out, want)
	}
}

func TestFormatTextPluralFooter(t *testing.T) {
	var buf bytes.Buffer
	FormatText(Cards([]*types.Book{sampleBook(), nil, sampleBook()}), &buf)
	assert.Contains(t, buf.String(), "2 results\n")
	assert.NotContains(t, buf.String(), "1 result")
}

func TestFormatTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatText(nil, &buf)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestCardBody(t *testing.T) {
	c := Cards([]*types.Book{sampleBook()})[0]
	assert.Equal(t, []string{
		"T",
		"9784000000000",
		"Publisher: P",
		"Published: 2020-01-01",
		"Author: A",
	}, CardBody(c))
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(Cards([]*types.Book{sampleBook(), nil}), &buf))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "T", got[0]["title"])
	assert.Equal(t, "2020-01-01", got[0]["pubdate"])
}
