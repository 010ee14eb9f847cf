// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for isbn-search: the book
// summary returned by the lookup API, the display card, invalid input
// entries and the search record kept in history.
package types

// Book is the summary record of one bibliographic entry as returned by the
// lookup API. A nil *Book in a lookup result means the identifier at that
// position had no match.
type Book struct {
	// Title is the book title.
	Title string `json:"title" yaml:"title"`

	// ISBN is the identifier the record was filed under.
	ISBN string `json:"isbn" yaml:"isbn"`

	// Publisher is the publisher name.
	Publisher string `json:"publisher" yaml:"publisher"`

	// PubDate is the raw publication date string (usually YYYYMMDD or YYYYMM).
	PubDate string `json:"pubdate" yaml:"pubdate"`

	// Author is the author line as a single string.
	Author string `json:"author" yaml:"author"`

	Series string `json:"series,omitempty" yaml:"series,omitempty"`
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`

	// Cover is the cover image URL, when the API has one.
	Cover string `json:"cover,omitempty" yaml:"cover,omitempty"`
}

// Card is the display projection of a Book. PubDate is already formatted
// for display.
type Card struct {
	// Position is the index of the source record in the lookup result.
	Position  int    `json:"position" yaml:"position"`
	Title     string `json:"title" yaml:"title"`
	ISBN      string `json:"isbn" yaml:"isbn"`
	Publisher string `json:"publisher" yaml:"publisher"`
	Author    string `json:"author" yaml:"author"`
	PubDate   string `json:"pubdate" yaml:"pubdate"`
}

// InvalidISBN is a candidate that failed validation. Index is the 0-based
// position of the candidate in the parsed input.
type InvalidISBN struct {
	Index int    `json:"index" yaml:"index"`
	Value string `json:"value" yaml:"value"`
}

// Position returns the 1-based position shown to users.
func (i InvalidISBN) Position() int {
	return i.Index + 1
}
