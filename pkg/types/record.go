// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SearchStatus is the terminal outcome of one search.
type SearchStatus string

const (
	StatusSuccess SearchStatus = "success"
	StatusFailed  SearchStatus = "failed"
)

// SearchRecord is the history entry written after a search completes.
type SearchRecord struct {
	// ID is a random UUID assigned when the record is created.
	ID string `json:"id" yaml:"id"`

	// Input is the raw text the user submitted.
	Input string `json:"input" yaml:"input"`

	// Valid lists the identifiers sent to the lookup API, in request order.
	Valid []string `json:"valid" yaml:"valid"`

	// Invalid lists rejected candidates with their positions.
	Invalid []InvalidISBN `json:"invalid,omitempty" yaml:"invalid,omitempty"`

	Status SearchStatus `json:"status" yaml:"status"`

	// Error holds the lookup failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Books is the lookup result aligned with Valid; nil entries are misses.
	Books []*Book `json:"books" yaml:"books"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Found returns the number of identifiers that matched a record.
func (r SearchRecord) Found() int {
	n := 0
	for _, b := range r.Books {
		if b != nil {
			n++
		}
	}
	return n
}
