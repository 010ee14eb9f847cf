// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package isbn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/isbn-search/pkg/types"
)

// isbnPattern matches exactly 10 ASCII digits, optionally followed by 3 more.
var isbnPattern = regexp.MustCompile(`^\d{10}(\d{3})?$`)

// Outcome partitions candidates into valid identifiers and rejected entries.
// Every candidate lands in exactly one partition, in original order.
type Outcome struct {
	Valid   []string
	Invalid []types.InvalidISBN
}

// IsValid reports whether s is a 10- or 13-digit all-numeric string.
func IsValid(s string) bool {
	return isbnPattern.MatchString(s)
}

// Validate classifies each candidate. Duplicates are preserved.
func Validate(candidates []string) Outcome {
	var out Outcome
	for i, c := range candidates {
		if IsValid(c) {
			out.Valid = append(out.Valid, c)
			continue
		}
		out.Invalid = append(out.Invalid, types.InvalidISBN{Index: i, Value: c})
	}
	return out
}

// ParseAndValidate is Validate(Parse(text)).
func ParseAndValidate(text string) Outcome {
	return Validate(Parse(text))
}

// Total returns the number of classified candidates.
func (o Outcome) Total() int {
	return len(o.Valid) + len(o.Invalid)
}

// HasInvalid reports whether any candidate was rejected.
func (o Outcome) HasInvalid() bool {
	return len(o.Invalid) > 0
}

// Positions returns the 1-based positions of rejected candidates.
func (o Outcome) Positions() []int {
	positions := make([]int, len(o.Invalid))
	for i, inv := range o.Invalid {
		positions[i] = inv.Position()
	}
	return positions
}

// Notice is the single user notification for rejected candidates, or ""
// when every candidate is valid.
func (o Outcome) Notice() string {
	switch len(o.Invalid) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("invalid ISBN at position %d", o.Invalid[0].Position())
	}
	parts := make([]string, len(o.Invalid))
	for i, p := range o.Positions() {
		parts[i] = strconv.Itoa(p)
	}
	return "invalid ISBNs at positions " + strings.Join(parts, ", ")
}
