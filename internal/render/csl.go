// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/isbn-search/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID              string    `yaml:"id"`
	Type            string    `yaml:"type"`
	Title           string    `yaml:"title"`
	Author          []CSLName `yaml:"author,omitempty"`
	Publisher       string    `yaml:"publisher,omitempty"`
	Issued          *CSLDate  `yaml:"issued,omitempty"`
	ISBN            string    `yaml:"ISBN,omitempty"`
	CollectionTitle string    `yaml:"collection-title,omitempty"`
	Volume          string    `yaml:"volume,omitempty"`
}

// CSLName represents a person's name in CSL format. openBD author lines
// carry no family/given split, so names are always literal.
type CSLName struct {
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the present records of a lookup result as a CSL-YAML
// list to w.
func FormatCSL(results []*types.Book, w io.Writer) error {
	items := make([]CSLItem, 0, len(results))
	for _, b := range results {
		if b == nil {
			continue
		}
		items = append(items, toCSLItem(*b))
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(b types.Book) CSLItem {
	item := CSLItem{
		ID:              b.ISBN,
		Type:            "book",
		Title:           b.Title,
		Publisher:       b.Publisher,
		ISBN:            b.ISBN,
		CollectionTitle: b.Series,
		Volume:          b.Volume,
	}
	for _, name := range splitAuthors(b.Author) {
		item.Author = append(item.Author, CSLName{Literal: name})
	}
	if parts := dateParts(b.PubDate); parts != nil {
		item.Issued = &CSLDate{DateParts: [][]int{parts}}
	}
	return item
}

// splitAuthors splits an openBD author line such as "山田太郎／著 鈴木花子／訳"
// into names, dropping the role suffix after the slash.
func splitAuthors(line string) []string {
	var names []string
	for _, field := range strings.Fields(line) {
		name, _, _ := strings.Cut(field, "／")
		name, _, _ = strings.Cut(name, "/")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// dateParts parses YYYY, YYYYMM or YYYYMMDD into CSL date-parts. Anything
// else, including non-digits, yields nil.
func dateParts(s string) []int {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil
		}
	}

	var widths []int
	switch len(s) {
	case 4:
		widths = []int{4}
	case 6:
		widths = []int{4, 2}
	case 8:
		widths = []int{4, 2, 2}
	default:
		return nil
	}

	parts := make([]int, 0, len(widths))
	pos := 0
	for _, w := range widths {
		n, err := strconv.Atoi(s[pos : pos+w])
		if err != nil {
			return nil
		}
		parts = append(parts, n)
		pos += w
	}
	return parts
}
