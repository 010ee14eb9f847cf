// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/isbn-search/pkg/types"
)

// Lister is the read side of a Store.
type Lister interface {
	Recent(ctx context.Context, n int) ([]types.SearchRecord, error)
}

// ExportYAML writes up to n recent records to w as a YAML list.
func ExportYAML(ctx context.Context, l Lister, n int, w io.Writer) error {
	records, err := l.Recent(ctx, n)
	if err != nil {
		return err
	}
	if records == nil {
		records = []types.SearchRecord{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes up to n recent records to w as indented JSON.
func ExportJSON(ctx context.Context, l Lister, n int, w io.Writer) error {
	records, err := l.Recent(ctx, n)
	if err != nil {
		return err
	}
	if records == nil {
		records = []types.SearchRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.SearchRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-7s  %-5s  %-7s  %s\n",
		"ID", "Time", "Status", "Found", "Invalid", "ISBNs")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range records {
		isbns := strings.Join(r.Valid, ",")
		if len(isbns) > 30 {
			isbns = isbns[:27] + "..."
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-7s  %-5s  %-7d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Status,
			fmt.Sprintf("%d/%d", r.Found(), len(r.Valid)), len(r.Invalid), isbns)
	}
	fmt.Fprintf(w, "\n%d searches\n", len(records))
}
