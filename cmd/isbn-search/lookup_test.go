// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/isbn-search/internal/openbd"
	"github.com/pdiddy/isbn-search/internal/search"
	"github.com/pdiddy/isbn-search/pkg/types"
)

const openBDBody = `[
  {"summary": {"isbn": "9784000000000", "title": "T", "publisher": "P", "pubdate": "20200101", "author": "A"}},
  null
]`

func testPipeline(t *testing.T, status int, body string) (*search.Pipeline, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	client := openbd.NewClient(types.LookupConfig{BaseURL: ts.URL}, nil)
	return &search.Pipeline{Lookup: client}, calls
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isbns.txt")
	require.NoError(t, os.WriteFile(path, []byte("9784000000000\n4000000000\n"), 0o644))

	tests := []struct {
		name  string
		args  []string
		file  string
		stdin string
		want  string
	}{
		{"args joined by newline", []string{"9784000000000", "4000000000"}, "", "", "9784000000000\n4000000000"},
		{"file wins over args", []string{"1"}, path, "", "9784000000000\n4000000000"},
		{"stdin", nil, "", "4000000000,9784000000000\r\n", "4000000000,9784000000000"},
		{"empty stdin", nil, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(tt.args, tt.file, strings.NewReader(tt.stdin))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadInputMissingFile(t *testing.T) {
	_, err := readInput(nil, filepath.Join(t.TempDir(), "missing"), strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestRunLookupText(t *testing.T) {
	p, calls := testPipeline(t, http.StatusOK, openBDBody)
	var stdout, stderr bytes.Buffer

	err := runLookup(context.Background(), p, "9784000000000\n12345\n4000000000", formatText, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, stdout.String(), "Publisher: P")
	assert.Contains(t, stdout.String(), "Published: 2020-01-01")
	assert.Contains(t, stdout.String(), "1 result\n")
	assert.Contains(t, stderr.String(), "invalid ISBN at position 2")
	assert.Contains(t, stderr.String(), `2: "12345"`)
}

func TestRunLookupJSON(t *testing.T) {
	p, _ := testPipeline(t, http.StatusOK, openBDBody)
	var stdout, stderr bytes.Buffer

	err := runLookup(context.Background(), p, "9784000000000,4000000000", formatJSON, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), `"pubdate": "2020-01-01"`)
	assert.Empty(t, stderr.String())
}

func TestRunLookupCSL(t *testing.T) {
	p, _ := testPipeline(t, http.StatusOK, openBDBody)
	var stdout, stderr bytes.Buffer

	err := runLookup(context.Background(), p, "9784000000000,4000000000", formatCSL, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "type: book")
	assert.Contains(t, stdout.String(), "title: T")
}

func TestRunLookupOnlyInvalid(t *testing.T) {
	p, calls := testPipeline(t, http.StatusOK, `[]`)
	var stdout, stderr bytes.Buffer

	err := runLookup(context.Background(), p, "abc\n123", formatText, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, int32(0), calls.Load())
	assert.Contains(t, stdout.String(), "No results found.")
	assert.Contains(t, stderr.String(), "invalid ISBNs at positions 1, 2")
}

func TestRunLookupFailure(t *testing.T) {
	p, _ := testPipeline(t, http.StatusBadGateway, ``)
	var stdout, stderr bytes.Buffer

	err := runLookup(context.Background(), p, "4000000000", formatText, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup failed")
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.Empty(t, stdout.String())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "isbn-search dev\n", out.String())
}
