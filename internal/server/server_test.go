// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/isbn-search/internal/history"
	"github.com/pdiddy/isbn-search/internal/search"
	"github.com/pdiddy/isbn-search/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLookup struct {
	mu    sync.Mutex
	calls [][]string
	books map[string]*types.Book
	err   error
}

func (s *stubLookup) Lookup(_ context.Context, isbns []string) ([]*types.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, isbns)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*types.Book, len(isbns))
	for i, id := range isbns {
		out[i] = s.books[id]
	}
	return out, nil
}

type stubHistory struct {
	records []types.SearchRecord
	err     error
	limit   int
}

func (h *stubHistory) Recent(_ context.Context, n int) ([]types.SearchRecord, error) {
	h.limit = n
	if h.err != nil {
		return nil, h.err
	}
	if n < len(h.records) {
		return h.records[:n], nil
	}
	return h.records, nil
}

func (h *stubHistory) Get(_ context.Context, id string) (types.SearchRecord, error) {
	for _, r := range h.records {
		if r.ID == id {
			return r, nil
		}
	}
	return types.SearchRecord{}, history.ErrNotFound
}

var bookT = &types.Book{Title: "T", ISBN: "9784000000000", Publisher: "P", PubDate: "20200101", Author: "A"}

func newTestServer(lookup *stubLookup, hist HistoryReader) *Server {
	return New(&search.Pipeline{Lookup: lookup}, hist, nil)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeSearch(t *testing.T, w *httptest.ResponseRecorder) searchResponse {
	t.Helper()
	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestServer(&stubLookup{}, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSearchPost(t *testing.T) {
	lookup := &stubLookup{books: map[string]*types.Book{"9784000000000": bookT}}
	s := newTestServer(lookup, nil)

	w := do(t, s, http.MethodPost, "/api/search", `{"input":"9784000000000\n12345\n4000000000"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	assert.Equal(t, types.StatusSuccess, resp.Status)
	assert.True(t, resp.Requested)
	assert.Equal(t, []types.Card{{
		Position: 0, Title: "T", ISBN: "9784000000000", Publisher: "P", Author: "A", PubDate: "2020-01-01",
	}}, resp.Cards)
	assert.Equal(t, []invalidEntry{{Position: 2, ISBN: "12345"}}, resp.Invalid)
	assert.Equal(t, "invalid ISBN at position 2", resp.Notice)
	assert.Equal(t, [][]string{{"9784000000000", "4000000000"}}, lookup.calls)
}

func TestSearchGet(t *testing.T) {
	lookup := &stubLookup{books: map[string]*types.Book{"9784000000000": bookT}}
	s := newTestServer(lookup, nil)

	w := do(t, s, http.MethodGet, "/api/search?isbn=9784000000000,4000000000", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	assert.Len(t, resp.Cards, 1)
	assert.Empty(t, resp.Invalid)
	assert.Empty(t, resp.Notice)
	assert.Equal(t, [][]string{{"9784000000000", "4000000000"}}, lookup.calls)
}

func TestSearchEmptyListsAreArrays(t *testing.T) {
	s := newTestServer(&stubLookup{}, nil)

	w := do(t, s, http.MethodGet, "/api/search?isbn=4000000000", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cards":[]`)
	assert.Contains(t, w.Body.String(), `"invalid":[]`)
}

func TestSearchOnlyInvalidIssuesNoLookup(t *testing.T) {
	lookup := &stubLookup{}
	s := newTestServer(lookup, nil)

	w := do(t, s, http.MethodPost, "/api/search", `{"input":"abc,123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	assert.False(t, resp.Requested)
	assert.Equal(t, types.StatusSuccess, resp.Status)
	assert.Equal(t, "invalid ISBNs at positions 1, 2", resp.Notice)
	assert.Empty(t, lookup.calls)
}

func TestSearchLookupFailure(t *testing.T) {
	s := newTestServer(&stubLookup{err: errors.New("boom")}, nil)

	w := do(t, s, http.MethodPost, "/api/search", `{"input":"4000000000"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	assert.Equal(t, types.StatusFailed, resp.Status)
	assert.Empty(t, resp.Cards)
}

func TestSearchBadRequests(t *testing.T) {
	s := newTestServer(&stubLookup{}, nil)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"get without isbn", http.MethodGet, "/api/search", ""},
		{"get with empty isbn", http.MethodGet, "/api/search?isbn=", ""},
		{"post without body", http.MethodPost, "/api/search", ""},
		{"post malformed json", http.MethodPost, "/api/search", `{"input":`},
		{"post missing input", http.MethodPost, "/api/search", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "message")
		})
	}
}

func TestHistoryList(t *testing.T) {
	hist := &stubHistory{records: []types.SearchRecord{
		{ID: "b", Input: "4000000000", Status: types.StatusSuccess, CreatedAt: time.Unix(2, 0).UTC()},
		{ID: "a", Input: "9784000000000", Status: types.StatusFailed, CreatedAt: time.Unix(1, 0).UTC()},
	}}
	s := newTestServer(&stubLookup{}, hist)

	w := do(t, s, http.MethodGet, "/api/history?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var records []types.SearchRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, 1, hist.limit)

	w = do(t, s, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultHistoryLimit, hist.limit)
}

func TestHistoryListBadLimit(t *testing.T) {
	s := newTestServer(&stubLookup{}, &stubHistory{})
	for _, limit := range []string{"0", "-1", "x"} {
		w := do(t, s, http.MethodGet, "/api/history?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, limit)
	}
}

func TestHistoryListError(t *testing.T) {
	s := newTestServer(&stubLookup{}, &stubHistory{err: errors.New("disk full")})
	w := do(t, s, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "disk full")
}

func TestHistoryDisabled(t *testing.T) {
	s := newTestServer(&stubLookup{}, nil)

	w := do(t, s, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/history/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryGet(t *testing.T) {
	hist := &stubHistory{records: []types.SearchRecord{{ID: "a", Input: "4000000000", Status: types.StatusSuccess}}}
	s := newTestServer(&stubLookup{}, hist)

	w := do(t, s, http.MethodGet, "/api/history/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rec types.SearchRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "4000000000", rec.Input)

	w = do(t, s, http.MethodGet, "/api/history/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := newTestServer(&stubLookup{}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
