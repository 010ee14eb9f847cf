// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed searches so they can be listed and
// exported later. Two stores are provided: SQLite for a local file and
// Redis for a shared, capped list.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/isbn-search/pkg/types"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("search record not found")

const defaultMaxEntries = 100

// Store is implemented by SQLiteStore and RedisStore.
type Store interface {
	Record(ctx context.Context, rec types.SearchRecord) error
	Recent(ctx context.Context, n int) ([]types.SearchRecord, error)
	Get(ctx context.Context, id string) (types.SearchRecord, error)
	Close() error
}

// NewRecord builds a record for a completed search with a fresh ID and
// the current time. A non-nil lookupErr marks the search as failed and
// drops any books.
func NewRecord(input string, valid []string, invalid []types.InvalidISBN, books []*types.Book, lookupErr error) types.SearchRecord {
	rec := types.SearchRecord{
		ID:        uuid.NewString(),
		Input:     input,
		Valid:     valid,
		Invalid:   invalid,
		Status:    types.StatusSuccess,
		Books:     books,
		CreatedAt: time.Now().UTC(),
	}
	if lookupErr != nil {
		rec.Status = types.StatusFailed
		rec.Error = lookupErr.Error()
		rec.Books = nil
	}
	return rec
}

// Open returns the store selected by cfg.Backend, or nil for the none
// backend.
func Open(cfg types.HistoryConfig) (Store, error) {
	switch cfg.Backend {
	case types.HistorySQLite, "":
		s, err := NewSQLiteStore(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.HistoryRedis:
		s, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.HistoryNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q (want sqlite, redis, or none)", cfg.Backend)
	}
}

func maxEntries(cfg types.HistoryConfig) int {
	if cfg.MaxEntries <= 0 {
		return defaultMaxEntries
	}
	return cfg.MaxEntries
}
