// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/redis.v5"

	"github.com/pdiddy/isbn-search/pkg/types"
)

const defaultRedisKey = "isbn-search:history"

// RedisStore keeps the newest MaxEntries records as JSON in a Redis list.
type RedisStore struct {
	client     *redis.Client
	key        string
	maxEntries int
}

// NewRedisStore connects to cfg.RedisAddr and verifies the connection.
func NewRedisStore(cfg types.HistoryConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	return &RedisStore{
		client:     client,
		key:        defaultRedisKey,
		maxEntries: maxEntries(cfg),
	}, nil
}

// Close closes the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Record pushes rec to the head of the list and trims the list to the
// configured maximum.
func (s *RedisStore) Record(ctx context.Context, rec types.SearchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding search %s: %w", rec.ID, err)
	}

	if err := s.client.LPush(s.key, data).Err(); err != nil {
		return fmt.Errorf("pushing search %s: %w", rec.ID, err)
	}
	if err := s.client.LTrim(s.key, 0, int64(s.maxEntries-1)).Err(); err != nil {
		return fmt.Errorf("trimming history list: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (s *RedisStore) Recent(ctx context.Context, n int) ([]types.SearchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 || n > s.maxEntries {
		n = s.maxEntries
	}

	raw, err := s.client.LRange(s.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading history list: %w", err)
	}
	return decodeRecords(raw)
}

// Get scans the list for id.
func (s *RedisStore) Get(ctx context.Context, id string) (types.SearchRecord, error) {
	records, err := s.Recent(ctx, s.maxEntries)
	if err != nil {
		return types.SearchRecord{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return types.SearchRecord{}, ErrNotFound
}

func decodeRecords(raw []string) ([]types.SearchRecord, error) {
	records := make([]types.SearchRecord, 0, len(raw))
	for _, item := range raw {
		var rec types.SearchRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decoding history entry: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
