// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "isbn-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LookupConfig holds settings for the bibliographic lookup client.
type LookupConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the openBD get endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// RateLimitRetries is the number of retries on HTTP 429. Zero disables
	// retrying: a lookup is a single request.
	RateLimitRetries int `json:"rate_limit_retries" yaml:"rate_limit_retries" mapstructure:"rate_limit_retries"`
}

// HistoryBackend selects where completed searches are recorded.
type HistoryBackend string

const (
	HistorySQLite HistoryBackend = "sqlite"
	HistoryRedis  HistoryBackend = "redis"
	HistoryNone   HistoryBackend = "none"
)

// HistoryConfig holds settings for the search history store.
type HistoryConfig struct {
	// Backend selects the store: sqlite, redis, or none.
	Backend HistoryBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Dir is the directory holding history.db for the sqlite backend.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// RedisAddr is the host:port of the Redis server for the redis backend.
	RedisAddr string `json:"redis_addr" yaml:"redis_addr" mapstructure:"redis_addr"`

	// RedisPassword is loaded from .secrets/redis-password, never from the config file.
	RedisPassword string `json:"-" yaml:"-" mapstructure:"-"`

	RedisDB int `json:"redis_db" yaml:"redis_db" mapstructure:"redis_db"`

	// MaxEntries caps the redis list and is the default listing size (default 100).
	MaxEntries int `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`
}

// ServeConfig holds settings for the HTTP API.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups all settings.
type Config struct {
	Lookup  LookupConfig  `json:"lookup" yaml:"lookup" mapstructure:"lookup"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
	Serve   ServeConfig   `json:"serve" yaml:"serve" mapstructure:"serve"`
}
