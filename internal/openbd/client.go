// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openbd queries the openBD bibliographic API for book summaries.
package openbd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/isbn-search/internal/httputil"
	"github.com/pdiddy/isbn-search/pkg/types"
)

// DefaultBaseURL is the openBD get endpoint.
const DefaultBaseURL = "https://api.openbd.jp/v1/get"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "isbn-search/0.1"
)

// Client looks up batches of ISBNs in one request.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string

	// RateLimitRetries is passed to httputil.DoWithRetry; zero means a
	// single attempt.
	RateLimitRetries int

	Logger *zap.Logger
}

// NewClient builds a Client from cfg, filling defaults for empty fields.
func NewClient(cfg types.LookupConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTP:             &http.Client{Timeout: timeout},
		BaseURL:          baseURL,
		UserAgent:        userAgent,
		RateLimitRetries: cfg.RateLimitRetries,
		Logger:           logger,
	}
}

// Lookup fetches summaries for isbns with a single GET request. The result
// has one entry per requested identifier, in request order; identifiers
// openBD does not know map to nil. An empty isbns slice issues no request.
// Any failure returns an error and no partial results.
func (c *Client) Lookup(ctx context.Context, isbns []string) ([]*types.Book, error) {
	if len(isbns) == 0 {
		return nil, nil
	}

	reqURL, err := c.requestURL(isbns)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	c.logger().Debug("openBD lookup", zap.Int("isbns", len(isbns)), zap.String("url", reqURL))

	resp, err := httputil.DoWithRetry(ctx, c.httpClient(), req, c.RateLimitRetries, c.logger())
	if err != nil {
		return nil, fmt.Errorf("openBD API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openBD API returned HTTP %d", resp.StatusCode)
	}

	var entries []*openBDEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing openBD response: %w", err)
	}
	if len(entries) != len(isbns) {
		return nil, fmt.Errorf("openBD returned %d records for %d identifiers", len(entries), len(isbns))
	}

	books := make([]*types.Book, len(entries))
	for i, e := range entries {
		if e == nil || e.Summary == nil {
			continue
		}
		books[i] = e.Summary.toBook()
	}
	return books, nil
}

// requestURL appends the isbn parameter to the base URL, keeping any query
// the base URL already carries. Identifiers are validated digits, so the
// comma-joined list goes out unescaped.
func (c *Client) requestURL(isbns []string) (string, error) {
	u, err := url.Parse(c.baseURL())
	if err != nil {
		return "", fmt.Errorf("parsing openBD base URL: %w", err)
	}
	q := u.Query()
	q.Del("isbn")
	raw := q.Encode()
	if raw != "" {
		raw += "&"
	}
	u.RawQuery = raw + "isbn=" + strings.Join(isbns, ",")
	return u.String(), nil
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// openBD API JSON structures. Only the summary block is decoded; the ONIX
// and hanmoto blocks are ignored.
type openBDEntry struct {
	Summary *openBDSummary `json:"summary"`
}

type openBDSummary struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Volume    string `json:"volume"`
	Series    string `json:"series"`
	Publisher string `json:"publisher"`
	PubDate   string `json:"pubdate"`
	Cover     string `json:"cover"`
	Author    string `json:"author"`
}

func (s *openBDSummary) toBook() *types.Book {
	return &types.Book{
		Title:     s.Title,
		ISBN:      s.ISBN,
		Publisher: s.Publisher,
		PubDate:   s.PubDate,
		Author:    s.Author,
		Series:    s.Series,
		Volume:    s.Volume,
		Cover:     s.Cover,
	}
}
