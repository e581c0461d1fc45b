// Package feed fetches the league's CSV feeds and assembles snapshots.
//
// An unconfigured feed is a valid empty one. A feed that fails to fetch is
// marked failed on the snapshot so the service can keep the rows it loaded
// last time; partial feed availability never takes the site down.
package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/meeple/pkg/logger"
	"github.com/okian/meeple/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

// Client fetches raw CSV records per feed.
type Client struct {
	urls       map[string]string
	httpClient *http.Client
	logger     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Client) {
		if c != nil {
			f.httpClient = c
		}
	}
}

// WithTimeout sets the per-fetch timeout on the client.
func WithTimeout(d time.Duration) Option {
	return func(f *Client) {
		if d > 0 {
			f.httpClient.Timeout = d
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(f *Client) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewClient creates a Client fetching the given URL per feed name.
func NewClient(urls map[string]string, opts ...Option) *Client {
	c := &Client{
		urls:       urls,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.Get().Named("feed"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves and parses one feed. An unconfigured feed is a valid
// empty feed and returns no rows and no error. Transport failures,
// non-success statuses and parse failures return an error so callers can
// tell a broken feed apart from a deliberately empty one.
func (c *Client) Fetch(ctx context.Context, feed string) ([]map[string]string, error) {
	url := strings.TrimSpace(c.urls[feed])
	if url == "" {
		c.logger.Warn(ctx, "feed URL not configured", logger.String("feed", feed))
		metrics.RecordFeedFetch(feed, "unconfigured")
		return nil, nil
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error(ctx, "building feed request failed", logger.String("feed", feed), logger.Error(err))
		metrics.RecordFeedFetch(feed, "error")
		metrics.RecordError("feed", "request")
		return nil, fmt.Errorf("%w: %w", ErrFetchFeed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "feed fetch failed", logger.String("feed", feed), logger.Error(err))
		metrics.RecordFeedFetch(feed, "error")
		metrics.RecordError("feed", "transport")
		return nil, fmt.Errorf("%w: %w", ErrFetchFeed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error(ctx, "feed returned non-success status",
			logger.String("feed", feed),
			logger.Int("status", resp.StatusCode),
		)
		metrics.RecordFeedFetch(feed, "error")
		metrics.RecordError("feed", "status")
		return nil, fmt.Errorf("%w: status %d", ErrFetchFeed, resp.StatusCode)
	}

	rows, err := ParseCSV(resp.Body)
	if err != nil {
		c.logger.Error(ctx, "feed parse failed", logger.String("feed", feed), logger.Error(err))
		metrics.RecordFeedFetch(feed, "error")
		metrics.RecordError("feed", "parse")
		return nil, fmt.Errorf("%w: %w", ErrParseFeed, err)
	}

	metrics.RecordFeedFetch(feed, "ok")
	metrics.RecordFeedFetchDuration(feed, float64(time.Since(start).Milliseconds()))
	c.logger.Debug(ctx, "feed fetched",
		logger.String("feed", feed),
		logger.Int("rows", len(rows)),
	)
	return rows, nil
}

// ParseCSV reads a spreadsheet CSV export into string-keyed records. The
// first row names the columns; short rows pad missing cells with "". Quoted
// cells and embedded commas follow standard CSV rules, with lazy quoting
// for the sloppy exports sheets produce.
func ParseCSV(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		empty := true
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			var cell string
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			if cell != "" {
				empty = false
			}
			row[h] = cell
		}
		if empty {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
