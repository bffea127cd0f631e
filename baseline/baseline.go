// Package baseline fetches the monthly sales series the forecasts are
// built on. The transport is a plain HTTP endpoint returning JSON; field
// locations are configured as gjson paths so the client adapts to whatever
// shape the upstream reporting system emits. Freshness is validated with
// Last-Modified, and a stale cached copy is served when the network is
// unavailable.
package baseline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/blizzardforecast/blizzard/store"
)

var (
	ErrNoSeries     = errors.New("response carries no series values")
	ErrBadStatus    = errors.New("unexpected response status")
	ErrMissingField = errors.New("response is missing a required field")
)

// Client fetches and caches the baseline series.
type Client struct {
	// URL is the baseline endpoint (required).
	URL string

	// SeriesPath extracts the monthly values, e.g. "data.#.total".
	SeriesPath string

	// StartYearPath and StartMonthPath extract the series anchor.
	StartYearPath  string
	StartMonthPath string

	// HTTPClient is optional; a default with a timeout is used when nil.
	HTTPClient *http.Client

	// Logger is optional; slog.Default is used when nil.
	Logger *slog.Logger

	mu           sync.Mutex
	cached       *store.Baseline
	lastModified string
}

const defaultTimeout = 10 * time.Second

// Fetch returns the current baseline. When the cached copy carried a
// Last-Modified stamp the request is conditional and a 304 serves the cache;
// a network failure, an error status or a malformed response also falls
// back to the cache rather than erroring. An error is returned only when
// nothing has ever been fetched and the endpoint is unreachable or the
// response is malformed.
func (c *Client) Fetch(ctx context.Context) (store.Baseline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return store.Baseline{}, fmt.Errorf("unable to build baseline request, %w", err)
	}
	if c.lastModified != "" {
		req.Header.Set("If-Modified-Since", c.lastModified)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		if c.cached != nil {
			c.logger().Warn("baseline fetch failed, serving stale copy",
				"url", c.URL, "error", err, "fetched_at", c.cached.FetchedAt)
			return *c.cached, nil
		}
		return store.Baseline{}, fmt.Errorf("unable to fetch baseline, %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && c.cached != nil:
		return *c.cached, nil
	case resp.StatusCode != http.StatusOK:
		if c.cached != nil {
			c.logger().Warn("baseline fetch returned error status, serving stale copy",
				"url", c.URL, "status", resp.StatusCode)
			return *c.cached, nil
		}
		return store.Baseline{}, fmt.Errorf("status %d, %w", resp.StatusCode, ErrBadStatus)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if c.cached != nil {
			c.logger().Warn("baseline read failed, serving stale copy",
				"url", c.URL, "error", err)
			return *c.cached, nil
		}
		return store.Baseline{}, fmt.Errorf("unable to read baseline response, %w", err)
	}

	b, err := c.parse(body)
	if err != nil {
		if c.cached != nil {
			c.logger().Warn("baseline response malformed, serving stale copy",
				"url", c.URL, "error", err)
			return *c.cached, nil
		}
		return store.Baseline{}, err
	}

	c.cached = &b
	c.lastModified = resp.Header.Get("Last-Modified")
	return b, nil
}

// Cached returns the last successfully fetched baseline, if any.
func (c *Client) Cached() (store.Baseline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil {
		return store.Baseline{}, false
	}
	return *c.cached, true
}

func (c *Client) parse(body []byte) (store.Baseline, error) {
	values := gjson.GetBytes(body, c.SeriesPath)
	if !values.Exists() {
		return store.Baseline{}, fmt.Errorf("series path %q, %w", c.SeriesPath, ErrMissingField)
	}

	var series []float64
	values.ForEach(func(_, v gjson.Result) bool {
		series = append(series, v.Float())
		return true
	})
	if len(series) == 0 {
		return store.Baseline{}, ErrNoSeries
	}

	startYear := gjson.GetBytes(body, c.StartYearPath)
	startMonth := gjson.GetBytes(body, c.StartMonthPath)
	if !startYear.Exists() || !startMonth.Exists() {
		return store.Baseline{}, fmt.Errorf("anchor paths %q/%q, %w",
			c.StartYearPath, c.StartMonthPath, ErrMissingField)
	}

	return store.Baseline{
		Series:     series,
		StartYear:  int(startYear.Int()),
		StartMonth: time.Month(startMonth.Int()),
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
