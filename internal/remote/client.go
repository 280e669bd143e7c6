// Package remote implements the HTTP/JSON contract with the index service.
// The service owns all model and index internals; only the request/response
// shapes matter here.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/seelkers/favsearch/internal/errors"
)

// DefaultSearchCacheSize is the number of search responses kept in memory.
// Debounced retyping often resolves to a recently-seen query.
const DefaultSearchCacheSize = 128

// Config configures the remote client.
type Config struct {
	// BaseURL is the root of the index service, without a trailing slash.
	BaseURL string

	// Key is the per-account index key. Anything that is not a valid
	// 32-character alphanumeric key suppresses keyed calls entirely.
	Key string

	// HTTPClient overrides the transport. Nil uses a client without an
	// explicit timeout: a hung request stays outstanding until its context
	// is cancelled by a newer query or teardown.
	HTTPClient *http.Client

	// SearchCacheSize overrides the search response cache size.
	SearchCacheSize int
}

// Client talks to the remote index service.
type Client struct {
	baseURL string
	key     string
	http    *http.Client

	modelsFlight singleflight.Group
	searchCache  *lru.Cache[string, *SearchResponse]
}

// NewClient creates a remote client. The key may be empty or invalid; keyed
// calls will then return a not-configured error instead of hitting the wire.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	size := cfg.SearchCacheSize
	if size <= 0 {
		size = DefaultSearchCacheSize
	}
	cache, _ := lru.New[string, *SearchResponse](size)
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		key:         cfg.Key,
		http:        hc,
		searchCache: cache,
	}
}

// Configured reports whether the client holds a usable index key.
func (c *Client) Configured() bool {
	return ValidKey(c.key)
}

// Submit sends one index request for the validated items. A 2xx response
// means accepted; anything else is a network failure the caller retries on
// the next natural trigger.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) error {
	if !c.Configured() {
		return errors.NotConfigured("no valid index key")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return errors.InternalError("encode submit request", err)
	}

	u := fmt.Sprintf("%s/%s/index", c.baseURL, c.key)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return errors.InternalError("build submit request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return c.transportError("submit", err)
	}
	defer drainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NetworkError(
			fmt.Sprintf("submit rejected: %s", resp.Status), nil)
	}

	// Index contents changed; cached rankings are stale.
	c.searchCache.Purge()

	slog.Debug("index submission accepted",
		slog.Int("items", len(req.Names)),
		slog.Int("models", len(req.Models)),
		slog.Duration("took", time.Since(start)))
	return nil
}

// SearchOptions narrows a search call.
type SearchOptions struct {
	// Models restricts the search to these model IDs. Empty means all.
	Models []string

	// Limit caps results per model (the service's k parameter). Zero means
	// service default.
	Limit int
}

// Search runs a free-text query and returns one ranked list per model.
// Responses are cached; a cache hit costs no network traffic.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	if !c.Configured() {
		return nil, errors.NotConfigured("no valid index key")
	}

	cacheKey := query + "\x00" + strings.Join(opts.Models, ",") + "\x00" + strconv.Itoa(opts.Limit)
	if cached, ok := c.searchCache.Get(cacheKey); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("text", query)
	if len(opts.Models) > 0 {
		q.Set("models", strings.Join(opts.Models, ","))
	}
	if opts.Limit > 0 {
		q.Set("k", strconv.Itoa(opts.Limit))
	}

	u := fmt.Sprintf("%s/%s/search?%s", c.baseURL, c.key, q.Encode())
	var out SearchResponse
	if err := c.getJSON(ctx, "search", u, &out); err != nil {
		return nil, err
	}

	c.searchCache.Add(cacheKey, &out)
	return &out, nil
}

// Models fetches the model catalog with default weights. Concurrent callers
// share one in-flight request.
func (c *Client) Models(ctx context.Context) (map[string]float64, error) {
	v, err, _ := c.modelsFlight.Do("models", func() (any, error) {
		var out map[string]float64
		if err := c.getJSON(ctx, "models", c.baseURL+"/models", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]float64), nil
}

// StatusCounts fetches per-model indexing progress for this key.
func (c *Client) StatusCounts(ctx context.Context) (*Status, error) {
	if !c.Configured() {
		return nil, errors.NotConfigured("no valid index key")
	}
	u := fmt.Sprintf("%s/%s/statuscounts", c.baseURL, c.key)
	var out Status
	if err := c.getJSON(ctx, "statuscounts", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// getJSON performs a GET and decodes a JSON body, mapping transport and
// status failures into the engine's error taxonomy.
func (c *Client) getJSON(ctx context.Context, op, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.InternalError("build "+op+" request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(op, err)
	}
	defer drainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NetworkError(fmt.Sprintf("%s failed: %s", op, resp.Status), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NetworkError(op+": malformed response body", err)
	}
	return nil
}

// transportError distinguishes cooperative cancellation from real failures.
// A superseded request must not look like an outage.
func (c *Client) transportError(op string, err error) error {
	if stderrors.Is(err, context.Canceled) {
		return errors.Cancelled(op+" superseded", err)
	}
	return errors.NetworkError(op+" transport failure", err)
}

// drainClose drains and closes a response body so the connection can be
// reused.
func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
