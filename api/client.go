// Package api is a typed client for the storefront REST API: site
// configuration, categories, products, carts, orders and contact requests.
// It carries no business rules; the cart engine and checkout build on it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"floure-storefront/cache"
	"floure-storefront/logging"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client issues requests against one API base URL. It is safe for
// concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	breaker  *gobreaker.CircuitBreaker[[]byte]
	log      *zap.Logger

	timeout         time.Duration
	breakerSettings *BreakerSettings
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCache enables read-through caching of catalog reads (site config,
// categories, products). Cart, order and contact calls are never cached.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

func WithBreaker(settings BreakerSettings) Option {
	return func(c *Client) {
		c.breakerSettings = &settings
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.log = logging.OrNop(logger).Named("api")
	}
}

// NewClient constructs a client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		c.http.Timeout = c.timeout
	}
	if c.breakerSettings != nil {
		c.breaker = newBreaker(*c.breakerSettings, c.log)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// getCached decodes a GET response, serving it from the cache when enabled.
func (c *Client) getCached(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.cache == nil {
		return c.do(ctx, http.MethodGet, path, query, nil)
	}

	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}
	if raw, err := c.cache.Get(ctx, key); err == nil {
		return raw, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		c.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL); err != nil {
		c.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return raw, nil
}

// do performs one request and returns the raw response body. Non-2xx
// responses become *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("api: build url for %s: %w", path, err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
	}

	call := func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, endpoint, payload)
	}
	if c.breaker == nil {
		return call()
	}
	raw, err := c.breaker.Execute(call)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	return raw, err
}

func (c *Client) roundTrip(ctx context.Context, method, path, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("api: read %s %s: %w", method, path, err)
	}
	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode >= 400 {
		return nil, &Error{Method: method, Path: path, Status: resp.StatusCode, Body: trimBody(raw)}
	}
	return raw, nil
}

func decode[T any](raw []byte, what string) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("api: decode %s: %w", what, err)
	}
	return &out, nil
}

func trimBody(raw []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(raw))
	if len(s) > limit {
		s = s[:limit]
	}
	return s
}
