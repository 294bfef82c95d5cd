package entsoe

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/sartorproj/gridclean/timeseries"
)

// DefaultBaseURL is the Transparency Platform REST endpoint.
const DefaultBaseURL = "https://web-api.tp.entsoe.eu/api"

const (
	defaultCacheSize      = 256
	defaultMaxElapsedTime = 2 * time.Minute
	maxBodySize           = 64 << 20
)

// Fetcher retrieves a single series.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*timeseries.Series, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, q Query) (*timeseries.Series, error)

func (f FetcherFunc) Fetch(ctx context.Context, q Query) (*timeseries.Series, error) {
	return f(ctx, q)
}

// Client downloads series from the ENTSO-E Transparency Platform.
type Client struct {
	apiKey         string
	baseURL        string
	httpClient     *http.Client
	logger         *zap.Logger
	cache          *lru.Cache[string, *timeseries.Series]
	cacheSize      int
	maxElapsedTime time.Duration
	initialBackoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCacheSize sets how many responses are kept. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(c *Client) { c.cacheSize = n }
}

// WithRetry bounds how long transient failures are retried and sets the first
// retry interval.
func WithRetry(maxElapsed, initial time.Duration) Option {
	return func(c *Client) {
		c.maxElapsedTime = maxElapsed
		c.initialBackoff = initial
	}
}

// NewClient creates a client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("entsoe: missing API key")
	}
	c := &Client{
		apiKey:         apiKey,
		baseURL:        DefaultBaseURL,
		httpClient:     &http.Client{Timeout: time.Minute},
		logger:         zap.NewNop(),
		cacheSize:      defaultCacheSize,
		maxElapsedTime: defaultMaxElapsedTime,
		initialBackoff: backoff.DefaultInitialInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheSize > 0 {
		cache, err := lru.New[string, *timeseries.Series](c.cacheSize)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}
	return c, nil
}

// Fetch downloads the series described by q. A query the platform has no data
// for yields an empty series and no error.
func (c *Client) Fetch(ctx context.Context, q Query) (*timeseries.Series, error) {
	if c.cache != nil {
		if s, ok := c.cache.Get(q.key()); ok {
			return s.Copy(), nil
		}
	}

	params, err := q.params()
	if err != nil {
		return nil, &RetrievalError{Query: q, Err: err}
	}
	params.Set("securityToken", c.apiKey)
	endpoint := c.baseURL + "?" + params.Encode()

	var doc *document
	attempt := 0
	op := func() error {
		attempt++
		d, err := c.get(ctx, q, endpoint)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.MaxElapsedTime = c.maxElapsedTime
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying download",
			zap.String("series", q.Name()),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		var re *RetrievalError
		if errors.As(err, &re) {
			return nil, re
		}
		return nil, &RetrievalError{Query: q, Err: err}
	}

	var s *timeseries.Series
	if doc.acknowledgement() {
		c.logger.Info("no data", zap.String("series", q.Name()), zap.Stringer("kind", q.Kind))
		s = &timeseries.Series{Name: q.Name()}
	} else {
		s, err = doc.series(q.Name(), q.Kind)
		if err != nil {
			return nil, &RetrievalError{Query: q, Err: err}
		}
	}

	c.logger.Debug("downloaded", zap.String("series", q.Name()), zap.Int("points", s.Len()))
	if c.cache != nil {
		c.cache.Add(q.key(), s.Copy())
	}
	return s, nil
}

// get performs one request. Errors that retrying cannot fix are wrapped with
// backoff.Permanent.
func (c *Client) get(ctx context.Context, q Query, endpoint string) (*document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(&RetrievalError{Query: q, Err: err})
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(&RetrievalError{Query: q, Err: ctx.Err()})
		}
		return nil, &RetrievalError{Query: q, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &RetrievalError{Query: q, StatusCode: resp.StatusCode, Err: err}
	}

	var doc document
	decodeErr := xml.Unmarshal(body, &doc)

	if decodeErr == nil && doc.acknowledgement() {
		_, text := doc.reason()
		if strings.Contains(strings.ToLower(text), noMatchingData) {
			return &doc, nil
		}
		if resp.StatusCode == http.StatusOK {
			resp.StatusCode = http.StatusBadRequest
		}
		return nil, c.classify(&RetrievalError{Query: q, StatusCode: resp.StatusCode, Reason: text})
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.classify(&RetrievalError{Query: q, StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)})
	}
	if decodeErr != nil {
		return nil, backoff.Permanent(&RetrievalError{Query: q, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)})
	}
	return &doc, nil
}

// classify marks client errors as permanent; server errors and throttling are retried.
func (c *Client) classify(err *RetrievalError) error {
	if err.StatusCode == http.StatusTooManyRequests || err.StatusCode >= 500 {
		return err
	}
	return backoff.Permanent(err)
}
