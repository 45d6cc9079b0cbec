// Package merge asks the remote pairing service what two elements make.
package merge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultEndpoint is the public pairing service.
const DefaultEndpoint = "https://infiniteback.org/pair"

// ErrMergeFailed wraps every resolution failure: transport errors,
// unexpected status codes and malformed bodies alike.
var ErrMergeFailed = errors.New("merge resolution failed")

// Result is the element produced by a merge.
type Result struct {
	Kind  string
	Emoji string
}

// Resolver resolves the merge of two element kinds. The first argument
// is the dragged kind.
type Resolver interface {
	Resolve(ctx context.Context, first, second string) (Result, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, first, second string) (Result, error)

func (f ResolverFunc) Resolve(ctx context.Context, first, second string) (Result, error) {
	return f(ctx, first, second)
}

type pairResponse struct {
	Result string `json:"result"`
	Emoji  string `json:"emoji"`
}

// Client resolves merges over HTTP. It never retries and never caches,
// so asking for the same pair twice issues two requests.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
	sem      *semaphore.Weighted
	timeout  time.Duration
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxInFlight caps how many requests may be outstanding at once.
// Further calls wait for a slot. n <= 0 removes the cap.
func WithMaxInFlight(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.sem = semaphore.NewWeighted(int64(n))
		} else {
			c.sem = nil
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		http:     &http.Client{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) Resolve(ctx context.Context, first, second string) (Result, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrMergeFailed, err)
		}
		defer c.sem.Release(1)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := c.do(ctx, first, second)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s + %s: %v", ErrMergeFailed, first, second, err)
	}
	c.logger.Debug("merge resolved",
		zap.String("first", first),
		zap.String("second", second),
		zap.String("result", res.Kind),
		zap.Duration("latency", time.Since(start)),
	)
	return res, nil
}

func (c *Client) do(ctx context.Context, first, second string) (Result, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("first", first)
	q.Set("second", second)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var body pairResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	kind := strings.ToLower(strings.TrimSpace(body.Result))
	if kind == "" {
		return Result{}, errors.New("response has no result")
	}
	return Result{Kind: kind, Emoji: body.Emoji}, nil
}
