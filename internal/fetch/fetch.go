// Package fetch performs the HTTP GETs behind every scraper in the module.
//
// A Client sets the user agent, maps status codes onto the errs taxonomy and
// retries transient failures (connection resets, truncated bodies, 5xx and
// 429 responses) on a fixed interval until the request succeeds, the retry
// budget runs out or the context is cancelled.
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
)

const (
	UserAgent     = "hockey-pbp/1.0 (github.com/pfrederiksen/hockey-pbp)"
	Timeout       = 30 * time.Second
	RetryInterval = 10 * time.Second
)

// RetryHook is called before each retry of a transient failure.
type RetryHook func(url string, err error, wait time.Duration)

// Client fetches documents over HTTP.
type Client struct {
	client     *http.Client
	userAgent  string
	interval   time.Duration
	maxRetries uint64
	onRetry    RetryHook
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRetry sets the fixed retry interval and the retry budget.
// A maxRetries of 0 retries until the context ends.
func WithRetry(interval time.Duration, maxRetries uint64) Option {
	return func(c *Client) {
		c.interval = interval
		c.maxRetries = maxRetries
	}
}

// WithRetryHook registers a callback invoked before each retry.
func WithRetryHook(hook RetryHook) Option {
	return func(c *Client) { c.onRetry = hook }
}

// New creates a Client with the default timeout, user agent and retry interval.
func New(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
		interval:  RetryInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url and returns the response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	op := func() error {
		b, err := c.get(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if errors.Is(err, errs.ErrTransient) {
				return err
			}
			return backoff.Permanent(err)
		}
		body = b
		return nil
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(c.interval)
	if c.maxRetries > 0 {
		b = backoff.WithMaxRetries(b, c.maxRetries)
	}
	notify := func(err error, wait time.Duration) {
		if c.onRetry != nil {
			c.onRetry(url, err, wait)
		}
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ctx.Err(), "fetching %s", url)
		}
		return nil, errors.Wrapf(err, "fetching %s", url)
	}
	return body, nil
}

// GetLatin1 fetches an ISO-8859-1 document and returns it as UTF-8.
func (c *Client) GetLatin1(ctx context.Context, url string) ([]byte, error) {
	raw, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, errs.Malformed("decoding %s: %v", url, err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTransient(err) {
			return nil, errs.Transient(errors.Wrap(err, "requesting"))
		}
		return nil, errors.Wrap(err, "requesting")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.NotFound("%s: status %d", url, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, errs.Transient(errors.Newf("unexpected status code: %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Newf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// A body cut short mid-transfer is worth another attempt
		return nil, errs.Transient(errors.Wrap(err, "reading body"))
	}
	return body, nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "connection reset")
}
