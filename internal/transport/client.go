// Package transport wraps net/http for talking to remote bibliographic
// sources.
package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// DefaultUserAgent identifies requests made by this tool.
var DefaultUserAgent = constants.AppName + " (+https://github.com/agentstation/papertrail)"

// Client performs HTTP requests with shared headers and timeout.
type Client struct {
	http      *http.Client
	userAgent string
	accept    string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithAccept sets the Accept header.
func WithAccept(accept string) Option {
	return func(c *Client) {
		c.accept = accept
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: DefaultUserAgent,
		accept:    "*/*",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with the common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", c.accept)

	start := time.Now()
	resp, err := c.http.Do(req)
	logger := logging.Ctx(req.Context())
	if err != nil {
		logger.Debug().Err(err).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}
	logger.Debug().
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("HTTP request")
	return resp, nil
}

// Get performs a GET request against base with the given query parameters.
func (c *Client) Get(ctx context.Context, base string, params url.Values) (*http.Response, error) {
	u := base
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+u, err)
	}
	return c.Do(req)
}
