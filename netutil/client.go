package netutil

import (
	"context"
	"io"
	lib "net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request correlation id generated by the
// client. The id is only sent to the server; the client does not log it
// or return it to the caller.
const RequestIDHeader = "X-Request-ID"

// Client is a thin, interceptor-friendly wrapper around the standard
// library HTTP client used by the remote store implementations.
type Client struct {
	mw []func(req *lib.Request)
	hc *lib.Client
}

// NewClient returns an HTTP client configured with the given options.
// The zero-value client has no timeout; callers working against remote
// stores should always pass WithTimeout.
func NewClient(options ...Option) (*Client, error) {
	c := &Client{
		hc: &lib.Client{Transport: lib.DefaultTransport},
	}
	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Get issues a GET request to url.
func (c *Client) Get(ctx context.Context, url string) (*lib.Response, error) {
	req, err := lib.NewRequestWithContext(ctx, lib.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Post issues a POST request to url with the given content type and body.
func (c *Client) Post(ctx context.Context, url, contentType string, body io.Reader) (*lib.Response, error) {
	req, err := lib.NewRequestWithContext(ctx, lib.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

func (c *Client) do(req *lib.Request) (*lib.Response, error) {
	req.Header.Set(RequestIDHeader, uuid.NewString())
	for _, ci := range c.mw {
		ci(req)
	}
	return c.hc.Do(req)
}
