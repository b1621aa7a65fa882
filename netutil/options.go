package netutil

import (
	lib "net/http"
	"time"
)

// Option adjusts client settings following a functional pattern.
type Option func(c *Client) error

// WithRoundTripper adjusts the transport used by the client instance.
func WithRoundTripper(rt lib.RoundTripper) Option {
	return func(c *Client) error {
		c.hc.Transport = rt
		return nil
	}
}

// WithTimeout specifies a time limit for requests made by this client.
// The timeout includes connection time, any redirects, and reading the
// response body.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.hc.Timeout = timeout
		return nil
	}
}

// WithInterceptors allows transforming every outbound request before it
// is executed by the client.
func WithInterceptors(ci ...func(req *lib.Request)) Option {
	return func(c *Client) error {
		c.mw = append(c.mw, ci...)
		return nil
	}
}
