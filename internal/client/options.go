package client

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithActor sets the X-Tasktree-Actor header sent with every request.
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}
