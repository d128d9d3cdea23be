// Package httpclient is a small JSON-over-HTTP client shared by the provider
// adapters (voice, CRM). It applies one bounded timeout to every request and
// converts non-2xx responses into *StatusError.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBody = 4 << 10

// StatusError is returned for any non-2xx provider response.
// Body holds (a prefix of) the provider payload for server-side logging.
type StatusError struct {
	Service    string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Service, e.StatusCode)
}

type Client struct {
	service string
	baseURL string
	http    *http.Client
	header  http.Header
}

type Option func(*Client)

// WithBearer sets an Authorization: Bearer header on every request.
func WithBearer(token string) Option {
	return func(c *Client) { c.header.Set("Authorization", "Bearer "+token) }
}

// WithHeader sets a static header on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithHTTPClient replaces the underlying client; the caller owns its timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for one provider. service names the provider in errors and logs.
func New(service, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		header:  make(http.Header),
	}
	c.header.Set("Content-Type", "application/json")
	c.header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Service() string { return c.service }

// DoJSON sends in (if non-nil) as a JSON body and decodes the response into out (if non-nil).
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", c.service, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.service, err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Service: c.service, StatusCode: resp.StatusCode, Body: payload}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.service, err)
	}
	return nil
}
