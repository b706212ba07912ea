// ABOUTME: HTTP client for the CRM backend API
// ABOUTME: Single request path with bearer-token attach and 401 token-clearing interceptors

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds each request when no explicit timeout is configured
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the persisted bearer token. Token is read before
// every request so a token cleared elsewhere stops being sent
// immediately; Clear removes the persisted token.
type TokenSource interface {
	Token() string
	Clear()
}

// Client is the API client for the CRM backend. Every resource method
// funnels through its request helpers, so the interceptor pair (bearer
// attach, 401 clear) applies to all traffic.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the backend at baseURL. tokens may be nil for
// a purely anonymous client (tests); requests then go out without an
// Authorization header.
func New(baseURL string, tokens TokenSource) *Client {
	return NewWithTimeout(baseURL, tokens, DefaultTimeout)
}

// NewWithTimeout creates a client with a custom per-request timeout
func NewWithTimeout(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				tokens: tokens,
				base:   http.DefaultTransport,
			},
		},
	}
}

// authTransport is the interceptor chain. On the way out it reads the
// current token and sets the Authorization header; on the way back a 401
// clears the persisted token before the error propagates to the caller.
// Navigation after a cleared session is the view layer's concern.
type authTransport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.tokens != nil {
		slog.Debug("Request unauthorized, clearing stored token", "path", req.URL.Path)
		t.tokens.Clear()
	}

	return resp, nil
}

// get performs a GET with optional query parameters, decoding into out
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

// post sends body as JSON, decoding the response into out when non-nil
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// put sends body as JSON, decoding the response into out when non-nil
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// patch performs a PATCH carrying only query parameters, no body
func (c *Client) patch(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodPatch, path, params, nil, out)
}

// del performs a DELETE
func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do is the single request path shared by every resource client
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}
