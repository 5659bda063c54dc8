// Package client talks to a timeshift daemon's control API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/HerbHall/timeshift/internal/control"
	"github.com/HerbHall/timeshift/internal/server"
	"github.com/HerbHall/timeshift/internal/version"
)

const controlPrefix = "/api/v1/control"

// Client is a control API client. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a Client for the daemon at baseURL, e.g.
// http://127.0.0.1:7700.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns the daemon's clock state.
func (c *Client) Status(ctx context.Context) (control.Status, error) {
	return c.call(ctx, http.MethodGet, "/status", nil)
}

// Shift moves the daemon's clock by d.
func (c *Client) Shift(ctx context.Context, d time.Duration) (control.Status, error) {
	return c.call(ctx, http.MethodPost, "/shift", control.ShiftRequest{Duration: d.String()})
}

// ShiftMillis moves the daemon's clock by ms milliseconds.
func (c *Client) ShiftMillis(ctx context.Context, ms float64) (control.Status, error) {
	return c.call(ctx, http.MethodPost, "/shift", control.ShiftRequest{MS: ms})
}

// Jump moves the daemon's clock to to: epoch milliseconds or a date
// string.
func (c *Client) Jump(ctx context.Context, to any) (control.Status, error) {
	return c.call(ctx, http.MethodPost, "/jump", control.JumpRequest{To: to})
}

// Reset restores the daemon's real clock.
func (c *Client) Reset(ctx context.Context) (control.Status, error) {
	return c.call(ctx, http.MethodPost, "/reset", nil)
}

func (c *Client) call(ctx context.Context, method, path string, body any) (control.Status, error) {
	var status control.Status

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return status, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+controlPrefix+path, reader)
	if err != nil {
		return status, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent("timeshift-cli"))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return status, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return status, decodeProblem(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("decode response: %w", err)
	}
	return status, nil
}

// decodeProblem turns an error response into a server.Problem, falling
// back to the HTTP status line when the body is not a problem document.
func decodeProblem(resp *http.Response) error {
	var p server.Problem
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&p); err != nil || p.Title == "" {
		return server.Problem{Title: resp.Status, Status: resp.StatusCode}
	}
	return p
}
