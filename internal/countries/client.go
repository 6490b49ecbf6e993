// Package countries is the client side of the public country-information service.
package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mtlprog/earth/internal/apperr"
	"github.com/mtlprog/earth/internal/metrics"
)

// maxBodySize caps a decoded response; /all is roughly 100 KB with summary fields.
const maxBodySize = 8 << 20

// Fetcher issues read requests against the country service.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]Country, error)
}

// Client is the HTTP implementation of Fetcher.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records call durations.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the service at baseURL.
// Returns error if baseURL is empty.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("country service URL is required")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch performs req. Every failure is returned as *apperr.NetworkError.
func (c *Client) Fetch(ctx context.Context, req Request) ([]Country, error) {
	start := time.Now()
	result, err := c.do(ctx, req)
	c.metrics.ObserveFetch(req.Endpoint, err, time.Since(start))
	if err != nil {
		c.logger.Debug("country service call failed", "endpoint", req.Endpoint, "path", req.Path, "error", err)
		return nil, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, req Request) ([]Country, error) {
	u := req.URL(c.baseURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &apperr.NetworkError{Message: failureMessage(req), Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &apperr.NetworkError{Message: failureMessage(req), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		msg := failureMessage(req)
		if resp.StatusCode == http.StatusNotFound {
			msg = notFoundMessage(req)
		}
		return nil, &apperr.NetworkError{
			Message:    msg,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("GET %s: unexpected status %d", req.Path, resp.StatusCode),
		}
	}

	var result []Country
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&result); err != nil {
		return nil, &apperr.NetworkError{
			Message:    failureMessage(req),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode %s response: %w", req.Endpoint, err),
		}
	}
	return result, nil
}

func failureMessage(req Request) string {
	if req.Endpoint == "name" {
		return "Failed to fetch country"
	}
	return "Failed to fetch countries"
}

func notFoundMessage(req Request) string {
	if req.Endpoint == "name" {
		return "Country not found"
	}
	return "No countries found"
}
