// Package payment talks to the Papara checkout endpoint of the payment service.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kozymacro/papara-checkout/internal/model"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// APIError is a rejection reported by the payment service.
// Field names the offending form field ("email", "quantity", "discount") and may be empty.
type APIError struct {
	StatusCode int
	Field      string
	Message    string
}

func (e *APIError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("payment service rejected request (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payment service rejected %s (status %d): %s", e.Field, e.StatusCode, e.Message)
}

// Client posts purchase requests to the payment service.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying transport client.
// Redirects are never followed regardless of the client's own policy.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		clone := *hc
		c.http = &clone
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the given endpoint.
// Returns error if endpoint is empty.
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("payment endpoint is required")
	}

	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return c, nil
}

// Purchase sends req and returns the URL the buyer should be sent to.
// Rejections carrying an error message are returned as *APIError.
func (c *Client) Purchase(ctx context.Context, req model.PurchaseRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode purchase request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send purchase request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("payment response received",
		"status", res.StatusCode,
		"day_count", req.DayCount,
		"quantity", req.Quantity,
	)

	var out model.PurchaseResponse
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return "", fmt.Errorf("decode response (status %d): %w", res.StatusCode, err)
		}
	}

	if out.Error != "" {
		return "", &APIError{
			StatusCode: res.StatusCode,
			Field:      out.Field,
			Message:    out.Error,
		}
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 && out.URL != "" {
		return out.URL, nil
	}

	return "", fmt.Errorf("unexpected payment response: status %d", res.StatusCode)
}
