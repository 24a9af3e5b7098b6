// Package fastspring is a minimal client for the FastSpring API, covering
// the single order lookup this service needs.
// https://docs.fastspring.com/integrating-with-fastspring/fastspring-api
package fastspring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fastspringexamples/accountbridge/internal/core"
)

const (
	defaultBaseURL = "https://api.fastspring.com"
	requestTimeout = 10 * time.Second
	maxRetries     = 3
	initialDelay   = 1 * time.Second
)

// Client calls the FastSpring API with basic-auth credentials. Every request
// carries a bounded timeout; the provider call must never hang a request
// forever.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client

	retryDelay time.Duration
}

// APIError is the uniform error the client produces for transport failures,
// non-2xx statuses, and provider error envelopes alike.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// orderResponse mirrors the provider's order shape. Errors can arrive as a
// string or as an object keyed by field, so the envelope stays raw until
// inspected.
type orderResponse struct {
	Order     string          `json:"order"`
	Reference string          `json:"reference"`
	Account   string          `json:"account"`
	Completed bool            `json:"completed"`
	Error     json.RawMessage `json:"error"`
}

// NewClient creates a FastSpring client. An empty baseURL selects the public
// API endpoint.
func NewClient(baseURL, username, password string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		client:     &http.Client{Timeout: requestTimeout},
		retryDelay: initialDelay,
	}
}

// GetOrder fetches a single order by ID. Rate limiting (429) and server
// errors (5xx) are retried with exponential backoff; everything else fails
// immediately. Provider error envelopes, including ones delivered with a 200
// status, surface as *APIError.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*core.Order, error) {
	if orderID == "" {
		return nil, &APIError{Message: "no order id provided"}
	}

	endpoint := c.baseURL + "/orders/" + url.PathEscape(orderID)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.retryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.SetBasicAuth(c.username, c.password)
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = &APIError{Message: fmt.Sprintf("FastSpring request failed: %v", err)}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &APIError{Message: fmt.Sprintf("failed to read FastSpring response: %v", err)}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = &APIError{
				Status:  resp.StatusCode,
				Message: errorMessage(body, resp.StatusCode),
			}

			// Retry on rate limit (429) or server errors (5xx)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return nil, lastErr
		}

		var order orderResponse
		if err := json.Unmarshal(body, &order); err != nil {
			return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to decode order: %v", err)}
		}

		// Some provider failures arrive as a 200 with an error envelope.
		if hasError(order.Error) {
			return nil, &APIError{Status: resp.StatusCode, Message: envelopeMessage(order.Error)}
		}

		id := order.Order
		if id == "" {
			id = orderID
		}
		return &core.Order{
			ID:        id,
			Reference: order.Reference,
			Account:   order.Account,
			Completed: order.Completed,
		}, nil
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, lastErr)
}

func hasError(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// errorMessage extracts a message from a full error response body.
func errorMessage(body []byte, status int) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && hasError(envelope.Error) {
		return envelopeMessage(envelope.Error)
	}
	if status == http.StatusNotFound {
		return "Order not found"
	}
	return fmt.Sprintf("FastSpring API error (%d)", status)
}

// envelopeMessage renders the provider error envelope, which is either a
// plain string or an object of field → message (e.g. {"order": "Order not
// found."}).
func envelopeMessage(raw json.RawMessage) string {
	var msg string
	if json.Unmarshal(raw, &msg) == nil && msg != "" {
		return msg
	}

	var fields map[string]string
	if json.Unmarshal(raw, &fields) == nil && len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, v := range fields {
			parts = append(parts, v)
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}

	return "FastSpring API error"
}
