// Package warehouse talks to the inventory and transport services over REST.
//
// Commands (creating packaging units and transport units, moving transport
// units) are sent synchronously first. When the remote side is unavailable or
// does not know a referenced object yet, the command is stored in the outbox
// and replayed later by the relay job; the caller sees success.
package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"receiving/internal/pkg/errs"
)

// ErrUnavailable marks a remote call that failed because of the network, a
// timeout or a 5xx response.
var ErrUnavailable = errors.New("remote service unavailable")

// Client is a small JSON-over-HTTP client for one remote service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. Every request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HTTPError represents an unexpected HTTP error response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

type errorResponse struct {
	Message string `json:"message"`
}

// do executes a single request. Network failures, timeouts and 5xx responses
// wrap ErrUnavailable, 404 becomes an ObjectNotFoundError for resource.
func (c *Client) do(ctx context.Context, method, path, resource string, body, target any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("request canceled: %w", err)
		}
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.NewObjectNotFoundErrorWithCause(resource, path, &HTTPError{StatusCode: resp.StatusCode, Message: message(respBody)})
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", ErrUnavailable, &HTTPError{StatusCode: resp.StatusCode, Message: message(respBody)})
	case resp.StatusCode >= http.StatusBadRequest:
		return &HTTPError{StatusCode: resp.StatusCode, Message: message(respBody)}
	}

	if target != nil && len(respBody) > 0 {
		if err = json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func message(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return resp.Message
	}
	return strings.TrimSpace(string(body))
}

// isDeferrable reports whether a failed command may be replayed later.
func isDeferrable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, errs.ErrObjectNotFound)
}
