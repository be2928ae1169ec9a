package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SendPath is appended to the backend URL for every notification.
const SendPath = "/send-notification"

// APIKeyHeader carries the push service credential.
const APIKeyHeader = "x-api-key"

// Notification is the request body sent for one device.
type Notification struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Dispatcher delivers one notification. It returns nil on success or a
// *DispatchError.
type Dispatcher interface {
	Send(ctx context.Context, backendURL, apiKey string, notification Notification) error
}

// HTTPDispatcher posts notifications to the push service.
type HTTPDispatcher struct {
	client *http.Client
}

// NewHTTPDispatcher creates a dispatcher whose requests time out after timeout.
// A zero timeout disables the limit.
func NewHTTPDispatcher(timeout time.Duration) *HTTPDispatcher {
	return &HTTPDispatcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// NewHTTPDispatcherWithClient uses client as is.
func NewHTTPDispatcherWithClient(client *http.Client) *HTTPDispatcher {
	return &HTTPDispatcher{client: client}
}

// Send posts notification to {backendURL}/send-notification. 2xx is success,
// 401 and 403 are credential failures and any other status is a server error.
func (d *HTTPDispatcher) Send(ctx context.Context, backendURL, apiKey string, notification Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	url := strings.TrimRight(backendURL, "/") + SendPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &DispatchError{Kind: ErrNetworkError, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APIKeyHeader, apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return &DispatchError{Kind: ErrNetworkError, Err: err}
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &DispatchError{Kind: ErrInvalidCredential, StatusCode: resp.StatusCode, Detail: reasonPhrase(resp)}
	default:
		return &DispatchError{Kind: ErrServerError, StatusCode: resp.StatusCode, Detail: reasonPhrase(resp)}
	}
}

// reasonPhrase returns the status text the server sent, e.g. "Bad Gateway".
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		return http.StatusText(resp.StatusCode)
	}

	return phrase
}
