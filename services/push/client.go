package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// BaseURL is the FCM legacy HTTP API base URL
	BaseURL = "https://fcm.googleapis.com"
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 10 * time.Second
)

// Client sends push notifications through the FCM legacy HTTP API. Delivery
// is best-effort; callers are expected to log and swallow errors.
type Client struct {
	serverKey  string
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the push client
type Config struct {
	ServerKey string
	BaseURL   string
	Timeout   time.Duration
}

// NewClient creates a new push client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		serverKey: config.ServerKey,
		baseURL:   config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// message is the FCM downstream message payload
type message struct {
	To           string            `json:"to"`
	Notification notificationBody  `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type notificationBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// sendResponse is the subset of the FCM response we care about
type sendResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// Send submits one push message to a device token.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	payload, err := json.Marshal(message{
		To:           token,
		Notification: notificationBody{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/fcm/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}
	if result.Failure > 0 && result.Success == 0 {
		return fmt.Errorf("push provider rejected the message")
	}
	return nil
}
