package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NotifyPayload is sent by the worker pool to the notification sidecar,
// which owns the WhatsApp gateway session and template rendering.
type NotifyPayload struct {
	TenantID  string `json:"tenant_id"`
	Recipient string `json:"recipient"` // phone number in E.164
	Event     string `json:"event"`     // order_confirmed | order_dispatched | payment_received
	// Params fill the event's message template.
	Params map[string]string `json:"params,omitempty"`
}

// NotifyResponse is returned by the sidecar.
type NotifyResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"` // "queued" | "failed"
	Error     string `json:"error,omitempty"`
}

// NotifyClient is an HTTP client that delegates message delivery to the
// notification sidecar. The decoupling isolates gateway failures (session
// drops, rate limits) from the core backend.
type NotifyClient struct {
	sidecarURL string
	httpClient *http.Client
}

func NewNotifyClient(sidecarURL string) *NotifyClient {
	return &NotifyClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Send posts one notification to the sidecar.
func (c *NotifyClient) Send(ctx context.Context, payload NotifyPayload) (*NotifyResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notify: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+"/send", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("notify: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notify: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notify: sidecar returned %d", resp.StatusCode)
	}

	var result NotifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("notify: decode response: %w", err)
	}
	return &result, nil
}
