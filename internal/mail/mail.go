package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Template identifiers expected to exist at the mail provider.
const (
	TemplateWelcome        = "welcome"
	TemplateContactRequest = "contact-request-received"
	TemplateEventReport    = "event-report-received"
	TemplateRegistration   = "event-registration"
)

// Client sends templated transactional mail through the provider's HTTP API.
// Sends are best-effort: callers fire them after the primary write and only
// log failures.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	Template  string            `json:"template"`
	To        string            `json:"to"`
	Variables map[string]string `json:"variables,omitempty"`
}

func (c *Client) Send(ctx context.Context, template, to string, variables map[string]string) error {
	body, err := json.Marshal(sendRequest{Template: template, To: to, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail service returned status %d", resp.StatusCode)
	}
	return nil
}
