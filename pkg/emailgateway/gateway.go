package emailgateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gateway represents an outbound email gateway interface
type Gateway interface {
	// Send delivers one email and returns the provider message id.
	Send(to, subject, htmlBody, textBody string) (string, error)
	// Verify checks connectivity/credentials without sending.
	Verify() error
}

// HTTPGateway sends mail through a JSON mail API (resend-style endpoint)
type HTTPGateway struct {
	BaseURL    string
	APIKey     string
	FromName   string
	FromEmail  string
	MockEmail  bool
	httpClient *http.Client
}

// MockGateway simulates deliveries for local development and tests
type MockGateway struct {
	Name string
}

// NewHTTPGateway creates a new HTTPGateway
func NewHTTPGateway(baseURL, apiKey, fromName, fromEmail string, mockEmail bool) Gateway {
	return &HTTPGateway{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		FromName:  fromName,
		FromEmail: fromEmail,
		MockEmail: mockEmail,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewMockGateway creates a new MockGateway
func NewMockGateway(name string) Gateway {
	return &MockGateway{Name: name}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

// Send delivers one email through the mail API
func (g *HTTPGateway) Send(to, subject, htmlBody, textBody string) (string, error) {
	if g.MockEmail {
		return fmt.Sprintf("MOCK-MSG-%s", uuid.NewString()), nil
	}

	payload := sendRequest{
		From:    fmt.Sprintf("%s <%s>", g.FromName, g.FromEmail),
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, g.BaseURL+"/emails", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return response.ID, nil
}

// Verify checks the mail API credentials
func (g *HTTPGateway) Verify() error {
	if g.MockEmail {
		return nil
	}

	req, err := http.NewRequest(http.MethodGet, g.BaseURL+"/domains", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mail API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail API verification failed with status %d", resp.StatusCode)
	}

	return nil
}

// Send simulates a delivery using the Mock gateway
func (g *MockGateway) Send(to, subject, htmlBody, textBody string) (string, error) {
	msgID := fmt.Sprintf("%s-MOCK-MSG-%d", g.Name, time.Now().UnixNano())
	fmt.Printf("[%s Mock Gateway] Simulating Send to %s (%q) -> %s\n", g.Name, to, subject, msgID)
	return msgID, nil
}

// Verify always succeeds for the Mock gateway
func (g *MockGateway) Verify() error {
	return nil
}

// WrapHTML wraps an already-personalized message in the branded email shell
func WrapHTML(message string) string {
	body := strings.ReplaceAll(message, "\n", "<br>")
	return `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">Xeno CRM</h1>
  </div>
  <div style="padding: 30px; background: #f9f9f9;">
    <div style="background: white; padding: 20px; border-radius: 8px;">
      <p style="font-size: 16px; line-height: 1.6; color: #333; margin: 0;">` + body + `</p>
    </div>
  </div>
  <div style="padding: 20px; text-align: center; color: #666; font-size: 12px;">
    <p>This email was sent from the Xeno CRM platform.</p>
  </div>
</div>`
}
