package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
)

const defaultBaseURL = "https://textbelt.com/text"

// TextbeltDispatcher delivers SMS messages through the textbelt HTTP API.
type TextbeltDispatcher struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTextbeltDispatcher builds an SMS dispatcher. The "textbelt" key selects
// the free tier.
func NewTextbeltDispatcher(baseURL, apiKey string) *TextbeltDispatcher {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = "textbelt"
	}
	return &TextbeltDispatcher{
		baseURL: endpoint,
		apiKey:  key,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send delivers the message to the phone number.
func (d *TextbeltDispatcher) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     d.apiKey,
	})
	if err != nil {
		return fmt.Errorf("encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("sms request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if !result.Success {
		if result.Error == "" {
			result.Error = "unknown delivery failure"
		}
		return fmt.Errorf("sms rejected: %s", result.Error)
	}
	return nil
}

var _ advisor.Notifier = (*TextbeltDispatcher)(nil)
