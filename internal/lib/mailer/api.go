package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIMailer клиент HTTP API почтового сервиса (POST /emails, bearer-ключ).
type APIMailer struct {
	apiKey     string
	apiURL     string
	from       string
	httpClient *http.Client
}

// NewAPIMailer создает APIMailer. from используется, если в письме не задан отправитель.
func NewAPIMailer(apiKey, apiURL, from string, timeout time.Duration) *APIMailer {
	return &APIMailer{
		apiKey:     apiKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		from:       from,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiRequest struct {
	From        string   `json:"from"`
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	HTML        string   `json:"html"`
	ScheduledAt string   `json:"scheduled_at,omitempty"`
}

// Send отправляет письмо одним запросом, без повторов.
func (m *APIMailer) Send(ctx context.Context, msg Message) error {
	const op = "mailer.APIMailer.Send"

	body := apiRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	if body.From == "" {
		body.From = m.from
	}
	if msg.ScheduledAt != nil {
		body.ScheduledAt = msg.ScheduledAt.UTC().Format(time.RFC3339)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL+"/emails", &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %s: %s", op, resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}
