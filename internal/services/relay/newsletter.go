package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNewsletterStatus сервис рассылки ответил ошибкой.
var ErrNewsletterStatus = errors.New("unexpected newsletter status")

type subscriberRequest struct {
	EmailAddress string   `json:"email_address"`
	Tags         []string `json:"tags"`
}

// NewsletterClient добавляет подписчиков в сервис рассылки.
type NewsletterClient struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewNewsletterClient создает NewsletterClient.
func NewNewsletterClient(apiKey, apiURL string, timeout time.Duration) *NewsletterClient {
	return &NewsletterClient{
		apiKey: apiKey,
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Subscribe добавляет подписчика с тегом источника. Уже существующий подписчик (409) не ошибка.
func (c *NewsletterClient) Subscribe(ctx context.Context, email, tag string) error {
	const op = "relay.NewsletterClient.Subscribe"

	body, err := json.Marshal(subscriberRequest{EmailAddress: email, Tags: []string{tag}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v1/subscribers", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %w: %d", op, ErrNewsletterStatus, resp.StatusCode)
	}
	return nil
}
