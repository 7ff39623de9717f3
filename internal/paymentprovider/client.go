// Package paymentprovider содержит клиент REST API платежного процессора.
package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SessionPrefix обязательный префикс идентификатора сессии.
const SessionPrefix = "cs_"

var (
	// ErrInvalidSessionID идентификатор сессии не прошел проверку формата.
	ErrInvalidSessionID = errors.New("session id must start with " + SessionPrefix)
	// ErrNotConfigured секретный ключ процессора не задан.
	ErrNotConfigured = errors.New("payment processor secret key is not configured")
	// ErrUnexpectedStatus процессор ответил не 2xx.
	ErrUnexpectedStatus = errors.New("unexpected status from payment processor")
)

// Client клиент API платежного процессора
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент. Запросы выполняются один раз, без повторов.
func NewClient(secretKey, apiURL string, timeout time.Duration) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured сообщает, задан ли секретный ключ.
func (c *Client) Configured() bool {
	return c.secretKey != ""
}

// ValidSessionID проверяет формат идентификатора до любого сетевого запроса.
func ValidSessionID(id string) bool {
	return strings.HasPrefix(id, SessionPrefix)
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	return req, nil
}

// CheckoutSession получает сессию оформления заказа по идентификатору.
func (c *Client) CheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	const op = "paymentprovider.CheckoutSession"
	if !c.Configured() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}
	if !ValidSessionID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSessionID)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnexpectedStatus, resp.Status)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}
