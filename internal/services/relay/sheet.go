package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/magabrotheeeer/notice/internal/models"
)

// ErrSheetStatus вебхук таблицы ответил не 2xx.
var ErrSheetStatus = errors.New("unexpected sheet webhook status")

// sheetPayload тело запроса к таблице. Секрет передается в теле, а не в заголовке.
type sheetPayload struct {
	Secret string `json:"_secret"`
	models.RelayEvent
}

// SheetClient отправляет события в вебхук таблицы.
type SheetClient struct {
	url    string
	secret string
	client *http.Client
}

// NewSheetClient создает SheetClient. Редиректы не выполняются автоматически:
// 301/302 повторяются вручную как POST с тем же телом.
func NewSheetClient(url, secret string, timeout time.Duration) *SheetClient {
	return &SheetClient{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Post отправляет событие.
func (c *SheetClient) Post(ctx context.Context, event models.RelayEvent) error {
	const op = "relay.SheetClient.Post"

	body, err := json.Marshal(sheetPayload{Secret: c.secret, RelayEvent: event})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.post(ctx, c.url, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound {
		location, err := resp.Location()
		drain(resp)
		if err != nil {
			return fmt.Errorf("%s: redirect without location: %w", op, err)
		}
		resp, err = c.post(ctx, location.String(), body)
		if err != nil {
			return fmt.Errorf("%s: replay: %w", op, err)
		}
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %w: %d", op, ErrSheetStatus, resp.StatusCode)
	}
	return nil
}

func (c *SheetClient) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
