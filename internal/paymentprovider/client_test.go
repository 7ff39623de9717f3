package paymentprovider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "/v1/checkout/sessions/cs_test123", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckoutSession(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantPaid bool
		wantErr  error
	}{
		{"paid", http.StatusOK, `{"id":"cs_test123","payment_status":"paid"}`, true, nil},
		{"unpaid", http.StatusOK, `{"id":"cs_test123","payment_status":"unpaid"}`, false, nil},
		{"not found", http.StatusNotFound, `{"error":{}}`, false, ErrUnexpectedStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := newTestServer(t, tt.status, tt.body, &calls)
			c := NewClient("sk_test", srv.URL, time.Second)

			s, err := c.CheckoutSession(context.Background(), "cs_test123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPaid, s.Paid())
			}
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestCheckoutSession_RejectsBadIDWithoutNetwork(t *testing.T) {
	var calls int32
	srv := newTestServer(t, http.StatusOK, `{}`, &calls)
	c := NewClient("sk_test", srv.URL, time.Second)

	s, err := c.CheckoutSession(context.Background(), "evil; DROP")
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidSessionID)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCheckoutSession_NotConfigured(t *testing.T) {
	c := NewClient("", "http://127.0.0.1:1", time.Second)
	_, err := c.CheckoutSession(context.Background(), "cs_test123")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCheckoutSession_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient("sk_test", url, time.Second)
	_, err := c.CheckoutSession(context.Background(), "cs_test123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedStatus)
}

func TestCheckoutSession_Email(t *testing.T) {
	var s *CheckoutSession
	assert.Equal(t, "", s.Email())

	s = &CheckoutSession{CustomerEmail: "fallback@example.com"}
	assert.Equal(t, "fallback@example.com", s.Email())

	s.CustomerDetails = &CustomerDetails{Email: "details@example.com"}
	assert.Equal(t, "details@example.com", s.Email())
}
