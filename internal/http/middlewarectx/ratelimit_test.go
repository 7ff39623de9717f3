package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/notice/internal/lib/ratelimit"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, want: "203.0.113.7"},
		{name: "forwarded wins over real ip", headers: map[string]string{"X-Forwarded-For": "198.51.100.2", "X-Real-IP": "10.1.1.1"}, want: "198.51.100.2"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "10.1.1.1"}, want: "10.1.1.1"},
		{name: "nothing", want: UnknownClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}

func TestRateLimit(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), clock)
	h := RateLimit(newNoopLogger(), limiter, "verify-code", 5, time.Minute)(okHandler)

	call := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/verify-code", nil)
		r.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	for i := range 5 {
		require.Equal(t, http.StatusOK, call("1.1.1.1").Code, "request %d", i+1)
	}

	w := call("1.1.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("2.2.2.2").Code)

	clock.Advance(time.Minute + time.Millisecond)
	assert.Equal(t, http.StatusOK, call("1.1.1.1").Code)
}

func TestRateLimit_SeparateOperations(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), clock)
	log := newNoopLogger()
	votes := RateLimit(log, limiter, "votes", 1, time.Minute)(okHandler)
	vote := RateLimit(log, limiter, "vote", 1, time.Minute)(okHandler)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	votes.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	vote.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestForMethod(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), clock)
	methodCheck := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	h := ForMethod(http.MethodPost, RateLimit(newNoopLogger(), limiter, "verify-code", 2, time.Minute))(methodCheck)

	call := func(method string) int {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(method, "/api/verify-code", nil))
		return w.Code
	}

	for range 10 {
		require.Equal(t, http.StatusMethodNotAllowed, call(http.MethodGet))
	}
	assert.Equal(t, http.StatusOK, call(http.MethodPost))
	assert.Equal(t, http.StatusOK, call(http.MethodPost))
	assert.Equal(t, http.StatusTooManyRequests, call(http.MethodPost))
}

func TestGlobalLimit(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h := GlobalLimit(newNoopLogger(), 0, 0)(okHandler)
		for range 10 {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("burst exhausted", func(t *testing.T) {
		h := GlobalLimit(newNoopLogger(), 0.001, 2)(okHandler)
		codes := make([]int, 0, 3)
		for range 3 {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			codes = append(codes, w.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})
}
