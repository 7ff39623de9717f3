package holiday

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/notice/internal/services/entitlement"
)

func TestHolidayHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "valentines", now: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), want: `{"active":true,"id":"valentines","greeting":"happy holidays","widget":"heart"}`},
		{name: "new year eve", now: time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC), want: `{"active":true,"id":"nye","greeting":"happy holidays","widget":"firework"}`},
		{name: "new year day", now: time.Date(2027, 1, 2, 1, 0, 0, 0, time.UTC), want: `{"active":true,"id":"nye-jan","greeting":"happy holidays","widget":"sparkle"}`},
		{name: "ordinary day", now: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), want: `{"active":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := entitlement.New(logger, nil, nil, nil, entitlement.DefaultHolidays, func() time.Time { return tt.now })
			w := httptest.NewRecorder()
			New(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/holiday", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
			assert.NotContains(t, w.Body.String(), "iloveyou")
		})
	}
}
