package middlewarectx

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/notice/internal/http/response"
	"github.com/magabrotheeeer/notice/internal/lib/metrics"
	"github.com/magabrotheeeer/notice/internal/lib/ratelimit"
)

// UnknownClient ключ клиента без адресных заголовков.
const UnknownClient = "unknown"

// Limiter ограничитель с фиксированным окном.
type Limiter interface {
	Check(key string, maxRequests int, window time.Duration) ratelimit.Decision
}

// ClientIP возвращает адрес клиента: первый элемент X-Forwarded-For,
// иначе X-Real-IP, иначе UnknownClient.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return UnknownClient
}

// RateLimit ограничивает операцию op до maxRequests запросов за window на адрес клиента.
// Отказ: 429 {"error":"Too many requests"} с заголовком Retry-After в секундах.
func RateLimit(log *slog.Logger, limiter Limiter, op string, maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			d := limiter.Check(op+":"+ip, maxRequests, window)
			if !d.Allowed {
				log.Warn("too many requests",
					slog.String("op", op),
					slog.String("client_ip", ip),
					slog.Int("retry_after", d.RetryAfter),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				metrics.RateLimited.WithLabelValues(op).Inc()
				w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(response.MsgTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ForMethod применяет mw только к запросам с методом method. Запрос с другим методом
// минует mw, и обработчик отвечает 405, не расходуя бюджет.
func ForMethod(method string, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
