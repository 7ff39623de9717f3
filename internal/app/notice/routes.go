package notice

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/notice/docs"
	"github.com/magabrotheeeer/notice/internal/config"
	"github.com/magabrotheeeer/notice/internal/http/handlers/entitlement/holiday"
	"github.com/magabrotheeeer/notice/internal/http/handlers/entitlement/verifycode"
	"github.com/magabrotheeeer/notice/internal/http/handlers/entitlement/verifysession"
	"github.com/magabrotheeeer/notice/internal/http/handlers/health"
	"github.com/magabrotheeeer/notice/internal/http/handlers/payment/webhook"
	"github.com/magabrotheeeer/notice/internal/http/handlers/relay/submitprompt"
	"github.com/magabrotheeeer/notice/internal/http/handlers/relay/subscribe"
	"github.com/magabrotheeeer/notice/internal/http/handlers/votes/cast"
	"github.com/magabrotheeeer/notice/internal/http/handlers/votes/list"
	"github.com/magabrotheeeer/notice/internal/http/middlewarectx"
)

// Limit бюджет запросов операции на адрес клиента. Считаются только запросы с методом Method.
type Limit struct {
	Op     string
	Method string
	Max    int
	Window time.Duration
}

// MaxJSONBody предел тела JSON-запросов. Вебхук процессора ограничен отдельно.
const MaxJSONBody = 16 << 10

// Бюджеты операций.
var (
	LimitVerifySession = Limit{Op: "verify-session", Method: http.MethodGet, Max: 10, Window: time.Minute}
	LimitVerifyCode    = Limit{Op: "verify-code", Method: http.MethodPost, Max: 5, Window: time.Minute}
	LimitVote          = Limit{Op: "vote", Method: http.MethodPost, Max: 60, Window: time.Minute}
	LimitVotes         = Limit{Op: "votes", Method: http.MethodGet, Max: 10, Window: time.Minute}
	LimitSubmitPrompt  = Limit{Op: "submit-prompt", Method: http.MethodPost, Max: 5, Window: time.Minute}
	LimitSubscribe     = Limit{Op: "subscribe", Method: http.MethodPost, Max: 5, Window: time.Minute}
)

// RegisterRoutes регистрирует все маршруты приложения. Обработчики сами отвечают 405
// на неверный метод, поэтому маршруты регистрируются для всех методов.
func RegisterRoutes(r chi.Router, logger *slog.Logger, global config.RateLimit, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.GlobalLimit(logger, global.GlobalRPS, global.GlobalBurst),
	)

	limit := func(l Limit) func(http.Handler) http.Handler {
		return middlewarectx.ForMethod(l.Method, middlewarectx.RateLimit(logger, s.Limiter, l.Op, l.Max, l.Window))
	}

	jsonBody := middleware.RequestSize(MaxJSONBody)

	r.Route("/api", func(r chi.Router) {
		r.With(limit(LimitVerifySession)).Handle("/verify-session", verifysession.New(logger, s.Entitlement))
		r.With(jsonBody, limit(LimitVerifyCode)).Handle("/verify-code", verifycode.New(logger, s.Entitlement))
		r.Get("/holiday", holiday.New(s.Entitlement).ServeHTTP)

		r.With(jsonBody, limit(LimitVote)).Handle("/vote", cast.New(logger, s.Votes))
		r.With(limit(LimitVotes)).Handle("/votes", list.New(logger, s.Votes))

		r.With(jsonBody, limit(LimitSubscribe)).Handle("/subscribe", subscribe.New(logger, s.Relay))
		r.With(jsonBody, limit(LimitSubmitPrompt)).Handle("/submit-prompt", submitprompt.New(logger, s.Relay))

		// Вебхук процессора без ограничителя
		r.Handle("/stripe-webhook", webhook.New(logger, s.Purchase))
	})

	var store health.Pinger
	if s.Health != nil {
		store = s.Health
	}
	r.Get("/health", health.New(logger, store).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
