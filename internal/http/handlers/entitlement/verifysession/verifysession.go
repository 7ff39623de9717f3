// Package verifysession реализует HTTP-обработчик проверки оплаты.
//
// Handler принимает либо идентификатор сессии оформления заказа (session_id),
// либо подписанную ссылку доступа (access, e, t) и отвечает {"valid": bool}.
package verifysession

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/notice/internal/http/response"
	"github.com/magabrotheeeer/notice/internal/lib/accesstoken"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
	"github.com/magabrotheeeer/notice/internal/paymentprovider"
	"github.com/magabrotheeeer/notice/internal/services/entitlement"
)

// Handler обрабатывает запросы проверки оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает проверку учетных данных.
type Service interface {
	Verify(ctx context.Context, c entitlement.Credentials) (bool, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить оплату
// @Description Проверяет сессию оформления заказа или подписанную ссылку доступа. Сессия имеет приоритет.
// @Tags Entitlement
// @Produce json
// @Param session_id query string false "Идентификатор сессии, начинается с cs_"
// @Param access query string false "Подпись ссылки доступа"
// @Param e query string false "Email в base64"
// @Param t query string false "Эпоха-месяц выпуска ссылки"
// @Success 200 {object} response.ValidResponse
// @Failure 400 {object} response.ValidResponse "Нет учетных данных или неверный формат"
// @Failure 405 {object} response.ValidResponse
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ValidResponse "Сервис не настроен или процессор недоступен"
// @Router /api/verify-session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.verifysession"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Valid(false))
		return
	}

	q := r.URL.Query()
	creds := entitlement.Credentials{
		SessionID: q.Get("session_id"),
		Access:    q.Get("access"),
		Email:     q.Get("e"),
		Epoch:     q.Get("t"),
	}

	valid, err := h.service.Verify(r.Context(), creds)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error("entitlement check failed", sl.Err(err))
		} else {
			log.Info("entitlement request rejected", sl.Err(err))
		}
		w.WriteHeader(status)
		render.JSON(w, r, response.Valid(false))
		return
	}

	log.Info("entitlement checked", slog.Bool("valid", valid))
	render.JSON(w, r, response.Valid(valid))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entitlement.ErrNoCredential),
		errors.Is(err, paymentprovider.ErrInvalidSessionID),
		errors.Is(err, accesstoken.ErrBadEmail):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
