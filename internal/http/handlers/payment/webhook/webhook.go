// Package webhook реализует HTTP-обработчик событий платежного процессора.
//
// Событие о завершенной покупке запускает отправку писем покупателю.
// Подпись проверяется, только если настроен секрет и пришел заголовок Stripe-Signature.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/notice/internal/http/response"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
	"github.com/magabrotheeeer/notice/internal/services/purchase"
)

// SignatureHeader заголовок подписи тела.
const SignatureHeader = "Stripe-Signature"

// maxBodyBytes ограничение размера тела события.
const maxBodyBytes = 1 << 20

// Service обрабатывает тело события.
type Service interface {
	Handle(ctx context.Context, body []byte, sigHeader string) (purchase.Result, error)
}

// Handler обрабатывает вебхуки платежного процессора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вебхук платежного процессора
// @Description Принимает checkout.session.completed и отправляет покупателю письмо сразу и второе через 7 дней.
// @Tags Payment
// @Accept json
// @Produce json
// @Param Stripe-Signature header string false "t=<unix>,v1=<hex>"
// @Success 200 {object} purchase.Result
// @Failure 400 {string} string "Invalid signature"
// @Failure 405 {string} string "Method not allowed"
// @Failure 500 {object} response.ErrorResponse "Processing error или Server configuration error"
// @Router /api/stripe-webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		http.Error(w, response.MsgMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgProcessingError))
		return
	}
	defer r.Body.Close()

	res, err := h.service.Handle(r.Context(), body, r.Header.Get(SignatureHeader))
	switch {
	case errors.Is(err, purchase.ErrNotConfigured):
		log.Error("purchase receiver is not configured", sl.Err(err))
		http.Error(w, response.MsgServerConfigError, http.StatusInternalServerError)
		return
	case errors.Is(err, purchase.ErrInvalidSignature):
		log.Error("invalid webhook signature")
		http.Error(w, response.MsgInvalidSignature, http.StatusBadRequest)
		return
	case err != nil:
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgProcessingError))
		return
	}

	log.Info("webhook processed", slog.Bool("received", res.Received))
	render.JSON(w, r, res)
}
