// Package subscribe реализует HTTP-обработчик подписки на рассылку.
package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/notice/internal/http/response"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
	"github.com/magabrotheeeer/notice/internal/models"
	"github.com/magabrotheeeer/notice/internal/services/relay"
)

// Request тело запроса.
type Request struct {
	Email  string `json:"email" validate:"required,contains=@,contains=." example:"player@example.com"`
	Source string `json:"source,omitempty" example:"website"`
}

// Handler обрабатывает подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service пересылает подписчика.
type Service interface {
	Subscribe(ctx context.Context, sub models.Subscriber) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подписаться на рассылку
// @Tags Relay
// @Accept json
// @Produce json
// @Param request body Request true "Подписчик"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse "Invalid email или Invalid request"
// @Failure 405 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.relay.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error(response.MsgMethodNotAllowed))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidEmail))
		return
	}

	err := h.service.Subscribe(r.Context(), models.Subscriber{Email: req.Email, Source: req.Source})
	if errors.Is(err, relay.ErrInvalidEmail) {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidEmail))
		return
	}
	if err != nil {
		log.Error("failed to relay subscriber", sl.Err(err))
	}

	render.JSON(w, r, response.Success())
}
