// Package submitprompt реализует HTTP-обработчик предложения нового промпта.
package submitprompt

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

// Handler обрабатывает предложенные промпты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service пересылает промпт.
type Service interface {
	SubmitPrompt(ctx context.Context, sub models.PromptSubmission) error
}

// Request тело запроса.
type Request struct {
	Prompt string `json:"prompt" validate:"required" example:"What song reminds you of this group?"`
	Name   string `json:"name,omitempty" example:"sam"`
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
// @Summary Предложить промпт
// @Description Промпт короче 5 символов отклоняется, длинный обрезается до 280, имя по умолчанию anonymous.
// @Tags Relay
// @Accept json
// @Produce json
// @Param request body Request true "Промпт"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse "Prompt too short или Invalid request"
// @Failure 405 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/submit-prompt [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.relay.submitprompt"
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
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgPromptTooShort))
		return
	}

	err := h.service.SubmitPrompt(r.Context(), models.PromptSubmission{Prompt: req.Prompt, Name: req.Name})
	if errors.Is(err, relay.ErrPromptTooShort) {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgPromptTooShort))
		return
	}
	if err != nil {
		log.Error("failed to relay prompt", sl.Err(err))
	}

	render.JSON(w, r, response.Success())
}
