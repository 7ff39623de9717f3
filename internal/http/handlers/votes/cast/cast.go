// Package cast реализует HTTP-обработчик голосования за промпт.
package cast

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
	"github.com/magabrotheeeer/notice/internal/services/votes"
)

var fieldMessages = map[string]string{
	"Prompt":    response.MsgInvalidPrompt,
	"Direction": response.MsgInvalidDirection,
}

// Handler обрабатывает голоса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service учитывает голос.
type Service interface {
	Cast(ctx context.Context, req models.VoteRequest) (models.VoteResult, error)
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
// @Summary Проголосовать за промпт
// @Description Увеличивает счетчик up или down. Если хранилище недоступно, ответ не содержит счетчика.
// @Tags Votes
// @Accept json
// @Produce json
// @Param request body models.VoteRequest true "Голос"
// @Success 200 {object} map[string]any "hash, ok и новое значение счетчика"
// @Failure 400 {object} response.ErrorResponse "Invalid prompt, Invalid direction или Invalid request"
// @Failure 405 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/vote [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.votes.cast"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error(response.MsgMethodNotAllowed))
		return
	}

	var req models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.MsgInvalidRequest))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(verrs, fieldMessages))
		return
	}

	res, err := h.service.Cast(r.Context(), req)
	switch {
	case errors.Is(err, votes.ErrInvalidPrompt):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidPrompt))
		return
	case errors.Is(err, votes.ErrInvalidDirection):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidDirection))
		return
	case err != nil:
		log.Error("failed to cast vote", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidRequest))
		return
	}

	body := map[string]any{
		"hash": res.Hash,
		"ok":   true,
	}
	if res.Count != nil {
		body[res.Direction] = *res.Count
	}
	log.Info("vote cast", slog.String("hash", res.Hash), slog.String("direction", res.Direction))
	render.JSON(w, r, body)
}
