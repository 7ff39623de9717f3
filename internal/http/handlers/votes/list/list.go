// Package list реализует HTTP-обработчик списка голосов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/notice/internal/http/response"
	"github.com/magabrotheeeer/notice/internal/models"
)

// CacheControl заголовок кэширования списка голосов.
const CacheControl = "public, s-maxage=30, stale-while-revalidate=60"

// Handler отдает счетчики голосов всех промптов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service возвращает счетчики голосов.
type Service interface {
	List(ctx context.Context) map[string]models.VoteCount
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Счетчики голосов
// @Description Возвращает {hash: {up, down}} для всех промптов. При недоступном хранилище пустой объект.
// @Tags Votes
// @Produce json
// @Success 200 {object} map[string]models.VoteCount
// @Failure 405 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/votes [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.votes.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error(response.MsgMethodNotAllowed))
		return
	}

	all := h.service.List(r.Context())
	log.Debug("votes listed", slog.Int("prompts", len(all)))

	w.Header().Set("Cache-Control", CacheControl)
	render.JSON(w, r, all)
}
