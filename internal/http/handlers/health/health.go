// Package health реализует проверку живости сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/notice/internal/lib/sl"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response ответ проверки.
type Response struct {
	Status string `json:"status" example:"ok"`
	Store  string `json:"store" example:"up"`
}

// Handler отвечает на проверки живости. Недоступное хранилище не делает сервис
// неживым: голосование деградирует в no-op.
type Handler struct {
	log   *slog.Logger
	store Pinger
}

// New создает Handler. store может быть nil.
func New(log *slog.Logger, store Pinger) *Handler {
	return &Handler{
		log:   log,
		store: store,
	}
}

// ServeHTTP godoc
// @Summary Проверка живости
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	store := "disabled"
	if h.store != nil {
		store = "up"
		if err := h.store.Ping(r.Context()); err != nil {
			h.log.Warn("store is unreachable", sl.Op(op), sl.Err(err))
			store = "down"
		}
	}

	render.JSON(w, r, Response{Status: "ok", Store: store})
}
