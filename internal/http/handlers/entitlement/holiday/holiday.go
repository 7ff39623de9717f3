// Package holiday реализует HTTP-обработчик активного праздника.
package holiday

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/notice/internal/services/entitlement"
)

// Response активный праздник. Код праздника не раскрывается.
type Response struct {
	Active   bool   `json:"active"`
	ID       string `json:"id,omitempty" example:"valentines"`
	Greeting string `json:"greeting,omitempty" example:"happy holidays"`
	Widget   string `json:"widget,omitempty" example:"heart"`
}

// Service ищет праздник, активный сегодня.
type Service interface {
	ActiveHoliday() (entitlement.Holiday, bool)
}

// Handler обрабатывает запросы активного праздника.
type Handler struct {
	service Service
}

// New создает новый Handler.
func New(service Service) *Handler {
	return &Handler{service: service}
}

// ServeHTTP godoc
// @Summary Активный праздник
// @Tags Entitlement
// @Produce json
// @Success 200 {object} Response
// @Router /api/holiday [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	hol, ok := h.service.ActiveHoliday()
	if !ok {
		render.JSON(w, r, Response{})
		return
	}
	render.JSON(w, r, Response{
		Active:   true,
		ID:       hol.ID,
		Greeting: hol.Greeting,
		Widget:   hol.Widget,
	})
}
