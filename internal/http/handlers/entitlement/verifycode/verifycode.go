// Package verifycode реализует HTTP-обработчик проверки промокода.
package verifycode

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/notice/internal/http/response"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
)

// Request тело запроса.
type Request struct {
	Code string `json:"code" validate:"required" example:"becauseis"`
}

// Handler обрабатывает запросы проверки кода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service сверяет код с разрешенными.
type Service interface {
	VerifyCode(code string) bool
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
// @Summary Проверить промокод
// @Description Сравнивает код без учета регистра и пробелов со списком разрешенных и активным праздником.
// @Tags Entitlement
// @Accept json
// @Produce json
// @Param request body Request true "Код"
// @Success 200 {object} response.ValidResponse
// @Failure 400 {object} response.ValidResponse "Нет кода или некорректный JSON"
// @Failure 405 {object} response.ValidResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/verify-code [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.verifycode"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Valid(false))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Valid(false))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Valid(false))
		return
	}

	valid := h.service.VerifyCode(req.Code)
	log.Info("code checked", slog.Bool("valid", valid))
	render.JSON(w, r, response.Valid(valid))
}
