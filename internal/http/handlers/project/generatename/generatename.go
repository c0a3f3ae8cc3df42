// Package generatename реализует HTTP-обработчик генерации имени проекта
// из пользовательского промпта через языковую модель.
package generatename

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/CloudEngineHub/onlook/internal/http/response"
	"github.com/CloudEngineHub/onlook/internal/lib/sl"
)

// Request — входные данные для генерации имени.
type Request struct {
	Prompt string `json:"prompt" validate:"required"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики генерации имени.
type Service interface {
	GenerateName(ctx context.Context, prompt string) string
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать имя проекта
// @Description Генерирует короткое имя проекта из промпта. При отказе генерации возвращает дефолтное имя.
// @Tags Projects
// @Accept  json
// @Produce  json
// @Param request body Request true "Промпт пользователя"
// @Success 200 {object} map[string]any "Сгенерированное имя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /projects/generate-name [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.project.generatename"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	name := h.service.GenerateName(r.Context(), req.Prompt)

	log.Info("success to generate project name", slog.String("name", name))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"name": name,
	}))
}
