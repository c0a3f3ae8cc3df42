// Package previews реализует HTTP-обработчик витрины последних проектов.
package previews

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/CloudEngineHub/onlook/internal/http/middlewarectx"
	"github.com/CloudEngineHub/onlook/internal/http/response"
	"github.com/CloudEngineHub/onlook/internal/lib/sl"
	"github.com/CloudEngineHub/onlook/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики витрины проектов.
type Service interface {
	Previews(ctx context.Context, userUID string, limit int) ([]*models.Project, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Витрина проектов
// @Description Возвращает последние проекты пользователя. Количество задаётся параметром limit.
// @Tags Projects
// @Produce  json
// @Param limit query int false "Количество проектов"
// @Success 200 {object} map[string]any "Список проектов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projects/previews [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.project.previews"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	// Нулевой или отсутствующий limit заменяется дефолтом на уровне сервиса.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	projects, err := h.service.Previews(r.Context(), userUID, limit)
	if err != nil {
		log.Error("failed to list preview projects", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list preview projects"))
		return
	}

	log.Info("success to list preview projects", slog.Int("count", len(projects)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"projects": projects,
	}))
}
