package read

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
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

type Service interface {
	Read(ctx context.Context, projectID, userUID string) (*models.Project, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить проект
// @Description Возвращает проект пользователя по ID.
// @Tags Projects
// @Produce  json
// @Param id path string true "ID проекта"
// @Success 200 {object} map[string]any "Проект"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Проект не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projects/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.project.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		log.Error("missing project id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid project id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	project, err := h.service.Read(r.Context(), projectID, userUID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("project not found", slog.String("project_id", projectID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("project not found"))
		return
	}
	if err != nil {
		log.Error("failed to read project", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read project"))
		return
	}

	log.Info("success to read project", slog.String("project_id", projectID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"project": project,
	}))
}
