// Package create реализует HTTP-обработчик для создания новых проектов пользователя.
//
// Handler принимает JSON-запрос с данными проекта и опциональным запросом генерации,
// валидирует их, извлекает UID пользователя из контекста, вызывает бизнес-логику
// создания проекта через сервис и возвращает созданный проект в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/CloudEngineHub/onlook/internal/http/middlewarectx"
	"github.com/CloudEngineHub/onlook/internal/http/response"
	"github.com/CloudEngineHub/onlook/internal/lib/sl"
	"github.com/CloudEngineHub/onlook/internal/models"
)

// Request — входные данные для создания проекта. Project обязателен,
// CreationRequest присутствует, когда проект создаётся из промпта.
type Request struct {
	Project         models.DummyProject          `json:"project" validate:"required"`
	CreationRequest *models.DummyCreationRequest `json:"creation_request,omitempty"`
}

// Handler управляет HTTP-запросами на создание новых проектов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания проектов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания проекта.
type Service interface {
	Create(ctx context.Context, userUID string, dummy models.DummyProject,
		creation *models.DummyCreationRequest) (*models.FullProject, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новый проект
// @Description Создает новый проект с холстом, кадром и диалогом. Возвращает созданный проект.
// @Tags Projects
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового проекта"
// @Success 200 {object} map[string]any "Успешное создание проекта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании проекта"
// @Router /projects [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.project.create"
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
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	full, err := h.service.Create(r.Context(), userUID, req.Project, req.CreationRequest)
	if err != nil {
		log.Error("failed to create project", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create project"))
		return
	}

	log.Info("success to create project", slog.String("project_id", full.Project.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"project": full,
	}))
}
