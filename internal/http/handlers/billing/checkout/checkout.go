// Package checkout реализует HTTP-обработчик запуска оплаты подписки.
//
// Для пользователя без подписки создаётся сессия оформления новой подписки,
// для пользователя с действующей подпиской — сессия апгрейда тарифа.
// В обоих случаях возвращается URL, на который фронтенд перенаправляет пользователя.
package checkout

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
)

// Request — входные данные для запуска оплаты.
type Request struct {
	PriceID string `json:"price_id" validate:"required"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики запуска оплаты.
type Service interface {
	StartCheckout(ctx context.Context, userUID, priceID string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запустить оплату подписки
// @Description Создает сессию оплаты у платёжного провайдера. Возвращает URL для перенаправления.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body Request true "Выбранный тариф"
// @Success 200 {object} map[string]any "URL сессии оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.checkout"

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
	log.Info("request body decoded", slog.String("price_id", req.PriceID))

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

	url, err := h.service.StartCheckout(r.Context(), userUID, req.PriceID)
	if err != nil {
		log.Error("failed to start checkout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not start checkout"))
		return
	}

	log.Info("success to start checkout")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"url": url,
	}))
}
