// Package pricechange реализует HTTP-обработчик планирования смены тарифа
// со следующего расчётного периода через расписание подписки.
package pricechange

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/CloudEngineHub/onlook/internal/billingprovider"
	"github.com/CloudEngineHub/onlook/internal/http/middlewarectx"
	"github.com/CloudEngineHub/onlook/internal/http/response"
	"github.com/CloudEngineHub/onlook/internal/lib/sl"
)

// Request — входные данные для планирования смены тарифа.
type Request struct {
	PriceID string `json:"price_id" validate:"required"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отложенной смены тарифа.
type Service interface {
	UpdateSubscriptionNextPeriod(ctx context.Context, userUID, newPriceID string) (*billingprovider.Schedule, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запланировать смену тарифа
// @Description Планирует смену тарифа со следующего расчётного периода. Текущий период не меняется.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body Request true "Целевой тариф"
// @Success 200 {object} map[string]any "Расписание подписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/subscription/price-change [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.pricechange"

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

	schedule, err := h.service.UpdateSubscriptionNextPeriod(r.Context(), userUID, req.PriceID)
	if err != nil {
		log.Error("failed to schedule price change", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not schedule price change"))
		return
	}

	log.Info("success to schedule price change", slog.String("schedule_id", schedule.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"schedule": schedule,
	}))
}
