// Package pricechangerelease реализует HTTP-обработчик отмены запланированной
// смены тарифа: расписание освобождается у провайдера, локальная проекция очищается.
package pricechangerelease

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/CloudEngineHub/onlook/internal/http/middlewarectx"
	"github.com/CloudEngineHub/onlook/internal/http/response"
	"github.com/CloudEngineHub/onlook/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены отложенного изменения.
type Service interface {
	ReleaseScheduledChange(ctx context.Context, userUID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить запланированную смену тарифа
// @Description Освобождает расписание подписки у провайдера и очищает локальную проекцию.
// @Tags Billing
// @Produce  json
// @Success 200 {object} map[string]any "Изменение отменено"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/subscription/price-change [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.pricechangerelease"

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

	if err := h.service.ReleaseScheduledChange(r.Context(), userUID); err != nil {
		log.Error("failed to release scheduled change", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not release scheduled change"))
		return
	}

	log.Info("success to release scheduled change")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "scheduled change released",
	}))
}
