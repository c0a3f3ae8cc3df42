// Package portal реализует HTTP-обработчик открытия личного кабинета биллинга.
package portal

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

// Service описывает интерфейс бизнес-логики личного кабинета биллинга.
type Service interface {
	OpenBillingPortal(ctx context.Context, userUID string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Личный кабинет биллинга
// @Description Создает сессию личного кабинета у платёжного провайдера. Возвращает URL для перенаправления.
// @Tags Billing
// @Produce  json
// @Success 200 {object} map[string]any "URL сессии кабинета"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/portal [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.portal"

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

	url, err := h.service.OpenBillingPortal(r.Context(), userUID)
	if err != nil {
		log.Error("failed to open billing portal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not open billing portal"))
		return
	}

	log.Info("success to open billing portal")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"url": url,
	}))
}
