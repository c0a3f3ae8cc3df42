// Package webhook реализует HTTP-обработчик событий платёжного провайдера
// о жизненном цикле подписок. Подпись запроса проверяется по HMAC-SHA256.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CloudEngineHub/onlook/internal/billingprovider"
	"github.com/CloudEngineHub/onlook/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики применения событий подписки.
type Service interface {
	ApplySubscriptionEvent(ctx context.Context, eventType string, psub billingprovider.Subscription) error
}

type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Payload — тело события вебхука провайдера.
type Payload struct {
	Type string `json:"type"`
	Data struct {
		Object billingprovider.Subscription `json:"object"`
	} `json:"data"`
}

// Проверка подписи webhook (X-Api-Signature)
func (h *Handler) verifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Проверка подписи (в заголовке X-Api-Signature)
	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(h.webhookSecret, body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Обрабатываем только нужные события
	const (
		SubscriptionCreated = "customer.subscription.created"
		SubscriptionUpdated = "customer.subscription.updated"
		SubscriptionDeleted = "customer.subscription.deleted"
	)

	eventType := strings.ToLower(payload.Type)
	switch eventType {
	case SubscriptionCreated,
		SubscriptionUpdated,
		SubscriptionDeleted:
		if err := h.service.ApplySubscriptionEvent(r.Context(), eventType, payload.Data.Object); err != nil {
			log.Error("failed to process webhook event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		log.Info("ignored webhook event", slog.String("event", payload.Type))
	}

	log.Info("webhook processed successfully",
		slog.String("event", payload.Type), slog.String("subscription_id", payload.Data.Object.ID))
	w.WriteHeader(http.StatusOK)
}
