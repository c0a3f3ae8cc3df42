// Package resolver содержит фоновый воркер, применяющий отложенные изменения
// подписок, срок которых наступил: смену тарифа или отмену. Результат
// публикуется в RabbitMQ для последующей обработки.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/CloudEngineHub/onlook/internal/config"
	"github.com/CloudEngineHub/onlook/internal/lib/sl"
	"github.com/CloudEngineHub/onlook/internal/models"
)

// Ключ маршрутизации для событий о применённых изменениях.
const routingKeyResolved = "schedule.resolved"

// SubscriptionRepository определяет методы хранилища для применения
// отложенных изменений.
type SubscriptionRepository interface {
	FindDueScheduledChanges(ctx context.Context, now time.Time) ([]*models.Subscription, error)
	UpdateSubscriptionPrice(ctx context.Context, id, priceID string) (int, error)
	CancelSubscription(ctx context.Context, providerSubscriptionID string, endedAt time.Time) (int, error)
	ClearScheduledChange(ctx context.Context, id string) error
}

// EventPublisher публикует события в брокер сообщений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// ScheduleResolvedEvent — событие о применённом отложенном изменении.
type ScheduleResolvedEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	UserUID        string    `json:"user_uid"`
	Action         string    `json:"action"`
	ResolvedAt     time.Time `json:"resolved_at"`
}

// ResolverService периодически сканирует подписки с наступившими
// отложенными изменениями и применяет их.
type ResolverService struct {
	repo      SubscriptionRepository
	publisher EventPublisher
	cfg       config.Resolver
	log       *slog.Logger
	now       func() time.Time
}

// New создает новый экземпляр ResolverService.
func New(repo SubscriptionRepository, publisher EventPublisher, cfg config.Resolver, log *slog.Logger) *ResolverService {
	return &ResolverService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Run запускает цикл воркера: один проход сразу и далее по тикеру,
// пока контекст не будет отменён.
func (s *ResolverService) Run(ctx context.Context) {
	s.runResolveDueChanges(ctx)

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("schedule resolver stopped")
			return
		case <-ticker.C:
			s.runResolveDueChanges(ctx)
		}
	}
}

func (s *ResolverService) runResolveDueChanges(ctx context.Context) {
	s.log.Info("starting service to resolve due scheduled changes")
	now := s.now().UTC()
	subs, err := s.repo.FindDueScheduledChanges(ctx, now)
	if err != nil {
		s.log.Error("failed to find due scheduled changes", sl.Err(err))
		return
	}
	if len(subs) == 0 {
		s.log.Info("no due scheduled changes found")
		return
	}
	s.log.Info("found due scheduled changes", "count", len(subs))
	for _, sub := range subs {
		s.resolveOne(ctx, sub, now)
	}
}

func (s *ResolverService) resolveOne(ctx context.Context, sub *models.Subscription, now time.Time) {
	if sub.ScheduledAction == nil {
		return
	}
	action := *sub.ScheduledAction

	switch action {
	case models.ScheduledPriceChange:
		if sub.ScheduledPriceID == nil {
			s.log.Error("price change without target price",
				slog.String("subscription_id", sub.ID))
			return
		}
		if _, err := s.repo.UpdateSubscriptionPrice(ctx, sub.ID, *sub.ScheduledPriceID); err != nil {
			s.log.Error("failed to apply scheduled price change", sl.Err(err))
			return
		}
	case models.ScheduledCancellation:
		endedAt := now
		if sub.ScheduledChangeAt != nil {
			endedAt = *sub.ScheduledChangeAt
		}
		if _, err := s.repo.CancelSubscription(ctx, sub.ProviderSubscriptionID, endedAt); err != nil {
			s.log.Error("failed to apply scheduled cancellation", sl.Err(err))
			return
		}
	default:
		s.log.Error("unknown scheduled action",
			slog.String("subscription_id", sub.ID), slog.String("action", string(action)))
		return
	}

	if err := s.repo.ClearScheduledChange(ctx, sub.ID); err != nil {
		s.log.Error("failed to clear scheduled change", sl.Err(err))
		return
	}

	err := s.publisher.Publish(routingKeyResolved, ScheduleResolvedEvent{
		SubscriptionID: sub.ID,
		UserUID:        sub.UserUID,
		Action:         string(action),
		ResolvedAt:     now,
	})
	if err != nil {
		s.log.Error("failed to publish message", sl.Err(err))
	}
}
