// Package usage считает потребление сообщений и готовит сводку для
// отображения: дневное окно для бесплатного тарифа, расчётный период
// подписки для платного.
package usage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CloudEngineHub/onlook/internal/lib/sl"
	"github.com/CloudEngineHub/onlook/internal/models"
)

// Формат дат в сообщениях об отложенных изменениях.
const dateFormat = "Jan 2, 2006"

// Время жизни сводки в кеше: гасит повторные запросы редактора.
const summaryTTL = time.Second

// UsageRepository определяет методы хранилища для подсчёта потребления.
type UsageRepository interface {
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
	GetPrice(ctx context.Context, priceID string) (*models.Price, error)
	GetPriceByKey(ctx context.Context, key string) (*models.Price, error)
	CountUsageSince(ctx context.Context, userUID string, since time.Time) (int, error)
	RecordUsage(ctx context.Context, userUID string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// UsageService реализует подсчёт потребления и сводку для пользователя.
type UsageService struct {
	repo  UsageRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создает новый экземпляр UsageService.
func New(repo UsageRepository, cache Cache, log *slog.Logger) *UsageService {
	return &UsageService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Summary возвращает сводку потребления пользователя. Для бесплатного тарифа
// окно дневное от полуночи UTC, для платного — текущий расчётный период
// подписки. При нулевом лимите процент равен нулю.
func (s *UsageService) Summary(ctx context.Context, userUID string) (*models.UsageSummary, error) {
	cacheKey := fmt.Sprintf("usage:summary:%s", userUID)
	var cached models.UsageSummary
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read summary from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	var price *models.Price
	if err != nil {
		// Без подписки пользователь находится на бесплатном тарифе.
		sub = nil
		price, err = s.repo.GetPriceByKey(ctx, models.PriceKeyFree)
		if err != nil {
			return nil, err
		}
	} else {
		price, err = s.repo.GetPrice(ctx, sub.PriceID)
		if err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	var summary models.UsageSummary
	var since time.Time
	if price.IsFree() {
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		summary.Period = models.UsageDaily
		summary.LimitCount = price.DailyMessageLimit
		summary.PeriodResetAt = since.AddDate(0, 0, 1)
	} else {
		since = sub.PeriodStart
		summary.Period = models.UsageMonthly
		summary.LimitCount = price.MonthlyMessageLimit
		summary.PeriodResetAt = sub.PeriodEnd
	}

	count, err := s.repo.CountUsageSince(ctx, userUID, since)
	if err != nil {
		return nil, err
	}
	summary.UsageCount = count
	if summary.LimitCount > 0 {
		summary.Percentage = count * 100 / summary.LimitCount
	}

	if sub != nil && sub.ScheduledAction != nil && sub.ScheduledChangeAt != nil {
		summary.ScheduledMessage = s.scheduledMessage(ctx, sub)
	}

	if err := s.cache.Set(cacheKey, summary, summaryTTL); err != nil {
		s.log.Warn("failed to cache summary", sl.Err(err))
	}
	return &summary, nil
}

func (s *UsageService) scheduledMessage(ctx context.Context, sub *models.Subscription) string {
	date := sub.ScheduledChangeAt.UTC().Format(dateFormat)
	switch *sub.ScheduledAction {
	case models.ScheduledPriceChange:
		if sub.ScheduledPriceID == nil {
			return ""
		}
		target, err := s.repo.GetPrice(ctx, *sub.ScheduledPriceID)
		if err != nil {
			s.log.Warn("failed to resolve scheduled price", sl.Err(err))
			return ""
		}
		return fmt.Sprintf("Your plan changes to %d messages per month on %s.", target.MonthlyMessageLimit, date)
	case models.ScheduledCancellation:
		return fmt.Sprintf("Your subscription ends on %s.", date)
	}
	return ""
}

// Record фиксирует израсходованное сообщение и сбрасывает кешированную сводку.
func (s *UsageService) Record(ctx context.Context, userUID string) error {
	if _, err := s.repo.RecordUsage(ctx, userUID); err != nil {
		return err
	}
	cacheKey := fmt.Sprintf("usage:summary:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate summary cache", sl.Err(err))
	}
	return nil
}
