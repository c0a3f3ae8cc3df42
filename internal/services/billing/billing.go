// Package billing содержит бизнес-логику подписок: оформление через сессии
// оплаты, отложенную смену тарифа через расписания провайдера и применение
// событий вебхуков к локальным записям.
package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CloudEngineHub/onlook/internal/billingprovider"
	"github.com/CloudEngineHub/onlook/internal/config"
	"github.com/CloudEngineHub/onlook/internal/lib/sl"
	"github.com/CloudEngineHub/onlook/internal/models"
)

// SubscriptionRepository определяет методы хранилища для записей подписок.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
	GetSubscriptionByProviderID(ctx context.Context, providerSubscriptionID string) (*models.Subscription, error)
	UpdateSubscriptionPeriod(ctx context.Context, providerSubscriptionID string,
		status models.SubscriptionStatus, periodStart, periodEnd time.Time) (int, error)
	UpdateSubscriptionPrice(ctx context.Context, id, priceID string) (int, error)
	SetScheduleID(ctx context.Context, id, scheduleID string) error
	SetScheduledChange(ctx context.Context, id string, action models.ScheduledAction,
		scheduledPriceID *string, changeAt time.Time) error
	ClearScheduledChange(ctx context.Context, id string) error
	CancelSubscription(ctx context.Context, providerSubscriptionID string, endedAt time.Time) (int, error)
	GetPrice(ctx context.Context, priceID string) (*models.Price, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	FindBillingCustomerID(ctx context.Context, userUID string) (string, bool, error)
	SaveBillingCustomerID(ctx context.Context, userUID, customerID string) error
	FindUserUIDByCustomerID(ctx context.Context, customerID string) (string, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Provider определяет методы клиента платёжного провайдера.
type Provider interface {
	CreateCustomer(req billingprovider.CreateCustomerRequest) (*billingprovider.Customer, error)
	CreateCheckoutSession(req billingprovider.CheckoutSessionRequest) (*billingprovider.CheckoutSession, error)
	CreateBillingPortalSession(customerID, returnURL string) (*billingprovider.PortalSession, error)
	GetSubscription(subscriptionID string) (*billingprovider.Subscription, error)
	CreateSubscriptionSchedule(subscriptionID string) (*billingprovider.Schedule, error)
	UpdateSubscriptionSchedule(scheduleID string, phases []billingprovider.SchedulePhase) (*billingprovider.Schedule, error)
	ReleaseSubscriptionSchedule(scheduleID string) (*billingprovider.Schedule, error)
	GetSubscriptionSchedule(scheduleID string) (*billingprovider.Schedule, error)
}

// Ошибки валидации расписания провайдера.
var (
	ErrScheduleNoPhase = errors.New("subscription schedule has no current phase")
	ErrPhaseNoItems    = errors.New("schedule phase has no items")
	ErrItemNoPrice     = errors.New("schedule phase item has no price")
)

// Время жизни записи подписки в кеше.
const subscriptionCacheTTL = time.Hour

// BillingService реализует операции биллинга поверх клиента провайдера и хранилища.
type BillingService struct {
	repo     SubscriptionRepository
	provider Provider
	cache    Cache
	cfg      config.BillingProvider
	log      *slog.Logger
}

// New создает новый экземпляр BillingService.
func New(repo SubscriptionRepository, provider Provider, cache Cache, cfg config.BillingProvider, log *slog.Logger) *BillingService {
	return &BillingService{
		repo:     repo,
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

// IsTierUpgrade сообщает, является ли переход на новый тариф повышением.
// Сравнение идёт по месячному лимиту сообщений: у бесплатного тарифа он нулевой.
func IsTierUpgrade(current, next *models.Price) bool {
	return next.MonthlyMessageLimit > current.MonthlyMessageLimit
}

func subscriptionCacheKey(userUID string) string {
	return fmt.Sprintf("subscription:user:%s", userUID)
}

// GetSubscription возвращает запись подписки пользователя.
func (s *BillingService) GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	cacheKey := subscriptionCacheKey(userUID)
	var cached models.Subscription
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read subscription from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, sub, subscriptionCacheTTL); err != nil {
		s.log.Warn("failed to cache subscription", sl.Err(err))
	}
	return sub, nil
}

func (s *BillingService) invalidateSubscription(userUID string) {
	if err := s.cache.Invalidate(subscriptionCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate subscription cache", sl.Err(err))
	}
}

// getOrCreateCustomer возвращает идентификатор покупателя у провайдера,
// создавая покупателя при первом обращении.
func (s *BillingService) getOrCreateCustomer(ctx context.Context, userUID string) (string, error) {
	customerID, found, err := s.repo.FindBillingCustomerID(ctx, userUID)
	if err != nil {
		return "", err
	}
	if found {
		return customerID, nil
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return "", err
	}
	customer, err := s.provider.CreateCustomer(billingprovider.CreateCustomerRequest{
		Email: user.Email,
		Name:  user.Username,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	if err := s.repo.SaveBillingCustomerID(ctx, userUID, customer.ID); err != nil {
		return "", err
	}
	s.log.Info("created billing customer", slog.String("customer_id", customer.ID))
	return customer.ID, nil
}

// StartCheckout создаёт сессию оплаты и возвращает её URL.
// Для пользователя без подписки оформляется новая, для действующей — апгрейд.
func (s *BillingService) StartCheckout(ctx context.Context, userUID, priceID string) (string, error) {
	customerID, err := s.getOrCreateCustomer(ctx, userUID)
	if err != nil {
		return "", err
	}

	var req billingprovider.CheckoutSessionRequest
	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	switch {
	case err == nil:
		req = billingprovider.ExistingSubscriptionUpgradeRequest{
			SubscriptionID: sub.ProviderSubscriptionID,
			ItemID:         sub.ProviderItemID,
			PriceID:        priceID,
		}
	case errors.Is(err, sql.ErrNoRows):
		req = billingprovider.NewSubscriptionRequest{
			CustomerID: customerID,
			PriceID:    priceID,
			SuccessURL: s.cfg.SuccessURL,
			CancelURL:  s.cfg.CancelURL,
		}
	default:
		return "", err
	}

	session, err := s.provider.CreateCheckoutSession(req)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	s.log.Info("created checkout session", slog.String("session_id", session.ID))
	return session.URL, nil
}

// OpenBillingPortal создаёт сессию личного кабинета биллинга и возвращает её URL.
func (s *BillingService) OpenBillingPortal(ctx context.Context, userUID string) (string, error) {
	customerID, found, err := s.repo.FindBillingCustomerID(ctx, userUID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.New("user has no billing customer")
	}
	session, err := s.provider.CreateBillingPortalSession(customerID, s.cfg.PortalURL)
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return session.URL, nil
}

// UpdateSubscriptionNextPeriod планирует смену тарифа со следующего расчётного
// периода. Текущая фаза расписания сохраняется без изменений, после неё
// добавляется фаза с новым тарифом длиной в один расчётный период.
func (s *BillingService) UpdateSubscriptionNextPeriod(ctx context.Context, userUID, newPriceID string) (*billingprovider.Schedule, error) {
	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	var schedule *billingprovider.Schedule
	if sub.ScheduleID != nil {
		schedule, err = s.provider.GetSubscriptionSchedule(*sub.ScheduleID)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve schedule: %w", err)
		}
	} else {
		schedule, err = s.provider.CreateSubscriptionSchedule(sub.ProviderSubscriptionID)
		if err != nil {
			return nil, fmt.Errorf("failed to create schedule: %w", err)
		}
		if err := s.repo.SetScheduleID(ctx, sub.ID, schedule.ID); err != nil {
			return nil, err
		}
	}

	if len(schedule.Phases) == 0 {
		return nil, ErrScheduleNoPhase
	}
	currentPhase := schedule.Phases[0]
	if len(currentPhase.Items) == 0 {
		return nil, ErrPhaseNoItems
	}
	if currentPhase.Items[0].Price == "" {
		return nil, ErrItemNoPrice
	}

	phases := []billingprovider.SchedulePhase{
		currentPhase,
		{
			Items:      []billingprovider.PhaseItem{{Price: newPriceID, Quantity: 1}},
			Iterations: 1,
		},
	}
	updated, err := s.provider.UpdateSubscriptionSchedule(schedule.ID, phases)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	if err := s.repo.SetScheduledChange(ctx, sub.ID, models.ScheduledPriceChange, &newPriceID, sub.PeriodEnd); err != nil {
		return nil, err
	}
	s.invalidateSubscription(userUID)
	s.log.Info("scheduled price change",
		slog.String("subscription_id", sub.ID),
		slog.String("new_price_id", newPriceID))
	return updated, nil
}

// ReleaseScheduledChange отменяет запланированную смену тарифа: расписание
// освобождается у провайдера, проекция изменения снимается с записи подписки.
func (s *BillingService) ReleaseScheduledChange(ctx context.Context, userUID string) error {
	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil {
		return err
	}
	if sub.ScheduleID == nil {
		return errors.New("subscription has no schedule")
	}
	if _, err := s.provider.ReleaseSubscriptionSchedule(*sub.ScheduleID); err != nil {
		return fmt.Errorf("failed to release schedule: %w", err)
	}
	if err := s.repo.ClearScheduledChange(ctx, sub.ID); err != nil {
		return err
	}
	s.invalidateSubscription(userUID)
	s.log.Info("released scheduled change", slog.String("subscription_id", sub.ID))
	return nil
}

// ApplySubscriptionEvent применяет событие вебхука провайдера к локальной записи.
func (s *BillingService) ApplySubscriptionEvent(ctx context.Context, eventType string, psub billingprovider.Subscription) error {
	switch eventType {
	case "customer.subscription.created":
		return s.applySubscriptionCreated(ctx, psub)
	case "customer.subscription.updated":
		return s.applySubscriptionUpdated(ctx, psub)
	case "customer.subscription.deleted":
		return s.applySubscriptionDeleted(ctx, psub)
	default:
		s.log.Info("skipping unsupported webhook event", slog.String("type", eventType))
		return nil
	}
}

func (s *BillingService) applySubscriptionCreated(ctx context.Context, psub billingprovider.Subscription) error {
	if _, err := s.repo.GetSubscriptionByProviderID(ctx, psub.ID); err == nil {
		// Повторная доставка события, запись уже существует.
		return nil
	}
	if len(psub.Items) == 0 {
		return errors.New("provider subscription has no items")
	}

	userUID, err := s.repo.FindUserUIDByCustomerID(ctx, psub.CustomerID)
	if err != nil {
		return fmt.Errorf("unknown customer %s: %w", psub.CustomerID, err)
	}
	price, err := s.repo.GetPrice(ctx, psub.Items[0].Price)
	if err != nil {
		return fmt.Errorf("unknown price %s: %w", psub.Items[0].Price, err)
	}

	id, err := s.repo.CreateSubscription(ctx, models.Subscription{
		UserUID:                userUID,
		ProductID:              price.ProductID,
		PriceID:                price.ID,
		Status:                 models.SubscriptionStatus(psub.Status),
		CustomerID:             psub.CustomerID,
		ProviderSubscriptionID: psub.ID,
		ProviderItemID:         psub.Items[0].ID,
		PeriodStart:            time.Unix(psub.CurrentPeriodStart, 0).UTC(),
		PeriodEnd:              time.Unix(psub.CurrentPeriodEnd, 0).UTC(),
	})
	if err != nil {
		return err
	}
	s.invalidateSubscription(userUID)
	s.log.Info("created subscription from webhook", slog.String("subscription_id", id))
	return nil
}

func (s *BillingService) applySubscriptionUpdated(ctx context.Context, psub billingprovider.Subscription) error {
	sub, err := s.repo.GetSubscriptionByProviderID(ctx, psub.ID)
	if err != nil {
		return err
	}
	defer s.invalidateSubscription(sub.UserUID)

	periodStart := time.Unix(psub.CurrentPeriodStart, 0).UTC()
	periodEnd := time.Unix(psub.CurrentPeriodEnd, 0).UTC()
	if _, err := s.repo.UpdateSubscriptionPeriod(ctx, psub.ID,
		models.SubscriptionStatus(psub.Status), periodStart, periodEnd); err != nil {
		return err
	}

	// Провайдер применил смену тарифа: фиксируем новый тариф и снимаем проекцию.
	if len(psub.Items) > 0 && psub.Items[0].Price != sub.PriceID {
		if _, err := s.repo.UpdateSubscriptionPrice(ctx, sub.ID, psub.Items[0].Price); err != nil {
			return err
		}
		if err := s.repo.ClearScheduledChange(ctx, sub.ID); err != nil {
			return err
		}
		s.log.Info("applied price change from webhook",
			slog.String("subscription_id", sub.ID),
			slog.String("price_id", psub.Items[0].Price))
		return nil
	}

	if psub.CancelAtPeriodEnd {
		if sub.ScheduledAction == nil {
			if err := s.repo.SetScheduledChange(ctx, sub.ID, models.ScheduledCancellation, nil, periodEnd); err != nil {
				return err
			}
			s.log.Info("scheduled cancellation from webhook", slog.String("subscription_id", sub.ID))
		}
		return nil
	}
	if sub.ScheduledAction != nil && *sub.ScheduledAction == models.ScheduledCancellation {
		if err := s.repo.ClearScheduledChange(ctx, sub.ID); err != nil {
			return err
		}
		s.log.Info("cancellation revoked from webhook", slog.String("subscription_id", sub.ID))
	}
	return nil
}

func (s *BillingService) applySubscriptionDeleted(ctx context.Context, psub billingprovider.Subscription) error {
	sub, err := s.repo.GetSubscriptionByProviderID(ctx, psub.ID)
	if err != nil {
		return err
	}
	if _, err := s.repo.CancelSubscription(ctx, psub.ID, time.Now().UTC()); err != nil {
		return err
	}
	s.invalidateSubscription(sub.UserUID)
	if sub.ScheduledAction != nil {
		if err := s.repo.ClearScheduledChange(ctx, sub.ID); err != nil {
			s.log.Warn("failed to clear scheduled change on cancel", sl.Err(err))
		}
	}
	s.log.Info("subscription canceled from webhook", slog.String("subscription_id", sub.ID))
	return nil
}
