package models

import "time"

// SubscriptionStatus — состояние подписки, зеркалирует статус у провайдера.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// ScheduledAction — тип отложенного изменения подписки.
type ScheduledAction string

const (
	// ScheduledPriceChange — смена тарифа со следующего расчётного периода.
	ScheduledPriceChange ScheduledAction = "price_change"
	// ScheduledCancellation — отмена подписки в конце периода.
	ScheduledCancellation ScheduledAction = "cancellation"
)

// Subscription — запись подписки пользователя, зеркалирующая состояние
// у платёжного провайдера, плюс проекция отложенного изменения.
//
// Инварианты:
//   - ProviderSubscriptionID и ProviderItemID глобально уникальны;
//   - ScheduledAction != nil влечёт ScheduledChangeAt != nil;
//   - ScheduledAction == price_change влечёт ScheduledPriceID != nil;
//   - PeriodEnd строго позже PeriodStart.
type Subscription struct {
	ID        string             // Идентификатор записи
	UserUID   string             // Владелец подписки
	ProductID string             // Продукт
	PriceID   string             // Текущий тариф
	Status    SubscriptionStatus // Статус подписки

	StartedAt time.Time  // Начало подписки
	UpdatedAt time.Time  // Последнее обновление записи
	EndedAt   *time.Time // Момент завершения, если подписка закончилась

	CustomerID             string  // Идентификатор покупателя у провайдера
	ProviderSubscriptionID string  // Идентификатор подписки у провайдера (уникальный)
	ProviderItemID         string  // Идентификатор позиции подписки (уникальный)
	ScheduleID             *string // Идентификатор расписания, если создано

	PeriodStart time.Time // Начало текущего расчётного периода
	PeriodEnd   time.Time // Конец текущего расчётного периода

	ScheduledAction   *ScheduledAction // Отложенное действие, если запланировано
	ScheduledPriceID  *string          // Целевой тариф для price_change
	ScheduledChangeAt *time.Time       // Момент вступления изменения в силу
}

// HasScheduledChange сообщает, запланировано ли отложенное изменение.
func (s *Subscription) HasScheduledChange() bool {
	return s.ScheduledAction != nil
}
