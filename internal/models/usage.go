package models

import "time"

// UsagePeriod — период, за который считается потребление сообщений.
type UsagePeriod string

const (
	UsageDaily   UsagePeriod = "day"
	UsageMonthly UsagePeriod = "month"
)

// UsageSummary — сводка потребления для отображения пользователю.
type UsageSummary struct {
	Period           UsagePeriod `json:"period"`             // Выбранный период: день или месяц
	UsageCount       int         `json:"usage_count"`        // Израсходовано сообщений
	LimitCount       int         `json:"limit_count"`        // Лимит сообщений за период
	Percentage       int         `json:"percentage"`         // Процент израсходованного, 0 при нулевом лимите
	ScheduledMessage string      `json:"scheduled_message"`  // Сообщение об отложенном изменении, пустое если его нет
	PeriodResetAt    time.Time   `json:"period_reset_at"`    // Момент сброса периода
}

// AnalyticsEvent — событие продуктовой аналитики (fire-and-forget).
type AnalyticsEvent struct {
	UserUID string `json:"user_uid"`
	Event   string `json:"event"`
}
