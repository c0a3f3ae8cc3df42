package rabbitmq

// QueueConfig описывает очередь и её routing key в обменнике событий.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetAnalyticsQueues возвращает очереди продуктовой аналитики.
func GetAnalyticsQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "analytics.events", RoutingKey: "analytics"},
	}
}

// GetBillingQueues возвращает очереди событий биллинга
// (результаты применения отложенных изменений подписки).
func GetBillingQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "billing.schedule-resolved", RoutingKey: "schedule.resolved"},
	}
}
