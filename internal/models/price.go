package models

// PriceKeyFree — ключ бесплатного тарифа; для него лимит сообщений дневной.
const PriceKeyFree = "free"

// Price представляет тариф продукта с лимитами сообщений.
type Price struct {
	ID                  string // Идентификатор тарифа у платёжного провайдера
	ProductID           string // Идентификатор продукта
	Key                 string // Ключ тарифа: free, pro, ...
	MonthlyMessageLimit int    // Лимит сообщений в месяц
	DailyMessageLimit   int    // Лимит сообщений в день
}

// IsFree сообщает, является ли тариф бесплатным.
func (p Price) IsFree() bool {
	return p.Key == PriceKeyFree
}
