package billingprovider

// Customer — покупатель у платёжного провайдера.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CreateCustomerRequest — запрос на создание покупателя.
type CreateCustomerRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// CheckoutSession — сессия оплаты, на URL которой перенаправляется пользователь.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutSessionRequest — запрос на создание сессии оплаты.
// Два варианта: оформление новой подписки и апгрейд существующей.
type CheckoutSessionRequest interface {
	checkoutMode() string
}

// NewSubscriptionRequest — оформление новой подписки на тариф.
type NewSubscriptionRequest struct {
	Mode       string `json:"mode"`
	CustomerID string `json:"customer_id"`
	PriceID    string `json:"price_id"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

func (NewSubscriptionRequest) checkoutMode() string { return "subscription" }

// ExistingSubscriptionUpgradeRequest — апгрейд уже действующей подписки.
type ExistingSubscriptionUpgradeRequest struct {
	Mode           string `json:"mode"`
	SubscriptionID string `json:"subscription_id"`
	ItemID         string `json:"subscription_item_id"`
	PriceID        string `json:"price_id"`
}

func (ExistingSubscriptionUpgradeRequest) checkoutMode() string { return "upgrade" }

// PortalSession — сессия личного кабинета биллинга.
type PortalSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePortalSessionRequest — запрос на создание сессии личного кабинета.
type CreatePortalSessionRequest struct {
	CustomerID string `json:"customer_id"`
	ReturnURL  string `json:"return_url"`
}

// SubscriptionItem — позиция подписки (тариф и количество).
type SubscriptionItem struct {
	ID       string `json:"id"`
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// UpdateSubscriptionItemRequest — запрос на смену тарифа позиции подписки.
type UpdateSubscriptionItemRequest struct {
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// Subscription — подписка на стороне провайдера.
type Subscription struct {
	ID                 string             `json:"id"`
	CustomerID         string             `json:"customer"`
	Status             string             `json:"status"`
	CurrentPeriodStart int64              `json:"current_period_start"`
	CurrentPeriodEnd   int64              `json:"current_period_end"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end"`
	Items              []SubscriptionItem `json:"items"`
}

// PhaseItem — позиция фазы расписания.
type PhaseItem struct {
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// SchedulePhase — фаза расписания подписки. Даты в unix-секундах.
// Iterations > 0 означает, что фаза длится указанное число расчётных периодов.
type SchedulePhase struct {
	Items      []PhaseItem `json:"items"`
	StartDate  int64       `json:"start_date,omitempty"`
	EndDate    int64       `json:"end_date,omitempty"`
	Iterations int64       `json:"iterations,omitempty"`
}

// Schedule — расписание подписки: последовательность фаз, которую провайдер
// применяет к подписке по мере наступления их дат.
type Schedule struct {
	ID             string          `json:"id"`
	SubscriptionID string          `json:"subscription"`
	Status         string          `json:"status"`
	Phases         []SchedulePhase `json:"phases"`
}

// CreateScheduleRequest — создание расписания из действующей подписки;
// провайдер сам снимает слепок текущей фазы.
type CreateScheduleRequest struct {
	FromSubscription string `json:"from_subscription"`
}

// UpdateScheduleRequest — полная замена списка фаз расписания.
type UpdateScheduleRequest struct {
	Phases []SchedulePhase `json:"phases"`
}
