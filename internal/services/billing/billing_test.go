package billing_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CloudEngineHub/onlook/internal/billingprovider"
	"github.com/CloudEngineHub/onlook/internal/config"
	"github.com/CloudEngineHub/onlook/internal/models"
	"github.com/CloudEngineHub/onlook/internal/services/billing"
)

// Мок для SubscriptionRepository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) GetSubscriptionByProviderID(ctx context.Context, providerSubscriptionID string) (*models.Subscription, error) {
	args := m.Called(ctx, providerSubscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) UpdateSubscriptionPeriod(ctx context.Context, providerSubscriptionID string,
	status models.SubscriptionStatus, periodStart, periodEnd time.Time) (int, error) {
	args := m.Called(ctx, providerSubscriptionID, status, periodStart, periodEnd)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) UpdateSubscriptionPrice(ctx context.Context, id, priceID string) (int, error) {
	args := m.Called(ctx, id, priceID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) SetScheduleID(ctx context.Context, id, scheduleID string) error {
	args := m.Called(ctx, id, scheduleID)
	return args.Error(0)
}

func (m *RepoMock) SetScheduledChange(ctx context.Context, id string, action models.ScheduledAction,
	scheduledPriceID *string, changeAt time.Time) error {
	args := m.Called(ctx, id, action, scheduledPriceID, changeAt)
	return args.Error(0)
}

func (m *RepoMock) ClearScheduledChange(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RepoMock) CancelSubscription(ctx context.Context, providerSubscriptionID string, endedAt time.Time) (int, error) {
	args := m.Called(ctx, providerSubscriptionID, endedAt)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) GetPrice(ctx context.Context, priceID string) (*models.Price, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Price), args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) FindBillingCustomerID(ctx context.Context, userUID string) (string, bool, error) {
	args := m.Called(ctx, userUID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *RepoMock) SaveBillingCustomerID(ctx context.Context, userUID, customerID string) error {
	args := m.Called(ctx, userUID, customerID)
	return args.Error(0)
}

func (m *RepoMock) FindUserUIDByCustomerID(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

// Мок для Provider
type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) CreateCustomer(req billingprovider.CreateCustomerRequest) (*billingprovider.Customer, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingprovider.Customer), args.Error(1)
}

func (m *ProviderMock) CreateCheckoutSession(req billingprovider.CheckoutSessionRequest) (*billingprovider.CheckoutSession, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingprovider.CheckoutSession), args.Error(1)
}

func (m *ProviderMock) CreateBillingPortalSession(customerID, returnURL string) (*billingprovider.PortalSession, error) {
	args := m.Called(customerID, returnURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingprovider.PortalSession), args.Error(1)
}

func (m *ProviderMock) GetSubscription(subscriptionID string) (*billingprovider.Subscription, error) {
	args := m.Called(subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingprovider.Subscription), args.Error(1)
}

func (m *ProviderMock) CreateSubscriptionSchedule(subscriptionID string) (*billingprovider.Schedule, error) {
	args := m.Called(subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingprovider.Schedule), args.Error(1)
}

func (m *ProviderMock) UpdateSubscriptionSchedule(scheduleID string, phases []billingprovider.SchedulePhase) (*billingprovider.Schedule, error) {
	args := m.Called(scheduleID, phases)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingprovider.Schedule), args.Error(1)
}

func (m *ProviderMock) ReleaseSubscriptionSchedule(scheduleID string) (*billingprovider.Schedule, error) {
	args := m.Called(scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingprovider.Schedule), args.Error(1)
}

func (m *ProviderMock) GetSubscriptionSchedule(scheduleID string) (*billingprovider.Schedule, error) {
	args := m.Called(scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingprovider.Schedule), args.Error(1)
}

// Кеш в памяти для тестов, хранит только записи подписок.
type CacheFake struct {
	data map[string]models.Subscription
}

func NewCacheFake() *CacheFake {
	return &CacheFake{data: make(map[string]models.Subscription)}
}

func (c *CacheFake) Get(key string, result any) (bool, error) {
	sub, ok := c.data[key]
	if !ok {
		return false, nil
	}
	*(result.(*models.Subscription)) = sub
	return true, nil
}

func (c *CacheFake) Set(key string, value any, _ time.Duration) error {
	c.data[key] = *(value.(*models.Subscription))
	return nil
}

func (c *CacheFake) Invalidate(key string) error {
	delete(c.data, key)
	return nil
}

func newService(repo *RepoMock, provider *ProviderMock) *billing.BillingService {
	cfg := config.BillingProvider{
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
		PortalURL:  "https://app.example.com/settings",
	}
	return billing.New(repo, provider, NewCacheFake(), cfg, slog.Default())
}

func testSubscription() *models.Subscription {
	return &models.Subscription{
		ID:                     "local-sub-1",
		UserUID:                "user-1",
		ProductID:              "prod_editor",
		PriceID:                "price_pro",
		Status:                 models.SubscriptionActive,
		CustomerID:             "cus_1",
		ProviderSubscriptionID: "sub_1",
		ProviderItemID:         "si_1",
		PeriodStart:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:              time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestIsTierUpgrade(t *testing.T) {
	free := &models.Price{ID: "price_free", Key: "free", MonthlyMessageLimit: 0, DailyMessageLimit: 5}
	pro := &models.Price{ID: "price_pro", Key: "pro", MonthlyMessageLimit: 100}
	max := &models.Price{ID: "price_max", Key: "max", MonthlyMessageLimit: 1000}

	tests := []struct {
		name    string
		current *models.Price
		next    *models.Price
		want    bool
	}{
		{"переход с free на pro это апгрейд", free, pro, true},
		{"переход с pro на max это апгрейд", pro, max, true},
		{"переход с pro на free это даунгрейд", pro, free, false},
		{"переход на тот же тариф не апгрейд", pro, pro, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, billing.IsTierUpgrade(tt.current, tt.next))
		})
	}
}

func TestGetSubscription_Cached(t *testing.T) {
	sub := testSubscription()

	repo := new(RepoMock)
	provider := new(ProviderMock)
	repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(sub, nil).Once()

	svc := newService(repo, provider)

	first, err := svc.GetSubscription(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, first.ID)

	// Повторное чтение обслуживается из кеша, без обращения к хранилищу.
	second, err := svc.GetSubscription(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, second.ID)

	repo.AssertNumberOfCalls(t, "GetSubscriptionByUser", 1)
}

func TestUpdateSubscriptionNextPeriod(t *testing.T) {
	sub := testSubscription()

	t.Run("создаёт расписание и добавляет фазу с новым тарифом", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		currentPhase := billingprovider.SchedulePhase{
			Items:     []billingprovider.PhaseItem{{Price: "price_pro", Quantity: 1}},
			StartDate: sub.PeriodStart.Unix(),
			EndDate:   sub.PeriodEnd.Unix(),
		}

		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(sub, nil).Once()
		provider.On("CreateSubscriptionSchedule", "sub_1").Return(&billingprovider.Schedule{
			ID:             "sched_1",
			SubscriptionID: "sub_1",
			Phases:         []billingprovider.SchedulePhase{currentPhase},
		}, nil).Once()
		repo.On("SetScheduleID", mock.Anything, "local-sub-1", "sched_1").Return(nil).Once()

		provider.On("UpdateSubscriptionSchedule", "sched_1",
			mock.MatchedBy(func(phases []billingprovider.SchedulePhase) bool {
				if len(phases) != 2 {
					return false
				}
				next := phases[1]
				return phases[0].Items[0].Price == "price_pro" &&
					phases[0].StartDate == currentPhase.StartDate &&
					phases[0].EndDate == currentPhase.EndDate &&
					next.Items[0].Price == "price_free" &&
					next.Items[0].Quantity == 1 &&
					next.Iterations == 1
			})).Return(&billingprovider.Schedule{ID: "sched_1"}, nil).Once()

		priceID := "price_free"
		repo.On("SetScheduledChange", mock.Anything, "local-sub-1",
			models.ScheduledPriceChange, &priceID, sub.PeriodEnd).Return(nil).Once()

		schedule, err := svc.UpdateSubscriptionNextPeriod(context.Background(), "user-1", "price_free")
		require.NoError(t, err)
		assert.Equal(t, "sched_1", schedule.ID)

		repo.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("использует существующее расписание", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		scheduleID := "sched_1"
		withSchedule := *sub
		withSchedule.ScheduleID = &scheduleID

		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(&withSchedule, nil).Once()
		provider.On("GetSubscriptionSchedule", "sched_1").Return(&billingprovider.Schedule{
			ID: "sched_1",
			Phases: []billingprovider.SchedulePhase{
				{Items: []billingprovider.PhaseItem{{Price: "price_pro", Quantity: 1}}},
			},
		}, nil).Once()
		provider.On("UpdateSubscriptionSchedule", "sched_1", mock.Anything).
			Return(&billingprovider.Schedule{ID: "sched_1"}, nil).Once()
		repo.On("SetScheduledChange", mock.Anything, "local-sub-1",
			models.ScheduledPriceChange, mock.Anything, mock.Anything).Return(nil).Once()

		_, err := svc.UpdateSubscriptionNextPeriod(context.Background(), "user-1", "price_free")
		require.NoError(t, err)

		provider.AssertNotCalled(t, "CreateSubscriptionSchedule", mock.Anything)
		provider.AssertExpectations(t)
	})

	t.Run("расписание без фаз это ошибка без обновления", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(sub, nil).Once()
		provider.On("CreateSubscriptionSchedule", "sub_1").Return(&billingprovider.Schedule{
			ID:     "sched_1",
			Phases: nil,
		}, nil).Once()
		repo.On("SetScheduleID", mock.Anything, "local-sub-1", "sched_1").Return(nil).Once()

		_, err := svc.UpdateSubscriptionNextPeriod(context.Background(), "user-1", "price_free")
		require.ErrorIs(t, err, billing.ErrScheduleNoPhase)

		provider.AssertNotCalled(t, "UpdateSubscriptionSchedule", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "SetScheduledChange",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("фаза без позиций это ошибка", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(sub, nil).Once()
		provider.On("CreateSubscriptionSchedule", "sub_1").Return(&billingprovider.Schedule{
			ID:     "sched_1",
			Phases: []billingprovider.SchedulePhase{{}},
		}, nil).Once()
		repo.On("SetScheduleID", mock.Anything, "local-sub-1", "sched_1").Return(nil).Once()

		_, err := svc.UpdateSubscriptionNextPeriod(context.Background(), "user-1", "price_free")
		require.ErrorIs(t, err, billing.ErrPhaseNoItems)
	})

	t.Run("позиция без тарифа это ошибка", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(sub, nil).Once()
		provider.On("CreateSubscriptionSchedule", "sub_1").Return(&billingprovider.Schedule{
			ID: "sched_1",
			Phases: []billingprovider.SchedulePhase{
				{Items: []billingprovider.PhaseItem{{Quantity: 1}}},
			},
		}, nil).Once()
		repo.On("SetScheduleID", mock.Anything, "local-sub-1", "sched_1").Return(nil).Once()

		_, err := svc.UpdateSubscriptionNextPeriod(context.Background(), "user-1", "price_free")
		require.ErrorIs(t, err, billing.ErrItemNoPrice)
	})
}

func TestReleaseScheduledChange(t *testing.T) {
	t.Run("освобождает расписание и снимает проекцию", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		scheduleID := "sched_1"
		sub := testSubscription()
		sub.ScheduleID = &scheduleID

		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(sub, nil).Once()
		provider.On("ReleaseSubscriptionSchedule", "sched_1").
			Return(&billingprovider.Schedule{ID: "sched_1", Status: "released"}, nil).Once()
		repo.On("ClearScheduledChange", mock.Anything, "local-sub-1").Return(nil).Once()

		err := svc.ReleaseScheduledChange(context.Background(), "user-1")
		require.NoError(t, err)

		repo.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("без расписания это ошибка", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(testSubscription(), nil).Once()

		err := svc.ReleaseScheduledChange(context.Background(), "user-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no schedule")
	})
}

func TestStartCheckout(t *testing.T) {
	t.Run("новая подписка для пользователя без подписки", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		repo.On("FindBillingCustomerID", mock.Anything, "user-1").Return("", false, nil).Once()
		repo.On("GetUser", mock.Anything, "user-1").Return(&models.User{
			UUID: "user-1", Email: "u@example.com", Username: "u",
		}, nil).Once()
		provider.On("CreateCustomer", mock.Anything).
			Return(&billingprovider.Customer{ID: "cus_new"}, nil).Once()
		repo.On("SaveBillingCustomerID", mock.Anything, "user-1", "cus_new").Return(nil).Once()
		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(nil, sql.ErrNoRows).Once()

		provider.On("CreateCheckoutSession",
			mock.MatchedBy(func(req billingprovider.CheckoutSessionRequest) bool {
				r, ok := req.(billingprovider.NewSubscriptionRequest)
				return ok && r.CustomerID == "cus_new" && r.PriceID == "price_pro" &&
					r.SuccessURL != "" && r.CancelURL != ""
			})).Return(&billingprovider.CheckoutSession{ID: "cs_1", URL: "https://pay/cs_1"}, nil).Once()

		url, err := svc.StartCheckout(context.Background(), "user-1", "price_pro")
		require.NoError(t, err)
		assert.Equal(t, "https://pay/cs_1", url)

		repo.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("ошибка хранилища прерывает оформление", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		repo.On("FindBillingCustomerID", mock.Anything, "user-1").Return("cus_1", true, nil).Once()
		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").
			Return(nil, errors.New("connection reset")).Once()

		_, err := svc.StartCheckout(context.Background(), "user-1", "price_pro")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything)
	})

	t.Run("апгрейд для пользователя с действующей подпиской", func(t *testing.T) {
		repo := new(RepoMock)
		provider := new(ProviderMock)
		svc := newService(repo, provider)

		repo.On("FindBillingCustomerID", mock.Anything, "user-1").Return("cus_1", true, nil).Once()
		repo.On("GetSubscriptionByUser", mock.Anything, "user-1").Return(testSubscription(), nil).Once()

		provider.On("CreateCheckoutSession",
			mock.MatchedBy(func(req billingprovider.CheckoutSessionRequest) bool {
				r, ok := req.(billingprovider.ExistingSubscriptionUpgradeRequest)
				return ok && r.SubscriptionID == "sub_1" && r.ItemID == "si_1" && r.PriceID == "price_max"
			})).Return(&billingprovider.CheckoutSession{ID: "cs_2", URL: "https://pay/cs_2"}, nil).Once()

		url, err := svc.StartCheckout(context.Background(), "user-1", "price_max")
		require.NoError(t, err)
		assert.Equal(t, "https://pay/cs_2", url)

		provider.AssertNotCalled(t, "CreateCustomer", mock.Anything)
	})
}

func TestApplySubscriptionEvent(t *testing.T) {
	periodStart := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	psub := billingprovider.Subscription{
		ID:                 "sub_1",
		CustomerID:         "cus_1",
		Status:             "active",
		CurrentPeriodStart: periodStart.Unix(),
		CurrentPeriodEnd:   periodEnd.Unix(),
		Items:              []billingprovider.SubscriptionItem{{ID: "si_1", Price: "price_pro", Quantity: 1}},
	}

	t.Run("created создаёт локальную запись", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(ProviderMock))

		repo.On("GetSubscriptionByProviderID", mock.Anything, "sub_1").Return(nil, sql.ErrNoRows).Once()
		repo.On("FindUserUIDByCustomerID", mock.Anything, "cus_1").Return("user-1", nil).Once()
		repo.On("GetPrice", mock.Anything, "price_pro").Return(&models.Price{
			ID: "price_pro", ProductID: "prod_editor", Key: "pro", MonthlyMessageLimit: 100,
		}, nil).Once()
		repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
			return sub.UserUID == "user-1" &&
				sub.ProviderSubscriptionID == "sub_1" &&
				sub.ProviderItemID == "si_1" &&
				sub.PeriodEnd.After(sub.PeriodStart)
		})).Return("local-sub-1", nil).Once()

		err := svc.ApplySubscriptionEvent(context.Background(), "customer.subscription.created", psub)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("created повторная доставка без дублей", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(ProviderMock))

		repo.On("GetSubscriptionByProviderID", mock.Anything, "sub_1").Return(testSubscription(), nil).Once()

		err := svc.ApplySubscriptionEvent(context.Background(), "customer.subscription.created", psub)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	})

	t.Run("updated применяет смену тарифа и снимает проекцию", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(ProviderMock))

		local := testSubscription()
		action := models.ScheduledPriceChange
		local.ScheduledAction = &action

		changed := psub
		changed.Items = []billingprovider.SubscriptionItem{{ID: "si_1", Price: "price_free", Quantity: 1}}

		repo.On("GetSubscriptionByProviderID", mock.Anything, "sub_1").Return(local, nil).Once()
		repo.On("UpdateSubscriptionPeriod", mock.Anything, "sub_1",
			models.SubscriptionActive, periodStart, periodEnd).Return(1, nil).Once()
		repo.On("UpdateSubscriptionPrice", mock.Anything, "local-sub-1", "price_free").Return(1, nil).Once()
		repo.On("ClearScheduledChange", mock.Anything, "local-sub-1").Return(nil).Once()

		err := svc.ApplySubscriptionEvent(context.Background(), "customer.subscription.updated", changed)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("updated планирует отмену при cancel_at_period_end", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(ProviderMock))

		canceling := psub
		canceling.CancelAtPeriodEnd = true

		repo.On("GetSubscriptionByProviderID", mock.Anything, "sub_1").Return(testSubscription(), nil).Once()
		repo.On("UpdateSubscriptionPeriod", mock.Anything, "sub_1",
			models.SubscriptionActive, periodStart, periodEnd).Return(1, nil).Once()
		repo.On("SetScheduledChange", mock.Anything, "local-sub-1",
			models.ScheduledCancellation, (*string)(nil), periodEnd).Return(nil).Once()

		err := svc.ApplySubscriptionEvent(context.Background(), "customer.subscription.updated", canceling)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("deleted переводит подписку в canceled", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(ProviderMock))

		repo.On("GetSubscriptionByProviderID", mock.Anything, "sub_1").Return(testSubscription(), nil).Once()
		repo.On("CancelSubscription", mock.Anything, "sub_1", mock.Anything).Return(1, nil).Once()

		err := svc.ApplySubscriptionEvent(context.Background(), "customer.subscription.deleted", psub)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("неизвестное событие игнорируется", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(ProviderMock))

		err := svc.ApplySubscriptionEvent(context.Background(), "invoice.paid", psub)
		require.NoError(t, err)
	})
}

func TestStartCheckout_CustomerCreateError(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	svc := newService(repo, provider)

	repo.On("FindBillingCustomerID", mock.Anything, "user-1").Return("", false, nil).Once()
	repo.On("GetUser", mock.Anything, "user-1").Return(&models.User{UUID: "user-1"}, nil).Once()
	provider.On("CreateCustomer", mock.Anything).Return(nil, errors.New("provider down")).Once()

	_, err := svc.StartCheckout(context.Background(), "user-1", "price_pro")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}
