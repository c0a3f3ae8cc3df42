package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CloudEngineHub/onlook/internal/config"
	"github.com/CloudEngineHub/onlook/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindDueScheduledChanges(ctx context.Context, now time.Time) ([]*models.Subscription, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockRepository) UpdateSubscriptionPrice(ctx context.Context, id, priceID string) (int, error) {
	args := m.Called(ctx, id, priceID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CancelSubscription(ctx context.Context, providerSubscriptionID string, endedAt time.Time) (int, error) {
	args := m.Called(ctx, providerSubscriptionID, endedAt)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ClearScheduledChange(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func duePriceChange(changeAt time.Time) *models.Subscription {
	action := models.ScheduledPriceChange
	target := "price_free"
	return &models.Subscription{
		ID:                     "local-sub-1",
		UserUID:                "uid-123",
		ProviderSubscriptionID: "sub_1",
		PriceID:                "price_pro",
		Status:                 "active",
		ScheduledAction:        &action,
		ScheduledPriceID:       &target,
		ScheduledChangeAt:      &changeAt,
	}
}

func dueCancellation(changeAt time.Time) *models.Subscription {
	action := models.ScheduledCancellation
	return &models.Subscription{
		ID:                     "local-sub-2",
		UserUID:                "uid-456",
		ProviderSubscriptionID: "sub_2",
		PriceID:                "price_pro",
		Status:                 "active",
		ScheduledAction:        &action,
		ScheduledChangeAt:      &changeAt,
	}
}

func TestResolverService_runResolveDueChanges(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	changeAt := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		setupMocks func(*MockRepository, *MockPublisher)
	}{
		{
			name: "success - applies due price change",
			setupMocks: func(r *MockRepository, p *MockPublisher) {
				r.On("FindDueScheduledChanges", mock.Anything, now).
					Return([]*models.Subscription{duePriceChange(changeAt)}, nil).Once()
				r.On("UpdateSubscriptionPrice", mock.Anything, "local-sub-1", "price_free").Return(1, nil).Once()
				r.On("ClearScheduledChange", mock.Anything, "local-sub-1").Return(nil).Once()
				p.On("Publish", "schedule.resolved", ScheduleResolvedEvent{
					SubscriptionID: "local-sub-1",
					UserUID:        "uid-123",
					Action:         "price_change",
					ResolvedAt:     now,
				}).Return(nil).Once()
			},
		},
		{
			name: "success - applies due cancellation",
			setupMocks: func(r *MockRepository, p *MockPublisher) {
				r.On("FindDueScheduledChanges", mock.Anything, now).
					Return([]*models.Subscription{dueCancellation(changeAt)}, nil).Once()
				r.On("CancelSubscription", mock.Anything, "sub_2", changeAt).Return(1, nil).Once()
				r.On("ClearScheduledChange", mock.Anything, "local-sub-2").Return(nil).Once()
				p.On("Publish", "schedule.resolved", mock.AnythingOfType("resolver.ScheduleResolvedEvent")).
					Return(nil).Once()
			},
		},
		{
			name: "success - no due changes",
			setupMocks: func(r *MockRepository, _ *MockPublisher) {
				r.On("FindDueScheduledChanges", mock.Anything, now).
					Return([]*models.Subscription{}, nil).Once()
			},
		},
		{
			name: "repository error on find",
			setupMocks: func(r *MockRepository, _ *MockPublisher) {
				r.On("FindDueScheduledChanges", mock.Anything, now).
					Return(nil, errors.New("db error")).Once()
			},
		},
		{
			// Изменение остаётся запланированным и будет повторено на следующем проходе.
			name: "repository error on apply keeps change scheduled",
			setupMocks: func(r *MockRepository, p *MockPublisher) {
				r.On("FindDueScheduledChanges", mock.Anything, now).
					Return([]*models.Subscription{duePriceChange(changeAt)}, nil).Once()
				r.On("UpdateSubscriptionPrice", mock.Anything, "local-sub-1", "price_free").
					Return(0, errors.New("db error")).Once()
			},
		},
		{
			name: "publish error is only logged",
			setupMocks: func(r *MockRepository, p *MockPublisher) {
				r.On("FindDueScheduledChanges", mock.Anything, now).
					Return([]*models.Subscription{dueCancellation(changeAt)}, nil).Once()
				r.On("CancelSubscription", mock.Anything, "sub_2", changeAt).Return(1, nil).Once()
				r.On("ClearScheduledChange", mock.Anything, "local-sub-2").Return(nil).Once()
				p.On("Publish", "schedule.resolved", mock.Anything).
					Return(errors.New("broker down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			publisher := new(MockPublisher)
			service := New(repo, publisher, config.Resolver{ScanInterval: time.Hour}, newNoopLogger())
			service.now = func() time.Time { return now }

			tt.setupMocks(repo, publisher)

			service.runResolveDueChanges(context.Background())

			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestResolverService_New(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	logger := newNoopLogger()

	service := New(repo, publisher, config.Resolver{ScanInterval: time.Hour}, logger)

	assert.NotNil(t, service)
	assert.Equal(t, repo, service.repo)
	assert.Equal(t, logger, service.log)
}
