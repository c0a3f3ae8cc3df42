package pricechange

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CloudEngineHub/onlook/internal/billingprovider"
	"github.com/CloudEngineHub/onlook/internal/http/middlewarectx"
)

// MockService реализует интерфейс pricechange.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateSubscriptionNextPeriod(ctx context.Context, userUID, newPriceID string) (*billingprovider.Schedule, error) {
	args := m.Called(ctx, userUID, newPriceID)
	if res := args.Get(0); res != nil {
		return res.(*billingprovider.Schedule), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPriceChangeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	schedule := &billingprovider.Schedule{
		ID:             "sched_1",
		SubscriptionID: "sub_1",
		Status:         "active",
		Phases: []billingprovider.SchedulePhase{
			{Items: []billingprovider.PhaseItem{{Price: "price_pro", Quantity: 1}}},
			{Items: []billingprovider.PhaseItem{{Price: "price_free", Quantity: 1}}, Iterations: 1},
		},
	}

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное планирование смены тарифа",
			body:    `{"price_id":"price_free"}`,
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("UpdateSubscriptionNextPeriod", mock.Anything, "uid-123", "price_free").
					Return(schedule, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"sched_1"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"price_id"`,
			userUID:        "uid-123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "пустой price_id",
			body:           `{"price_id":""}`,
			userUID:        "uid-123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field PriceID is a required field`,
		},
		{
			name:           "пользователь не авторизован",
			body:           `{"price_id":"price_free"}`,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:    "ошибка сервиса",
			body:    `{"price_id":"price_free"}`,
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("UpdateSubscriptionNextPeriod", mock.Anything, "uid-123", "price_free").
					Return(nil, errors.New("provider error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not schedule price change"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/billing/subscription/price-change", strings.NewReader(tt.body))
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
