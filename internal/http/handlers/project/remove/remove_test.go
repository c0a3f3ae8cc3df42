package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CloudEngineHub/onlook/internal/http/middlewarectx"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Remove(ctx context.Context, projectID, userUID string) (int, error) {
	args := m.Called(ctx, projectID, userUID)
	return args.Int(0), args.Error(1)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		projectID      string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное удаление проекта",
			projectID: "project-1",
			userUID:   "uid-123",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "project-1", "uid-123").Return(1, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"deleted_count":1`,
		},
		{
			name:      "чужой проект не удаляется",
			projectID: "project-2",
			userUID:   "uid-123",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "project-2", "uid-123").Return(0, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"deleted_count":0`,
		},
		{
			name:           "пользователь не авторизован",
			projectID:      "project-1",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:      "ошибка сервиса",
			projectID: "project-1",
			userUID:   "uid-123",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "project-1", "uid-123").Return(0, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"failed to delete project"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete, "/projects/"+tt.projectID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.projectID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
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
