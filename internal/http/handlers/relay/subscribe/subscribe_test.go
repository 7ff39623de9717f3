package subscribe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/notice/internal/models"
	"github.com/magabrotheeeer/notice/internal/services/relay"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Subscribe(ctx context.Context, sub models.Subscriber) error {
	return m.Called(ctx, sub).Error(0)
}

func TestSubscribeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		method         string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "подписчик принят",
			method: http.MethodPost,
			body:   `{"email":"a@b.co","source":"tiktok"}`,
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, models.Subscriber{Email: "a@b.co", Source: "tiktok"}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true}`,
		},
		{
			name:           "адрес без точки",
			method:         http.MethodPost,
			body:           `{"email":"a@b"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid email"}`,
		},
		{
			name:           "нет адреса",
			method:         http.MethodPost,
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid email"}`,
		},
		{
			name:   "сервис отклонил адрес",
			method: http.MethodPost,
			body:   `{"email":" @. "}`,
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, mock.Anything).Return(relay.ErrInvalidEmail)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid email"}`,
		},
		{
			name:           "некорректный JSON",
			method:         http.MethodPost,
			body:           `[`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request"}`,
		},
		{
			name:           "неверный метод",
			method:         http.MethodGet,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedBody:   `{"error":"Method not allowed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(tt.method, "/api/subscribe", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
