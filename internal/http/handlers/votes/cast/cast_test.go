package cast

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/notice/internal/models"
	"github.com/magabrotheeeer/notice/internal/services/votes"
	"github.com/magabrotheeeer/notice/internal/storage/redisstore"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Cast(ctx context.Context, req models.VoteRequest) (models.VoteResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.VoteResult), args.Error(1)
}

func ptr(n int64) *int64 { return &n }

func TestCastHandler(t *testing.T) {
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
			name:   "голос учтен",
			method: http.MethodPost,
			body:   `{"prompt":"hi","direction":"up"}`,
			setupMock: func(m *MockService) {
				m.On("Cast", mock.Anything, models.VoteRequest{Prompt: "hi", Direction: "up"}).
					Return(models.VoteResult{Hash: "p2kh", Direction: "up", Count: ptr(3)}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"hash":"p2kh","ok":true,"up":3}`,
		},
		{
			name:   "хранилище недоступно",
			method: http.MethodPost,
			body:   `{"prompt":"hi","direction":"down","feedback":"meh"}`,
			setupMock: func(m *MockService) {
				m.On("Cast", mock.Anything, models.VoteRequest{Prompt: "hi", Direction: "down", Feedback: "meh"}).
					Return(models.VoteResult{Hash: "p2kh", Direction: "down"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"hash":"p2kh","ok":true}`,
		},
		{
			name:           "пустой промпт",
			method:         http.MethodPost,
			body:           `{"prompt":"","direction":"sideways"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid prompt"}`,
		},
		{
			name:           "неверное направление",
			method:         http.MethodPost,
			body:           `{"prompt":"hi","direction":"sideways"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid direction"}`,
		},
		{
			name:   "слишком длинный промпт",
			method: http.MethodPost,
			body:   `{"prompt":"` + strings.Repeat("a", 501) + `","direction":"up"}`,
			setupMock: func(m *MockService) {
				m.On("Cast", mock.Anything, mock.Anything).Return(models.VoteResult{}, votes.ErrInvalidPrompt)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid prompt"}`,
		},
		{
			name:           "некорректный JSON",
			method:         http.MethodPost,
			body:           `not json`,
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

			req := httptest.NewRequest(tt.method, "/api/vote", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}

// Два голоса за один промпт в разном регистре попадают в один счетчик.
func TestCastHandler_WithRedis(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	mr := miniredis.RunT(t)
	db := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = db.Close() })

	svc := votes.New(logger, redisstore.NewVoteStore(db), nil, nil)
	h := New(logger, svc)

	for i, body := range []string{
		`{"prompt":"What was your childhood nickname?","direction":"up"}`,
		`{"prompt":"  what was your CHILDHOOD nickname?  ","direction":"up"}`,
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/vote", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, w.Code)
		if i == 1 {
			assert.JSONEq(t, `{"hash":"p112usv","ok":true,"up":2}`, w.Body.String())
		}
	}

	assert.Equal(t, "2", mr.HGet("votes:p112usv", "up"))
}
