package entitlement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/notice/internal/paymentprovider"
)

type MockSessionClient struct {
	mock.Mock
}

func (m *MockSessionClient) CheckoutSession(ctx context.Context, id string) (*paymentprovider.CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CheckoutSession), args.Error(1)
}

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(access, emailB64, epoch string) (bool, error) {
	args := m.Called(access, emailB64, epoch)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func at(month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(2026, month, day, 12, 0, 0, 0, time.UTC) }
}

func TestVerify_Precedence(t *testing.T) {
	sessions := new(MockSessionClient)
	tokens := new(MockTokenVerifier)
	s := New(newNoopLogger(), sessions, tokens, nil, nil, nil)

	sessions.On("CheckoutSession", mock.Anything, "cs_test123").
		Return(&paymentprovider.CheckoutSession{PaymentStatus: "paid"}, nil).Once()

	ok, err := s.Verify(context.Background(), Credentials{SessionID: "cs_test123", Access: "a", Email: "e"})
	require.NoError(t, err)
	assert.True(t, ok)
	tokens.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)

	tokens.On("Verify", "sig", "ZQ==", "684").Return(true, nil).Once()
	ok, err = s.Verify(context.Background(), Credentials{Access: "sig", Email: "ZQ==", Epoch: "684"})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Verify(context.Background(), Credentials{Access: "sig"})
	assert.ErrorIs(t, err, ErrNoCredential)

	sessions.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestVerifySession(t *testing.T) {
	netErr := errors.New("dial tcp: connection refused")

	tests := []struct {
		name      string
		session   *paymentprovider.CheckoutSession
		err       error
		wantValid bool
		wantErr   error
	}{
		{"оплачено", &paymentprovider.CheckoutSession{PaymentStatus: "paid"}, nil, true, nil},
		{"не оплачено", &paymentprovider.CheckoutSession{PaymentStatus: "unpaid"}, nil, false, nil},
		{"процессор ответил 404", nil, fmt.Errorf("x: %w", paymentprovider.ErrUnexpectedStatus), false, nil},
		{"неверный формат", nil, fmt.Errorf("x: %w", paymentprovider.ErrInvalidSessionID), false, paymentprovider.ErrInvalidSessionID},
		{"сетевая ошибка", nil, netErr, false, netErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSessionClient)
			sessions.On("CheckoutSession", mock.Anything, "cs_x").Return(tt.session, tt.err)
			s := New(newNoopLogger(), sessions, new(MockTokenVerifier), nil, nil, nil)

			ok, err := s.VerifySession(context.Background(), "cs_x")
			assert.Equal(t, tt.wantValid, ok)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyAccessToken_PropagatesError(t *testing.T) {
	tokens := new(MockTokenVerifier)
	bad := errors.New("bad email")
	tokens.On("Verify", "a", "e", "").Return(false, bad)
	s := New(newNoopLogger(), new(MockSessionClient), tokens, nil, nil, nil)

	ok, err := s.VerifyAccessToken("a", "e", "")
	assert.False(t, ok)
	assert.ErrorIs(t, err, bad)
}

func TestVerifyCode(t *testing.T) {
	s := New(newNoopLogger(), nil, nil, []string{"becauseis", " Partner "}, DefaultHolidays, at(time.February, 10))

	tests := []struct {
		code string
		want bool
	}{
		{"becauseis", true},
		{"  BECAUSEIS ", true},
		{"partner", true},
		{"iloveyou", true},
		{"newyear", false},
		{"", false},
		{"   ", false},
		{"nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, s.VerifyCode(tt.code))
		})
	}
}

func TestVerifyCode_HolidayWindows(t *testing.T) {
	tests := []struct {
		name string
		now  func() time.Time
		code string
		want bool
	}{
		{"valentines first day", at(time.February, 7), "iloveyou", true},
		{"valentines last day", at(time.February, 16), "iloveyou", true},
		{"valentines after", at(time.February, 17), "iloveyou", false},
		{"nye december", at(time.December, 30), "newyear", true},
		{"nye january", at(time.January, 2), "newyear", true},
		{"nye january after", at(time.January, 4), "newyear", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(newNoopLogger(), nil, nil, nil, DefaultHolidays, tt.now)
			assert.Equal(t, tt.want, s.VerifyCode(tt.code))
		})
	}
}

func TestActiveHoliday(t *testing.T) {
	s := New(newNoopLogger(), nil, nil, nil, DefaultHolidays, at(time.January, 1))
	h, ok := s.ActiveHoliday()
	require.True(t, ok)
	assert.Equal(t, "nye-jan", h.ID)
	assert.Equal(t, "sparkle", h.Widget)

	s = New(newNoopLogger(), nil, nil, nil, DefaultHolidays, at(time.October, 14))
	_, ok = s.ActiveHoliday()
	assert.False(t, ok)
}
