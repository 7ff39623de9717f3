// Package entitlement реализует решение "открыт ли доступ к игре".
//
// Доступ открывается, если успешна любая из проверок: оплаченная сессия
// платежного процессора, подписанная ссылка доступа или промо/праздничный код.
// Сервер ничего не хранит: он только отвечает valid true/false на
// предъявленные учетные данные, а состояние "открыто" держит клиент.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/notice/internal/lib/metrics"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
	"github.com/magabrotheeeer/notice/internal/paymentprovider"
)

// ErrNoCredential в запросе нет ни сессии, ни пары access+e.
var ErrNoCredential = errors.New("no credential presented")

// SessionClient получает статус сессии у платежного процессора.
type SessionClient interface {
	CheckoutSession(ctx context.Context, id string) (*paymentprovider.CheckoutSession, error)
}

// TokenVerifier проверяет подписанные ссылки доступа.
type TokenVerifier interface {
	Verify(access, emailB64, epoch string) (bool, error)
}

// Credentials учетные данные из запроса проверки доступа.
type Credentials struct {
	SessionID string
	Access    string
	Email     string // base64
	Epoch     string // пусто для устаревших токенов
}

// Service проверяет учетные данные.
type Service struct {
	log      *slog.Logger
	sessions SessionClient
	tokens   TokenVerifier
	codes    map[string]struct{}
	holidays []Holiday
	now      func() time.Time
}

// New создает Service. codes уже нормализованный список разрешенных кодов.
func New(log *slog.Logger, sessions SessionClient, tokens TokenVerifier, codes []string, holidays []Holiday, now func() time.Time) *Service {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[normalizeCode(c)] = struct{}{}
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		log:      log,
		sessions: sessions,
		tokens:   tokens,
		codes:    set,
		holidays: holidays,
		now:      now,
	}
}

// Verify проверяет учетные данные в порядке приоритета: сессия, затем токен.
func (s *Service) Verify(ctx context.Context, c Credentials) (bool, error) {
	switch {
	case c.SessionID != "":
		return s.VerifySession(ctx, c.SessionID)
	case c.Access != "" && c.Email != "":
		return s.VerifyAccessToken(c.Access, c.Email, c.Epoch)
	default:
		return false, ErrNoCredential
	}
}

// VerifySession подтверждает оплату сессии. Ответ процессора не 2xx дает
// false без ошибки; сетевые ошибки и ошибки конфигурации возвращаются вызывающему.
func (s *Service) VerifySession(ctx context.Context, id string) (bool, error) {
	const op = "services.entitlement.VerifySession"
	log := s.log.With(sl.Op(op))

	session, err := s.sessions.CheckoutSession(ctx, id)
	switch {
	case errors.Is(err, paymentprovider.ErrUnexpectedStatus):
		log.Warn("payment processor rejected session lookup", sl.Err(err))
		metrics.EntitlementChecks.WithLabelValues("session", metrics.ResultInvalid).Inc()
		return false, nil
	case err != nil:
		metrics.EntitlementChecks.WithLabelValues("session", metrics.ResultError).Inc()
		return false, fmt.Errorf("%s: %w", op, err)
	}

	paid := session.Paid()
	metrics.EntitlementChecks.WithLabelValues("session", validLabel(paid)).Inc()
	log.Info("session verified", slog.Bool("paid", paid))
	return paid, nil
}

// VerifyAccessToken проверяет подписанную ссылку доступа.
func (s *Service) VerifyAccessToken(access, emailB64, epoch string) (bool, error) {
	const op = "services.entitlement.VerifyAccessToken"
	ok, err := s.tokens.Verify(access, emailB64, epoch)
	if err != nil {
		metrics.EntitlementChecks.WithLabelValues("token", metrics.ResultError).Inc()
		return false, fmt.Errorf("%s: %w", op, err)
	}
	metrics.EntitlementChecks.WithLabelValues("token", validLabel(ok)).Inc()
	return ok, nil
}

// VerifyCode сверяет код с разрешенным списком и активными праздниками.
func (s *Service) VerifyCode(code string) bool {
	cleaned := normalizeCode(code)
	if cleaned == "" {
		return false
	}

	valid := false
	if _, ok := s.codes[cleaned]; ok {
		valid = true
	} else if h, ok := s.ActiveHoliday(); ok && h.Code == cleaned {
		valid = true
	}

	metrics.EntitlementChecks.WithLabelValues("code", validLabel(valid)).Inc()
	return valid
}

// ActiveHoliday возвращает праздник, окно которого содержит текущую дату.
func (s *Service) ActiveHoliday() (Holiday, bool) {
	now := s.now()
	for _, h := range s.holidays {
		if h.Active(now) {
			return h, true
		}
	}
	return Holiday{}, false
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func validLabel(ok bool) string {
	if ok {
		return metrics.ResultValid
	}
	return metrics.ResultInvalid
}
