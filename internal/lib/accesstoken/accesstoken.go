// Package accesstoken выпускает и проверяет подписанные ссылки повторного доступа.
//
// Токен это тройка (email, эпоха-месяц, подпись). Текущая форма подписывает
// строку "email:epoch", устаревшая подписывает только email. Токены не
// отзываются: проверка полностью stateless.
package accesstoken

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/magabrotheeeer/notice/internal/lib/signature"
)

// MonthMillis длина "месяца" эпохи в миллисекундах.
const MonthMillis int64 = 1000 * 60 * 60 * 24 * 30

// DefaultWindowMonths допустимое отклонение эпохи токена от текущей.
const DefaultWindowMonths = 120

var (
	// ErrNotConfigured секрет подписи не задан.
	ErrNotConfigured = errors.New("access token secret is not configured")
	// ErrBadEmail email в ссылке не декодируется из base64.
	ErrBadEmail = errors.New("access token email is not valid base64")
)

// Epoch возвращает номер эпохи-месяца для момента t.
func Epoch(t time.Time) int64 {
	ms := t.UnixMilli()
	e := ms / MonthMillis
	if ms < 0 && ms%MonthMillis != 0 {
		e--
	}
	return e
}

// Token параметры ссылки доступа в том виде, в котором они попадают в URL.
type Token struct {
	Access string // hex HMAC
	Email  string // base64(email)
	Epoch  int64
}

// Query возвращает параметры access, e и t.
func (t Token) Query() url.Values {
	return url.Values{
		"access": {t.Access},
		"e":      {t.Email},
		"t":      {strconv.FormatInt(t.Epoch, 10)},
	}
}

// Manager выпускает и проверяет токены.
type Manager struct {
	secret string
	window int64
	now    func() time.Time
}

// New создает Manager. windowMonths <= 0 заменяется значением по умолчанию,
// now == nil означает time.Now.
func New(secret string, windowMonths int, now func() time.Time) *Manager {
	if windowMonths <= 0 {
		windowMonths = DefaultWindowMonths
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{secret: secret, window: int64(windowMonths), now: now}
}

// Configured сообщает, задан ли секрет.
func (m *Manager) Configured() bool {
	return m.secret != ""
}

// Sign выпускает токен текущей формы для email.
func (m *Manager) Sign(email string) (Token, error) {
	if !m.Configured() {
		return Token{}, ErrNotConfigured
	}
	epoch := Epoch(m.now())
	return Token{
		Access: signature.Sign(m.secret, fmt.Sprintf("%s:%d", email, epoch)),
		Email:  base64.StdEncoding.EncodeToString([]byte(email)),
		Epoch:  epoch,
	}, nil
}

// Link строит ссылку повторного доступа на базе siteURL.
func (m *Manager) Link(siteURL, email string) (string, error) {
	const op = "accesstoken.Link"
	tok, err := m.Sign(email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	u, err := url.Parse(siteURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	u.RawQuery = tok.Query().Encode()
	return u.String(), nil
}

// Verify проверяет параметры ссылки. epoch пустой для устаревших токенов.
// Ошибка возвращается только для неверной конфигурации или битого email;
// неверная подпись, непарсящаяся или просроченная эпоха дают false без ошибки.
func (m *Manager) Verify(access, emailB64, epoch string) (bool, error) {
	const op = "accesstoken.Verify"
	if !m.Configured() {
		return false, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	email, err := decodeEmail(emailB64)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if epoch == "" {
		return signature.Verify(m.secret, email, access), nil
	}

	e, ok := parseEpoch(epoch)
	if !ok {
		return false, nil
	}
	diff := Epoch(m.now()) - e
	if diff < 0 {
		diff = -diff
	}
	if diff > m.window {
		return false, nil
	}
	return signature.Verify(m.secret, fmt.Sprintf("%s:%d", email, e), access), nil
}

// parseEpoch разбирает десятичный префикс как parseInt(s, 10) в браузере:
// ведущие пробелы и знак допускаются, хвост после цифр отбрасывается ("123x" -> 123).
func parseEpoch(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	e, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return e, true
}

func decodeEmail(s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// atob-совместимость: padding может быть опущен
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return "", ErrBadEmail
		}
	}
	return string(raw), nil
}
