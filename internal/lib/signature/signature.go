// Package signature содержит проверку HMAC-SHA256 подписей: подписи вебхуков
// платежного процессора и подписи ссылок доступа.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Sign возвращает hex-представление HMAC-SHA256(secret, message).
func Sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// Equal сравнивает строки за время, не зависящее от позиции первого различия.
// Строки разной длины отклоняются сразу: длина подписи не секрет.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Verify проверяет, что sig является подписью message ключом secret.
func Verify(secret, message, sig string) bool {
	return Equal(Sign(secret, message), sig)
}

// Header разобранный заголовок подписи вида t=<unix>,v1=<hex>[,v1=<hex>...].
type Header struct {
	Timestamp  string
	Signatures []string
}

// ParseHeader разбирает заголовок подписи вебхука. Неизвестные ключи игнорируются.
func ParseHeader(value string) Header {
	var h Header
	for _, part := range strings.Split(value, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "t":
			h.Timestamp = val
		case "v1":
			h.Signatures = append(h.Signatures, val)
		}
	}
	return h
}

// VerifyWebhook проверяет подпись тела вебхука: HMAC считается от строки
// "{t}.{body}" и должен совпасть с любым из значений v1.
// Свежесть метки времени не проверяется.
func VerifyWebhook(secret string, body []byte, header string) bool {
	h := ParseHeader(header)
	expected := Sign(secret, h.Timestamp+"."+string(body))
	for _, sig := range h.Signatures {
		if Equal(expected, sig) {
			return true
		}
	}
	return false
}
