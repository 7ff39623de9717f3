// Package prompthash вычисляет короткий стабильный ключ текста промпта.
//
// Хэш не криптографический: это ключ для отображения счетчиков голосов,
// коллизии допустимы. Значения совпадают с клиентской реализацией, поэтому
// хэш считается по UTF-16 кодовым единицам в 32-битной арифметике.
package prompthash

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// Normalize приводит текст к виду, по которому считается хэш.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Hash возвращает ключ вида "p<base36>".
func Hash(text string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(Normalize(text))) {
		h = h*31 + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return "p" + strconv.FormatInt(abs, 36)
}
