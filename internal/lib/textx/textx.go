// Package textx содержит операции над пользовательским текстом.
package textx

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// Len длина строки в UTF-16 кодовых единицах, как ее считает браузер.
func Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// Truncate обрезает строку до n символов.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SingleLine заменяет управляющие символы, включая CR и LF, пробелами.
func SingleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
