// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Для nil возвращает пустое значение, чтобы логирование не паниковало
// на путях, где upstream-ошибка опциональна.
//
// Пример:
//
//	log.Error("relay delivery failed", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Op возвращает атрибут операции в едином формате для всех пакетов.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
