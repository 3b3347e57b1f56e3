// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель: упростить формирование структурированных полей лога,
// например, для передачи информации об ошибках.
package sl

import "log/slog"

// Redacted значение, которое пишется в лог вместо секрета.
const Redacted = "[REDACTED]"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Удобно использовать в логировании для единообразного вывода ошибок.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret возвращает slog.Attr, в котором значение секрета заменено на Redacted.
// Пустой секрет остаётся пустым, чтобы в логе было видно его отсутствие.
//
//	log.Debug("intent created", sl.Secret("client_secret", secret))
func Secret(key, value string) slog.Attr {
	if value == "" {
		return slog.String(key, "")
	}
	return slog.String(key, Redacted)
}
