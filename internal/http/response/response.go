// Package response содержит формы JSON-ответов HTTP-обработчиков.
// Тела ответов короткие и фиксированные, подробности пишутся в лог.
package response

import (
	"github.com/go-playground/validator"
)

// Фиксированные тексты ошибок.
const (
	MsgInvalidRequest    = "Invalid request"
	MsgMethodNotAllowed  = "Method not allowed"
	MsgTooManyRequests   = "Too many requests"
	MsgProcessingError   = "Processing error"
	MsgServerConfigError = "Server configuration error"
	MsgInvalidSignature  = "Invalid signature"
	MsgInvalidPrompt     = "Invalid prompt"
	MsgInvalidDirection  = "Invalid direction"
	MsgInvalidEmail      = "Invalid email"
	MsgPromptTooShort    = "Prompt too short"
)

// ValidResponse ответ проверки доступа.
type ValidResponse struct {
	Valid bool `json:"valid" example:"true"`
}

// ErrorResponse ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid request"`
}

// SuccessResponse ответ об успешном приеме данных.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// Valid возвращает ответ проверки доступа.
func Valid(ok bool) ValidResponse {
	return ValidResponse{Valid: ok}
}

// Error возвращает ответ с ошибкой msg.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Success возвращает {"success":true}.
func Success() SuccessResponse {
	return SuccessResponse{Success: true}
}

// ValidationError формирует ответ по первому нарушению. messages сопоставляет
// имя поля структуры с текстом ошибки; для неизвестных полей используется MsgInvalidRequest.
func ValidationError(errs validator.ValidationErrors, messages map[string]string) ErrorResponse {
	for _, err := range errs {
		if msg, ok := messages[err.Field()]; ok {
			return Error(msg)
		}
	}
	return Error(MsgInvalidRequest)
}
