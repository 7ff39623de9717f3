// Package mailer отправляет транзакционные письма через HTTP API почтового
// сервиса или, если ключ API не задан, через SMTP.
package mailer

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSchedulingUnsupported транспорт не умеет отложенную отправку.
	ErrSchedulingUnsupported = errors.New("scheduled delivery is not supported by this transport")
	// ErrHeaderInjection значение заголовка содержит перевод строки.
	ErrHeaderInjection = errors.New("header value contains CR or LF")
)

// Message письмо.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	// ScheduledAt время отложенной отправки, nil для немедленной.
	ScheduledAt *time.Time
}

// Mailer транспорт писем.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
