package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/magabrotheeeer/notice/internal/config"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
)

// SMTPClient интерфейс для SMTP клиента.
type SMTPClient interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer устанавливает аутентифицированное SMTP соединение.
type Dialer interface {
	Connect(ctx context.Context) (SMTPClient, error)
}

// SMTPMailer отправляет письма через SMTP. Отложенная отправка не поддерживается.
type SMTPMailer struct {
	dialer Dialer
	from   string
	log    *slog.Logger
}

// NewSMTPMailer создает SMTPMailer.
func NewSMTPMailer(dialer Dialer, from string, log *slog.Logger) *SMTPMailer {
	return &SMTPMailer{dialer: dialer, from: from, log: log}
}

// Send отправляет письмо.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	const op = "mailer.SMTPMailer.Send"
	if msg.ScheduledAt != nil {
		return fmt.Errorf("%s: %w", op, ErrSchedulingUnsupported)
	}
	from := msg.From
	if from == "" {
		from = m.from
	}
	if err := checkHeaders(from, msg.Subject, msg.To); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	raw := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(msg.To, ", "),
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		msg.HTML,
	}, "\r\n")

	client, err := m.dialer.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	if err := client.Mail(envelopeAddress(from)); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	for _, addr := range msg.To {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("%s: rcpt %s: %w", op, addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err = wc.Write([]byte(raw)); err != nil {
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("%s: close data: %w", op, err)
	}
	if err = client.Quit(); err != nil {
		m.log.Warn("failed to quit SMTP client", sl.Op(op), sl.Err(err))
	}
	return nil
}

// checkHeaders отклоняет значения, которые добавили бы в письмо новые строки заголовков.
func checkHeaders(from, subject string, to []string) error {
	values := append([]string{from, subject}, to...)
	for _, v := range values {
		if strings.ContainsAny(v, "\r\n") {
			return ErrHeaderInjection
		}
	}
	return nil
}

// envelopeAddress извлекает адрес из "Name <addr>".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}

// Transport реализует Dialer поверх net/smtp со STARTTLS и PLAIN-аутентификацией.
type Transport struct {
	cfg config.SMTP
	log *slog.Logger
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

// Connect устанавливает соединение с SMTP сервером.
func (t *Transport) Connect(ctx context.Context) (SMTPClient, error) {
	const op = "mailer.Transport.Connect"
	addr := net.JoinHostPort(t.cfg.Host, t.cfg.Port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			t.log.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fail := func(err error) (SMTPClient, error) {
		if closeErr := client.Close(); closeErr != nil {
			t.log.Error("failed to close client", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return fail(fmt.Errorf("smtp server does not support STARTTLS"))
	}
	if err = client.StartTLS(&tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
		return fail(fmt.Errorf("start tls: %w", err))
	}
	if err = client.Auth(smtp.PlainAuth("", t.cfg.User, t.cfg.Pass, t.cfg.Host)); err != nil {
		return fail(fmt.Errorf("auth: %w", err))
	}
	return client, nil
}
