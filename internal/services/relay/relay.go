// Package relay пересылает захваченные данные (подписчиков, промпты, отзывы о голосах)
// во внешние приемники. Ошибки доставки логируются и никогда не возвращаются вызывающему.
package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/notice/internal/lib/mailer"
	"github.com/magabrotheeeer/notice/internal/lib/metrics"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
	"github.com/magabrotheeeer/notice/internal/lib/textx"
	"github.com/magabrotheeeer/notice/internal/models"
)

const (
	// MinPromptLen минимальная длина промпта после обрезки пробелов.
	MinPromptLen = 5
	// MaxPromptLen длина, до которой обрезается промпт.
	MaxPromptLen = 280
	// MaxNameLen длина, до которой обрезается имя автора.
	MaxNameLen = 60
	// DefaultName имя автора по умолчанию.
	DefaultName = "anonymous"
)

// Имена приемников в метриках.
const (
	SinkSheet      = "sheet"
	SinkNewsletter = "newsletter"
	SinkEmail      = "email"
	SinkAMQP       = "amqp"
)

var (
	// ErrInvalidEmail адрес не содержит "@" или ".".
	ErrInvalidEmail = errors.New("invalid email")
	// ErrPromptTooShort промпт короче MinPromptLen.
	ErrPromptTooShort = errors.New("prompt too short")
)

// Sheet вебхук таблицы.
type Sheet interface {
	Post(ctx context.Context, event models.RelayEvent) error
}

// Newsletter сервис рассылки.
type Newsletter interface {
	Subscribe(ctx context.Context, email, tag string) error
}

// Analytics брокер аналитических событий.
type Analytics interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Sinks приемники ретранслятора. Любое поле может быть nil.
type Sinks struct {
	Sheet      Sheet
	Newsletter Newsletter
	Mailer     mailer.Mailer
	Analytics  Analytics
}

// Service ретранслятор уведомлений.
type Service struct {
	log      *slog.Logger
	sinks    Sinks
	notifyTo string
	now      func() time.Time
}

// New создает Service. notifyTo получатель уведомлений о новых промптах.
func New(log *slog.Logger, sinks Sinks, notifyTo string) *Service {
	return &Service{
		log:      log,
		sinks:    sinks,
		notifyTo: notifyTo,
		now:      time.Now,
	}
}

// Publish доставляет событие в таблицу и брокер. Отсутствие приемников только логируется.
func (s *Service) Publish(ctx context.Context, event models.RelayEvent) {
	const op = "services.relay.Publish"
	log := s.log.With(sl.Op(op), slog.String("source", event.Source))
	ctx = context.WithoutCancel(ctx)

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	log = log.With(slog.String("event_id", event.ID))

	if s.sinks.Sheet == nil && s.sinks.Analytics == nil {
		log.Info("relay event not stored: no sink configured")
		return
	}

	if s.sinks.Sheet != nil {
		err := s.sinks.Sheet.Post(ctx, event)
		s.record(log, SinkSheet, err)
	}
	if s.sinks.Analytics != nil {
		err := s.sinks.Analytics.Publish(ctx, event.Kind(), event)
		s.record(log, SinkAMQP, err)
	}
}

// Subscribe проверяет адрес и пересылает подписчика в таблицу и рассылку.
func (s *Service) Subscribe(ctx context.Context, sub models.Subscriber) error {
	const op = "services.relay.Subscribe"
	log := s.log.With(sl.Op(op))

	email := strings.TrimSpace(sub.Email)
	if !ValidEmail(email) {
		return fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}
	source := sub.Source
	if source == "" {
		source = models.SourceWebsite
	}

	if s.sinks.Sheet == nil && s.sinks.Analytics == nil && s.sinks.Newsletter == nil {
		log.Info("new subscriber: no storage configured", slog.String("email", email), slog.String("source", source))
		return nil
	}

	s.Publish(ctx, models.RelayEvent{Source: source, Email: email})

	if s.sinks.Newsletter != nil {
		err := s.sinks.Newsletter.Subscribe(context.WithoutCancel(ctx), email, source)
		s.record(log, SinkNewsletter, err)
	}
	return nil
}

// SubmitPrompt нормализует промпт игрока, пересылает его в таблицу
// и отправляет уведомление владельцу.
func (s *Service) SubmitPrompt(ctx context.Context, sub models.PromptSubmission) error {
	const op = "services.relay.SubmitPrompt"
	log := s.log.With(sl.Op(op))

	prompt := strings.TrimSpace(sub.Prompt)
	if textx.Len(prompt) < MinPromptLen {
		return fmt.Errorf("%s: %w", op, ErrPromptTooShort)
	}
	prompt = textx.Truncate(prompt, MaxPromptLen)

	name := strings.TrimSpace(textx.SingleLine(sub.Name))
	if name == "" {
		name = DefaultName
	}
	name = textx.Truncate(name, MaxNameLen)

	event := models.RelayEvent{
		ID:        uuid.NewString(),
		Source:    models.SourceSubmitPage,
		Timestamp: s.now().UTC(),
		Prompt:    prompt,
		Name:      name,
	}

	notify := s.sinks.Mailer != nil && s.notifyTo != ""
	if s.sinks.Sheet == nil && s.sinks.Analytics == nil && !notify {
		log.Info("prompt submission: no storage configured", slog.String("prompt", prompt), slog.String("name", name))
		return nil
	}

	s.Publish(ctx, event)

	if notify {
		err := s.notifyOwner(context.WithoutCancel(ctx), event)
		s.record(log, SinkEmail, err)
	}
	return nil
}

func (s *Service) notifyOwner(ctx context.Context, event models.RelayEvent) error {
	var buf bytes.Buffer
	if err := submissionTemplate.Execute(&buf, event); err != nil {
		return err
	}
	return s.sinks.Mailer.Send(ctx, mailer.Message{
		To:      []string{s.notifyTo},
		Subject: "new prompt submission: " + event.Name,
		HTML:    buf.String(),
	})
}

func (s *Service) record(log *slog.Logger, sink string, err error) {
	metrics.RelayDeliveries.WithLabelValues(sink, metrics.Result(err == nil)).Inc()
	if err != nil {
		log.Error("relay delivery failed", slog.String("sink", sink), sl.Err(err))
	}
}

// ValidEmail упрощенная проверка адреса: непустой и содержит "@" и ".".
func ValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@") && strings.Contains(email, ".")
}

var submissionTemplate = template.Must(template.New("submission").Parse(`
<div style="background:#0a0a0a;padding:40px 24px;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',system-ui,sans-serif;">
  <div style="max-width:480px;margin:0 auto;">
    <p style="color:rgba(255,255,255,0.25);font-size:11px;letter-spacing:0.15em;margin-bottom:24px;">notice: prompt submission</p>
    <div style="border-left:2px solid #d4a056;padding-left:16px;margin-bottom:24px;">
      <p style="color:rgba(255,255,255,0.6);font-size:16px;font-weight:300;font-style:italic;line-height:1.6;margin:0;">"{{.Prompt}}"</p>
    </div>
    <p style="color:rgba(255,255,255,0.3);font-size:13px;font-weight:300;">
      submitted by: {{.Name}}<br/>
      {{.Timestamp.Format "2006-01-02T15:04:05Z07:00"}}
    </p>
  </div>
</div>`))
