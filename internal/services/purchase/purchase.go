// Package purchase обрабатывает события платежного процессора о завершенных покупках
// и отправляет покупателю два письма: сразу и через неделю.
package purchase

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"time"

	"github.com/magabrotheeeer/notice/internal/lib/mailer"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
	"github.com/magabrotheeeer/notice/internal/lib/signature"
	"github.com/magabrotheeeer/notice/internal/paymentprovider"
)

const (
	// WelcomeSubject тема первого письма.
	WelcomeSubject = "here's how to play tonight"
	// FollowUpSubject тема второго письма.
	FollowUpSubject = "one more thing"
	// FollowUpDelay задержка второго письма.
	FollowUpDelay = 7 * 24 * time.Hour
	// NoEmail значение поля error, если в событии нет адреса покупателя.
	NoEmail = "no email"
)

var (
	// ErrNotConfigured почтовый транспорт не настроен.
	ErrNotConfigured = errors.New("mailer is not configured")
	// ErrInvalidSignature подпись тела не совпала.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrMalformedEvent тело не является JSON событием.
	ErrMalformedEvent = errors.New("malformed event")
)

var starters = []string{
	"Do you consider yourself a good influence or a bad influence?",
	"Name something beautiful that's within eyesight right now",
	"What was your childhood nickname?",
}

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// LinkIssuer выпускает подписанные ссылки повторного доступа.
type LinkIssuer interface {
	Link(siteURL, email string) (string, error)
}

// Result итог обработки события. Email1 и Email2 заполняются только если письма отправлялись.
type Result struct {
	Received bool   `json:"received"`
	Email1   *bool  `json:"email1,omitempty"`
	Email2   *bool  `json:"email2,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Service обработчик покупок.
type Service struct {
	log           *slog.Logger
	mailer        mailer.Mailer
	links         LinkIssuer
	webhookSecret string
	siteURL       string
	now           func() time.Time
}

// New создает Service. mailer может быть nil: тогда каждое событие отклоняется с ErrNotConfigured.
// Пустой webhookSecret отключает проверку подписи.
func New(log *slog.Logger, m mailer.Mailer, links LinkIssuer, webhookSecret, siteURL string) *Service {
	return &Service{
		log:           log,
		mailer:        m,
		links:         links,
		webhookSecret: webhookSecret,
		siteURL:       siteURL,
		now:           time.Now,
	}
}

// Handle проверяет и обрабатывает тело события. sigHeader значение заголовка подписи.
// Подпись проверяется только если заданы и секрет, и заголовок.
func (s *Service) Handle(ctx context.Context, body []byte, sigHeader string) (Result, error) {
	const op = "services.purchase.Handle"
	log := s.log.With(sl.Op(op))

	if s.mailer == nil {
		return Result{}, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	switch {
	case s.webhookSecret != "" && sigHeader != "":
		if !signature.VerifyWebhook(s.webhookSecret, body, sigHeader) {
			return Result{}, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
		}
	case s.webhookSecret != "":
		log.Warn("payment event without signature header accepted unverified")
	default:
		log.Warn("payment event accepted unverified: webhook secret is not set")
	}

	var event paymentprovider.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Result{}, fmt.Errorf("%s: %w: %w", op, ErrMalformedEvent, err)
	}

	if event.Type != paymentprovider.EventCheckoutCompleted {
		log.Info("ignored payment event", slog.String("type", event.Type))
		return Result{Received: true}, nil
	}

	email := event.Data.Object.Email()
	if email == "" {
		log.Error("no customer email in checkout session", slog.String("event_id", event.ID))
		return Result{Received: true, Error: NoEmail}, nil
	}
	log = log.With(slog.String("email", email))
	log.Info("purchase completed")

	sent1 := s.sendWelcome(ctx, log, email)
	sent2 := s.scheduleFollowUp(ctx, log, email)

	return Result{Received: true, Email1: &sent1, Email2: &sent2}, nil
}

func (s *Service) sendWelcome(ctx context.Context, log *slog.Logger, email string) bool {
	link := s.siteURL + "?success=true"
	if s.links != nil {
		signed, err := s.links.Link(s.siteURL, email)
		if err != nil {
			log.Warn("access link not issued, falling back to plain link", sl.Err(err))
		} else {
			link = signed
		}
	}

	html, err := s.render("welcome.html", link)
	if err != nil {
		log.Error("failed to render welcome email", sl.Err(err))
		return false
	}

	if err := s.mailer.Send(ctx, mailer.Message{To: []string{email}, Subject: WelcomeSubject, HTML: html}); err != nil {
		log.Error("welcome email failed", sl.Err(err))
		return false
	}
	log.Info("welcome email sent")
	return true
}

func (s *Service) scheduleFollowUp(ctx context.Context, log *slog.Logger, email string) bool {
	html, err := s.render("followup.html", "")
	if err != nil {
		log.Error("failed to render follow-up email", sl.Err(err))
		return false
	}

	at := s.now().Add(FollowUpDelay).UTC()
	err = s.mailer.Send(ctx, mailer.Message{To: []string{email}, Subject: FollowUpSubject, HTML: html, ScheduledAt: &at})
	if err != nil {
		log.Error("follow-up email failed", slog.Time("scheduled_at", at), sl.Err(err))
		return false
	}
	log.Info("follow-up email scheduled", slog.Time("scheduled_at", at))
	return true
}

type emailData struct {
	SiteURL    string
	SiteHost   string
	AccessLink string
	Starters   []string
}

func (s *Service) render(name, link string) (string, error) {
	host := s.siteURL
	if u, err := url.Parse(s.siteURL); err == nil && u.Host != "" {
		host = u.Host
	}

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, name, emailData{
		SiteURL:    s.siteURL,
		SiteHost:   host,
		AccessLink: link,
		Starters:   starters,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
