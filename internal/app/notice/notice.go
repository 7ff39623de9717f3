// Package notice собирает HTTP-приложение: подключения к внешним сервисам,
// сервисы предметной области и маршруты.
package notice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/notice/internal/cache"
	"github.com/magabrotheeeer/notice/internal/config"
	"github.com/magabrotheeeer/notice/internal/lib/accesstoken"
	"github.com/magabrotheeeer/notice/internal/lib/mailer"
	"github.com/magabrotheeeer/notice/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/notice/internal/lib/ratelimit"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
	"github.com/magabrotheeeer/notice/internal/paymentprovider"
	"github.com/magabrotheeeer/notice/internal/services/entitlement"
	"github.com/magabrotheeeer/notice/internal/services/purchase"
	"github.com/magabrotheeeer/notice/internal/services/relay"
	"github.com/magabrotheeeer/notice/internal/services/votes"
	"github.com/magabrotheeeer/notice/internal/storage/redisstore"
)

const (
	shutdownTimeout = 15 * time.Second
	amqpRetries     = 3
	amqpRetryDelay  = 2 * time.Second
)

// App HTTP-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	redis  *redis.Client
	amqp   *amqp.Connection
}

// Services сервисы, на которые опираются маршруты.
type Services struct {
	Entitlement *entitlement.Service
	Votes       *votes.Service
	Relay       *relay.Service
	Purchase    *purchase.Service
	Limiter     *ratelimit.Limiter
	Health      *cache.Cache
}

// New создает App. Недоступность redis или брокера не мешает старту:
// соответствующие функции деградируют.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	app := &App{logger: logger}

	var (
		voteStore votes.Store
		snapshots votes.SnapshotCache
		health    *cache.Cache
	)
	if cfg.Redis.Address != "" {
		app.redis = cache.NewClient(cfg.Redis)
		if err := app.redis.Ping(ctx).Err(); err != nil {
			logger.Warn("redis is unreachable, votes degrade until it recovers", sl.Err(err))
		}
		health = cache.New(app.redis)
		voteStore = redisstore.NewVoteStore(app.redis)
		snapshots = health
	}

	var analytics relay.Analytics
	if cfg.RabbitMQ.URL != "" {
		publisher, conn, err := connectAnalytics(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Warn("analytics sink disabled", sl.Err(err))
		} else {
			app.amqp = conn
			analytics = publisher
		}
	}

	m := newMailer(cfg, logger)
	tokens := accesstoken.New(cfg.AccessToken.Secret, cfg.AccessToken.WindowMonths, nil)
	provider := paymentprovider.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.APIURL, cfg.HTTPClient.Timeout)

	sinks := relay.Sinks{Mailer: m, Analytics: analytics}
	if cfg.Sheet.WebhookURL != "" {
		sinks.Sheet = relay.NewSheetClient(cfg.Sheet.WebhookURL, cfg.Sheet.Secret, cfg.HTTPClient.Timeout)
	}
	if cfg.Email.NewsletterAPIKey != "" {
		sinks.Newsletter = relay.NewNewsletterClient(cfg.Email.NewsletterAPIKey, cfg.Email.NewsletterURL, cfg.HTTPClient.Timeout)
	}
	relayService := relay.New(logger, sinks, cfg.Email.NotifyTo)

	services := Services{
		Entitlement: entitlement.New(logger, provider, tokens, cfg.Codes(), entitlement.DefaultHolidays, nil),
		Votes:       votes.New(logger, voteStore, snapshots, relayService),
		Relay:       relayService,
		Purchase:    purchase.New(logger, m, tokens, cfg.Stripe.WebhookSecret, cfg.AccessToken.SiteURL),
		Limiter:     ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.SystemClock()),
		Health:      health,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.RateLimit, services)

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

// newMailer выбирает почтовый транспорт: API, затем SMTP. Возвращает nil, если ни один не настроен.
func newMailer(cfg *config.Config, logger *slog.Logger) mailer.Mailer {
	switch {
	case cfg.Email.APIKey != "":
		return mailer.NewAPIMailer(cfg.Email.APIKey, cfg.Email.APIURL, cfg.Email.From, cfg.HTTPClient.Timeout)
	case cfg.SMTP.Host != "":
		logger.Info("using SMTP mailer, scheduled emails are not supported", slog.String("host", cfg.SMTP.Host))
		return mailer.NewSMTPMailer(mailer.NewTransport(cfg.SMTP, logger), cfg.Email.From, logger)
	default:
		return nil
	}
}

func connectAnalytics(url string) (*rabbitmq.Publisher, *amqp.Connection, error) {
	conn, err := rabbitmq.Connect(url, amqpRetries, amqpRetryDelay)
	if err != nil {
		return nil, nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.Queues())
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return rabbitmq.NewPublisher(ch, rabbitmq.Exchange), conn, nil
}

// Handler возвращает корневой обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и корректно останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
}
