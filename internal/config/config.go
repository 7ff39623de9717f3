// Package config предоставляет структуры и функции для загрузки конфигурации сервиса.
//
// Конфиг читается один раз при старте процесса: из yaml-файла по пути CONFIG_PATH
// (переменные окружения переопределяют значения файла) либо только из окружения.
// Все интеграции опциональны: отсутствие ключа переводит соответствующую функцию
// в режим no-op/логирования, см. Warnings.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env         string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer  HTTPServer      `yaml:"http_server"`
	HTTPClient  HTTPClient      `yaml:"http_client"`
	Redis       RedisConnection `yaml:"redis_connection"`
	Stripe      Stripe          `yaml:"stripe"`
	AccessToken AccessToken     `yaml:"access_token"`
	Email       Email           `yaml:"email"`
	SMTP        SMTP            `yaml:"smtp"`
	Sheet       Sheet           `yaml:"sheet"`
	RabbitMQ    RabbitMQ        `yaml:"rabbitmq"`
	RateLimit   RateLimit       `yaml:"rate_limit"`
	// UnlockCodes список промокодов через запятую, например "becauseis,iloveyou"
	UnlockCodes string `yaml:"unlock_codes" env:"UNLOCK_CODES"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// HTTPClient настройки исходящих запросов к внешним API
type HTTPClient struct {
	Timeout time.Duration `yaml:"timeout" env:"HTTP_CLIENT_TIMEOUT" env-default:"10s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	Address     string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db" env:"REDIS_DB"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// Stripe настройки платежного процессора
type Stripe struct {
	SecretKey     string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	APIURL        string `yaml:"api_url" env:"STRIPE_API_URL" env-default:"https://api.stripe.com"`
}

// AccessToken настройки подписанных ссылок повторного доступа
type AccessToken struct {
	Secret       string `yaml:"secret" env:"ACCESS_TOKEN_SECRET"`
	WindowMonths int    `yaml:"window_months" env:"ACCESS_TOKEN_WINDOW_MONTHS" env-default:"120"`
	SiteURL      string `yaml:"site_url" env:"SITE_URL" env-default:"https://playnotice.com"`
}

// Email настройки транзакционной почты и рассылки
type Email struct {
	APIKey           string `yaml:"api_key" env:"RESEND_API_KEY"`
	APIURL           string `yaml:"api_url" env:"EMAIL_API_URL" env-default:"https://api.resend.com"`
	From             string `yaml:"from" env:"EMAIL_FROM" env-default:"Notice <notice@playnotice.com>"`
	NotifyTo         string `yaml:"notify_to" env:"NOTIFY_EMAIL"`
	NewsletterAPIKey string `yaml:"newsletter_api_key" env:"BUTTONDOWN_API_KEY"`
	NewsletterURL    string `yaml:"newsletter_url" env:"BUTTONDOWN_API_URL" env-default:"https://api.buttondown.email"`
}

// SMTP запасной почтовый транспорт, используется если не задан APIKey
type SMTP struct {
	Host string `yaml:"host" env:"SMTP_HOST"`
	Port string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User string `yaml:"user" env:"SMTP_USER"`
	Pass string `yaml:"pass" env:"SMTP_PASS"`
}

// Sheet настройки вебхука таблицы
type Sheet struct {
	WebhookURL string `yaml:"webhook_url" env:"GOOGLE_SHEET_WEBHOOK"`
	Secret     string `yaml:"secret" env:"GOOGLE_SHEET_SECRET"`
}

// RabbitMQ настройки аналитического приемника событий
type RabbitMQ struct {
	URL string `yaml:"url" env:"RABBITMQ_URL"`
}

// RateLimit настройки общего ограничителя на процесс. 0 отключает ограничитель.
type RateLimit struct {
	GlobalRPS   float64 `yaml:"global_rps" env:"RATE_LIMIT_GLOBAL_RPS"`
	GlobalBurst int     `yaml:"global_burst" env:"RATE_LIMIT_GLOBAL_BURST"`
}

// MustLoad загружает конфиг и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла path (если задан) и переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Codes разбирает UnlockCodes в список нормализованных кодов без пустых значений.
func (c *Config) Codes() []string {
	var codes []string
	for _, raw := range strings.Split(c.UnlockCodes, ",") {
		code := strings.ToLower(strings.TrimSpace(raw))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// MailerConfigured сообщает, доступен ли хотя бы один почтовый транспорт.
func (c *Config) MailerConfigured() bool {
	return c.Email.APIKey != "" || c.SMTP.Host != ""
}

// Warnings перечисляет функции, работающие в деградированном режиме.
func (c *Config) Warnings() []string {
	var warns []string
	if c.Stripe.WebhookSecret == "" {
		warns = append(warns, "STRIPE_WEBHOOK_SECRET is not set: payment events are accepted WITHOUT signature verification")
	}
	if c.Stripe.SecretKey == "" {
		warns = append(warns, "STRIPE_SECRET_KEY is not set: session verification answers 500")
	}
	if c.AccessToken.Secret == "" {
		warns = append(warns, "ACCESS_TOKEN_SECRET is not set: access links cannot be verified or issued")
	}
	if c.Redis.Address == "" {
		warns = append(warns, "REDIS_ADDRESS is not set: votes are not stored")
	}
	if !c.MailerConfigured() {
		warns = append(warns, "no mailer configured: purchase receiver answers 500")
	}
	if c.Sheet.WebhookURL == "" && c.Email.NewsletterAPIKey == "" {
		warns = append(warns, "no relay sink configured: subscribers and prompts are only logged")
	}
	if len(c.Codes()) == 0 {
		warns = append(warns, "UNLOCK_CODES is empty: only holiday codes unlock")
	}
	return warns
}

func mask(s string) string {
	if s == "" {
		return "<empty>"
	}
	return "***"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Redis:\n"+
			"  Address: %s\n"+
			"  Password: %s\n"+
			"  DB: %d\n"+
			"Stripe:\n"+
			"  SecretKey: %s\n"+
			"  WebhookSecret: %s\n"+
			"AccessToken:\n"+
			"  Secret: %s\n"+
			"  WindowMonths: %d\n"+
			"Email:\n"+
			"  APIKey: %s\n"+
			"  NotifyTo: %s\n"+
			"Sheet:\n"+
			"  WebhookURL: %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n",
		c.Env,
		c.HTTPServer.Address,
		c.HTTPServer.Timeout,
		c.HTTPServer.IdleTimeout,
		c.Redis.Address,
		mask(c.Redis.Password),
		c.Redis.DB,
		mask(c.Stripe.SecretKey),
		mask(c.Stripe.WebhookSecret),
		mask(c.AccessToken.Secret),
		c.AccessToken.WindowMonths,
		mask(c.Email.APIKey),
		c.Email.NotifyTo,
		c.Sheet.WebhookURL,
		mask(c.RabbitMQ.URL),
	)
}
