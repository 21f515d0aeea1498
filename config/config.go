package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string  `env:"BOT_TOKEN,required,notEmpty"`
	ChannelID     int64   `env:"CHANNEL_ID,required"`
	AdminIDs      []int64 `env:"ADMIN_IDS,required" envSeparator:","`
	Debug         bool    `env:"BOT_DEBUG" envDefault:"false"`

	WebhookURL  string `env:"WEBHOOK_URL"`
	WebhookPath string `env:"WEBHOOK_PATH" envDefault:"/webhook"`
	ListenAddr  string `env:"LISTEN_ADDR"  envDefault:":8080"`
	MetricsPath string `env:"METRICS_PATH" envDefault:"/metrics"`

	// Telegram присылает его в X-Telegram-Bot-Api-Secret-Token.
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	InviteTTL     time.Duration `env:"INVITE_TTL"     envDefault:"24h"`
	IssueTimeout  time.Duration `env:"ISSUE_TIMEOUT"  envDefault:"10s"`
	IssueAttempts uint          `env:"ISSUE_ATTEMPTS" envDefault:"3"`
	IssueBackoff  time.Duration `env:"ISSUE_BACKOFF"  envDefault:"500ms"`

	// Исходящие сообщения в секунду; Telegram режет около 30.
	SendRate  float64 `env:"SEND_RATE"  envDefault:"25"`
	SendBurst int     `env:"SEND_BURST" envDefault:"5"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return Parse(nil)
}

// Parse разбирает конфигурацию из окружения процесса или из переданной карты.
func Parse(environment map[string]string) (*Config, error) {
	var cfg Config

	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет значения, которые нельзя выразить тегами.
func (c *Config) Validate() error {
	if len(c.AdminIDs) == 0 {
		return errors.New("ADMIN_IDS must list at least one moderator")
	}
	if c.ChannelID == 0 {
		return errors.New("CHANNEL_ID must be set")
	}
	if c.InviteTTL <= 0 {
		return errors.New("INVITE_TTL must be positive")
	}
	if c.SendRate <= 0 {
		return errors.New("SEND_RATE must be positive")
	}
	if !strings.HasPrefix(c.WebhookPath, "/") {
		return fmt.Errorf("WEBHOOK_PATH must start with /: %q", c.WebhookPath)
	}
	if c.WebhookSecret != "" && !validSecretToken(c.WebhookSecret) {
		return errors.New("WEBHOOK_SECRET must be 1-256 characters of A-Z, a-z, 0-9, _ and -")
	}
	return nil
}

// validSecretToken проверяет ограничения Bot API на secret_token.
func validSecretToken(s string) bool {
	if len(s) > 256 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// WebhookEndpoint полный адрес, который регистрируется в Telegram.
// Без WEBHOOK_SECRET webhook не поднимается: иначе обновления может
// прислать кто угодно.
func (c *Config) WebhookEndpoint() (string, error) {
	if c.WebhookURL == "" {
		return "", errors.New("WEBHOOK_URL is required in webhook mode")
	}
	if c.WebhookSecret == "" {
		return "", errors.New("WEBHOOK_SECRET is required in webhook mode")
	}
	return strings.TrimRight(c.WebhookURL, "/") + c.WebhookPath, nil
}

// SlogLevel уровень логирования из LOG_LEVEL.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
