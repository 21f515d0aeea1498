package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"admission-bot/config"
	telegram "admission-bot/internal/api"
	app "admission-bot/internal/application"
	"admission-bot/internal/container"
	"admission-bot/internal/domain/entity"
	"admission-bot/internal/infrastructure/storage"
)

// apiTimeout больше таймаута long polling, иначе getUpdates обрывается.
const apiTimeout = 75 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "admission-bot",
		Short:        "Telegram bot that collects join requests and hands out one-time invite links",
		SilenceUsage: true,
	}

	root.AddCommand(newPollCmd(), newWebhookCmd())
	return root
}

// service собранные зависимости процесса
type service struct {
	cfg *config.Config
	log *slog.Logger
	api *tgbotapi.BotAPI
	bot *telegram.Bot
}

func setup() (*service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	api, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramToken, tgbotapi.APIEndpoint, &http.Client{Timeout: apiTimeout})
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Debug

	log.Info("authorized", "account", api.Self.UserName, "moderators", len(cfg.AdminIDs))

	gateway := telegram.NewGateway(api, rate.NewLimiter(rate.Limit(cfg.SendRate), cfg.SendBurst), log)

	// Сессии и отметки живут в памяти процесса.
	appContainer := container.New(container.Deps{
		Sessions:   storage.NewMemorySessionRepository(),
		Gate:       storage.NewMemoryAdmissionGate(),
		Messenger:  gateway,
		Issuer:     gateway,
		Moderators: entity.NewModeratorSet(cfg.AdminIDs...),
		Policy: app.DecisionPolicy{
			ChannelID:     cfg.ChannelID,
			InviteTTL:     cfg.InviteTTL,
			IssueTimeout:  cfg.IssueTimeout,
			IssueAttempts: cfg.IssueAttempts,
			IssueBackoff:  cfg.IssueBackoff,
		},
		Logger: log,
	})

	return &service{
		cfg: cfg,
		log: log,
		api: api,
		bot: telegram.NewBot(appContainer, log),
	}, nil
}
