package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	telegram "admission-bot/internal/api"
)

func newPollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Receive updates with long polling",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := setup()
			if err != nil {
				return err
			}

			// getUpdates не работает, пока установлен webhook.
			if _, err := rt.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
				return fmt.Errorf("delete webhook: %w", err)
			}

			rt.log.Info("bot is running", "mode", "poll")
			err = rt.bot.Run(ctx, rt.api)
			rt.log.Info("bot stopped")
			return err
		},
	}
}

func newWebhookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "webhook",
		Short: "Receive updates on an HTTP webhook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := setup()
			if err != nil {
				return err
			}

			endpoint, err := rt.cfg.WebhookEndpoint()
			if err != nil {
				return err
			}

			if err := telegram.RegisterWebhook(rt.api, endpoint, rt.cfg.WebhookSecret); err != nil {
				return err
			}

			server := telegram.NewWebhookServer(
				rt.bot,
				rt.cfg.ListenAddr,
				rt.cfg.WebhookPath,
				rt.cfg.MetricsPath,
				rt.cfg.WebhookSecret,
				rt.log,
			)

			rt.log.Info("bot is running", "mode", "webhook", "endpoint", endpoint)
			err = server.ListenAndServe(ctx)
			rt.log.Info("bot stopped")
			return err
		},
	}
}
