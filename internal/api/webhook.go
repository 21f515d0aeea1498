package telegram

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// maxUpdateSize ограничение на тело webhook-запроса
	maxUpdateSize = 1 << 20

	// SecretHeader заголовок, в котором Telegram повторяет secret_token
	SecretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// RegisterWebhook устанавливает webhook вместе с secret_token.
// tgbotapi.WebhookConfig в v5.5.1 не передаёт secret_token.
func RegisterWebhook(api RawRequester, endpoint, secret string) error {
	params := make(tgbotapi.Params)
	params["url"] = endpoint
	params["secret_token"] = secret

	if _, err := api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// WebhookServer принимает обновления от Telegram и отдаёт метрики
type WebhookServer struct {
	bot    *Bot
	secret []byte
	server *http.Server
	log    *slog.Logger
}

// NewWebhookServer создаёт HTTP-сервер с webhook, /metrics и /healthz.
// Обновления без заголовка с secret отклоняются.
func NewWebhookServer(bot *Bot, addr, webhookPath, metricsPath, secret string, log *slog.Logger) *WebhookServer {
	if log == nil {
		log = slog.Default()
	}
	s := &WebhookServer{
		bot:    bot,
		secret: []byte(secret),
		log:    log.With("component", "webhook"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+webhookPath, s.handleUpdate)
	mux.Handle("GET "+metricsPath, promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler возвращает корневой обработчик сервера
func (s *WebhookServer) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe обслуживает запросы до отмены ctx, затем дожидается
// обработки принятых обновлений.
func (s *WebhookServer) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.server.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.bot.Wait()
	return err
}

func (s *WebhookServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.log.Warn("webhook request without valid secret", "remote_addr", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateSize))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	// Отвечаем сразу, обработка идёт в фоне, иначе Telegram повторит запрос.
	if err := s.bot.HandleWebhook(r.Context(), body); err != nil {
		s.log.Warn("bad update", "error", err)
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// authorized сверяет заголовок с secret. Пустой secret не пропускает никого.
func (s *WebhookServer) authorized(r *http.Request) bool {
	got := []byte(r.Header.Get(SecretHeader))
	return len(s.secret) > 0 && subtle.ConstantTimeCompare(got, s.secret) == 1
}
