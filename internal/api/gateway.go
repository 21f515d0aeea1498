package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"admission-bot/internal/domain/entity"
	"admission-bot/internal/domain/port"
)

// Gateway исходящие вызовы Telegram Bot API
type Gateway struct {
	client  Client
	limiter *rate.Limiter
	now     func() time.Time
	log     *slog.Logger
}

// NewGateway создаёт шлюз. limiter ограничивает частоту всех запросов;
// nil отключает ограничение.
func NewGateway(client Client, limiter *rate.Limiter, log *slog.Logger) *Gateway {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		client:  client,
		limiter: limiter,
		now:     time.Now,
		log:     log.With("component", "telegram"),
	}
}

// SendText отправляет сообщение с необязательной клавиатурой
func (g *Gateway) SendText(ctx context.Context, chatID int64, text string, controls entity.Controls) (entity.MessageRef, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return entity.MessageRef{}, fmt.Errorf("send message to %d: %w", chatID, err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if markup := renderControls(controls); markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := g.client.Send(msg)
	if err != nil {
		return entity.MessageRef{}, fmt.Errorf("send message to %d: %w", chatID, err)
	}

	return entity.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// EditText заменяет текст сообщения; кнопки при этом пропадают
func (g *Gateway) EditText(ctx context.Context, ref entity.MessageRef, text string) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("edit message %d/%d: %w", ref.ChatID, ref.MessageID, err)
	}

	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	if _, err := g.client.Request(edit); err != nil {
		return fmt.Errorf("edit message %d/%d: %w", ref.ChatID, ref.MessageID, err)
	}

	return nil
}

// AnswerInteraction отвечает на callback query
func (g *Gateway) AnswerInteraction(ctx context.Context, interactionID, text string) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("answer callback %s: %w", interactionID, err)
	}

	if _, err := g.client.Request(tgbotapi.NewCallback(interactionID, text)); err != nil {
		return fmt.Errorf("answer callback %s: %w", interactionID, err)
	}

	return nil
}

// IssueInvite создаёт ссылку-приглашение в канал
func (g *Gateway) IssueInvite(ctx context.Context, channelID int64, maxUses int, ttl time.Duration) (entity.Invite, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return entity.Invite{}, fmt.Errorf("create invite link: %w", err)
	}

	expires := g.now().Add(ttl).Truncate(time.Second)
	cfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: channelID},
		ExpireDate:  int(expires.Unix()),
		MemberLimit: maxUses,
	}

	resp, err := g.client.Request(cfg)
	if err != nil {
		return entity.Invite{}, fmt.Errorf("create invite link: %w", err)
	}

	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return entity.Invite{}, fmt.Errorf("decode invite link: %w", err)
	}
	if link.InviteLink == "" {
		return entity.Invite{}, errors.New("create invite link: empty link in response")
	}

	g.log.Debug("invite link created", "channel_id", channelID, "expires_at", expires)

	return entity.Invite{URL: link.InviteLink, ExpiresAt: expires, MaxUses: maxUses}, nil
}

// Проверка реализации интерфейсов
var (
	_ port.Messenger    = (*Gateway)(nil)
	_ port.InviteIssuer = (*Gateway)(nil)
)
