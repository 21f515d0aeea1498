package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "admission-bot/internal/application"
	"admission-bot/internal/container"
	"admission-bot/internal/domain/entity"
)

const (
	cmdStart  = "start"
	cmdCancel = "cancel"
)

// Bot разбирает входящие обновления и передаёт их сервисам
type Bot struct {
	dialogue *app.DialogueService
	decision *app.DecisionService
	log      *slog.Logger
	queue    *senderQueue
}

// NewBot создаёт бота поверх собранных сервисов
func NewBot(c *container.Container, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		dialogue: c.DialogueService,
		decision: c.DecisionService,
		log:      log.With("component", "bot"),
		queue:    newSenderQueue(),
	}
}

// Run запускает цикл long polling. Обновления разных пользователей
// обрабатываются параллельно, одного пользователя по порядку; при отмене
// ctx дожидается уже принятых.
func (b *Bot) Run(ctx context.Context, poller Poller) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := poller.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			poller.StopReceivingUpdates()
			b.Wait()
			return nil

		case update, ok := <-updates:
			if !ok {
				b.Wait()
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

// HandleWebhook точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	b.dispatch(ctx, update)
	return nil
}

// Wait дожидается обработки всех принятых обновлений
func (b *Bot) Wait() {
	b.queue.Wait()
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	// Начатую обработку доводим до конца даже при остановке.
	ctx = context.WithoutCancel(ctx)

	b.queue.Go(senderOf(update), func() {
		b.HandleUpdate(ctx, update)
	})
}

// senderOf пользователь, от которого пришло обновление; 0, если неизвестен
func senderOf(update tgbotapi.Update) int64 {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	}
	return 0
}

// HandleUpdate синхронно обрабатывает одно обновление
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Анкету заполняют только в личке с ботом.
	if msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
		return
	}

	in := toTextMessage(msg)

	if msg.IsCommand() {
		switch msg.Command() {
		case cmdStart:
			_, err := b.dialogue.Begin(ctx, in)
			b.report("start", in.UserID, err)
		case cmdCancel:
			b.report("cancel", in.UserID, b.dialogue.Cancel(ctx, in))
		}
		return
	}

	_, err := b.dialogue.HandleText(ctx, in)
	b.report("answer", in.UserID, err)
}

// handleCallback обрабатывает нажатие кнопки модератором
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil {
		return
	}

	_, err := b.decision.Handle(ctx, toInteraction(cb))
	b.report("decision", cb.From.ID, err)
}

// report пишет итог обработки с уровнем по виду ошибки
func (b *Bot) report(op string, userID int64, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, entity.ErrValidationRejected),
		errors.Is(err, entity.ErrNoDialogue):
		b.log.Debug("input ignored", "op", op, "user_id", userID, "reason", err)
	case errors.Is(err, entity.ErrDuplicateSubmission):
		b.log.Info("duplicate submission refused", "op", op, "user_id", userID)
	case errors.Is(err, entity.ErrUnauthorizedModerator),
		errors.Is(err, entity.ErrMalformedDecision):
		b.log.Warn("interaction refused", "op", op, "user_id", userID, "error", err)
	default:
		b.log.Error("update handling failed", "op", op, "user_id", userID, "error", err)
	}
}

func toTextMessage(msg *tgbotapi.Message) entity.TextMessage {
	return entity.TextMessage{
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.UserName,
		Text:     msg.Text,
	}
}

func toInteraction(cb *tgbotapi.CallbackQuery) entity.Interaction {
	in := entity.Interaction{
		ID:          cb.ID,
		ModeratorID: cb.From.ID,
		Data:        cb.Data,
	}
	if cb.Message != nil && cb.Message.Chat != nil {
		in.Message = entity.MessageRef{ChatID: cb.Message.Chat.ID, MessageID: cb.Message.MessageID}
		in.MessageText = cb.Message.Text
	}
	return in
}
