package telegram

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "admission-bot/internal/application"
	"admission-bot/internal/container"
	"admission-bot/internal/domain/entity"
	"admission-bot/internal/infrastructure/storage"
)

// fakeClient запоминает запросы к Bot API
type fakeClient struct {
	mu       sync.Mutex
	nextID   int
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
	inviteN  int
}

func (c *fakeClient) Send(ch tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendErr != nil {
		return tgbotapi.Message{}, c.sendErr
	}
	c.nextID++
	c.sent = append(c.sent, ch)
	return tgbotapi.Message{MessageID: c.nextID}, nil
}

func (c *fakeClient) Request(ch tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, ch)

	if _, ok := ch.(tgbotapi.CreateChatInviteLinkConfig); ok {
		c.inviteN++
		result, _ := json.Marshal(tgbotapi.ChatInviteLink{InviteLink: "https://t.me/+abc"})
		return &tgbotapi.APIResponse{Ok: true, Result: result}, nil
	}
	return &tgbotapi.APIResponse{Ok: true, Result: json.RawMessage("true")}, nil
}

func (c *fakeClient) messagesTo(chatID int64) []tgbotapi.MessageConfig {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []tgbotapi.MessageConfig
	for _, ch := range c.sent {
		if msg, ok := ch.(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

func (c *fakeClient) edits() []tgbotapi.EditMessageTextConfig {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []tgbotapi.EditMessageTextConfig
	for _, ch := range c.requests {
		if edit, ok := ch.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, edit)
		}
	}
	return out
}

func (c *fakeClient) callbacks() []tgbotapi.CallbackConfig {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []tgbotapi.CallbackConfig
	for _, ch := range c.requests {
		if cb, ok := ch.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

// failingClient всегда возвращает ошибку Bot API
type failingClient struct{}

func (failingClient) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, errors.New("Forbidden: bot was blocked by the user")
}

func (failingClient) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return nil, errors.New("Bad Request: not enough rights")
}

// fakePoller отдаёт обновления из канала
type fakePoller struct {
	updates chan tgbotapi.Update
	stopped bool
}

func (p *fakePoller) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return p.updates
}

func (p *fakePoller) StopReceivingUpdates() {
	p.stopped = true
}

const (
	moderatorID int64 = 100
	channelID   int64 = -100500
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestBot собирает бота поверх fakeClient с настоящими сервисами
func newTestBot(client Client) (*Bot, *storage.MemoryAdmissionGate) {
	log := discardLogger()
	gateway := NewGateway(client, nil, log)
	gate := storage.NewMemoryAdmissionGate()

	c := container.New(container.Deps{
		Sessions:   storage.NewMemorySessionRepository(),
		Gate:       gate,
		Messenger:  gateway,
		Issuer:     gateway,
		Moderators: entity.NewModeratorSet(moderatorID),
		Policy: app.DecisionPolicy{
			ChannelID:     channelID,
			InviteTTL:     24 * time.Hour,
			IssueTimeout:  time.Second,
			IssueAttempts: 1,
		},
		Logger: log,
	})

	return NewBot(c, log), gate
}

func privateText(userID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, UserName: "jane"},
		Chat: &tgbotapi.Chat{ID: userID, Type: "private"},
		Text: text,
	}
	if len(text) > 0 && text[0] == '/' {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return tgbotapi.Update{Message: msg}
}

func callback(id string, from int64, msg tgbotapi.Message, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      id,
		From:    &tgbotapi.User{ID: from},
		Message: &msg,
		Data:    data,
	}}
}
