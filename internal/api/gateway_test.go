package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"admission-bot/internal/domain/entity"
)

func TestGateway_SendTextWithConsentKeyboard(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, nil, discardLogger())

	ref, err := g.SendText(context.Background(), 1, "hello", entity.ConsentControls{})
	require.NoError(t, err)
	require.Equal(t, entity.MessageRef{ChatID: 1, MessageID: 1}, ref)

	msgs := client.messagesTo(1)
	require.Len(t, msgs, 1)
	require.Equal(t, "hello", msgs[0].Text)

	kb, ok := msgs[0].ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.True(t, kb.OneTimeKeyboard)
	require.True(t, kb.ResizeKeyboard)
	require.Len(t, kb.Keyboard, 1)
	require.Equal(t, entity.ConsentAnswer, kb.Keyboard[0][0].Text)
}

func TestGateway_SendTextWithDecisionKeyboard(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, nil, discardLogger())

	_, err := g.SendText(context.Background(), moderatorID, "submission", entity.DecisionControls{UserID: 42})
	require.NoError(t, err)

	kb, ok := client.messagesTo(moderatorID)[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 1)

	row := kb.InlineKeyboard[0]
	require.Len(t, row, 2)
	require.Equal(t, btnApprove, row[0].Text)
	require.Equal(t, "approve:42", *row[0].CallbackData)
	require.Equal(t, btnReject, row[1].Text)
	require.Equal(t, "reject:42", *row[1].CallbackData)
}

func TestGateway_SendTextControlsVariants(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, nil, discardLogger())
	ctx := context.Background()

	_, err := g.SendText(ctx, 1, "plain", nil)
	require.NoError(t, err)
	_, err = g.SendText(ctx, 1, "remove", entity.RemoveControls{})
	require.NoError(t, err)

	msgs := client.messagesTo(1)
	require.Nil(t, msgs[0].ReplyMarkup)

	remove, ok := msgs[1].ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	require.True(t, ok)
	require.True(t, remove.RemoveKeyboard)
}

func TestGateway_SendTextError(t *testing.T) {
	g := NewGateway(failingClient{}, nil, discardLogger())

	_, err := g.SendText(context.Background(), 1, "hello", nil)
	require.ErrorContains(t, err, "send message to 1")
	require.ErrorContains(t, err, "blocked")
}

func TestGateway_EditAndAnswer(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, nil, discardLogger())
	ctx := context.Background()

	require.NoError(t, g.EditText(ctx, entity.MessageRef{ChatID: moderatorID, MessageID: 7}, "done"))
	require.NoError(t, g.AnswerInteraction(ctx, "cb-1", "ok"))

	edits := client.edits()
	require.Len(t, edits, 1)
	require.Equal(t, moderatorID, edits[0].ChatID)
	require.Equal(t, 7, edits[0].MessageID)
	require.Equal(t, "done", edits[0].Text)
	require.Nil(t, edits[0].ReplyMarkup)

	callbacks := client.callbacks()
	require.Len(t, callbacks, 1)
	require.Equal(t, "cb-1", callbacks[0].CallbackQueryID)
	require.Equal(t, "ok", callbacks[0].Text)
}

func TestGateway_IssueInvite(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, nil, discardLogger())
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	invite, err := g.IssueInvite(context.Background(), channelID, 1, 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, "https://t.me/+abc", invite.URL)
	require.Equal(t, 1, invite.MaxUses)
	require.Equal(t, now.Add(24*time.Hour), invite.ExpiresAt)

	require.Len(t, client.requests, 1)
	cfg, ok := client.requests[0].(tgbotapi.CreateChatInviteLinkConfig)
	require.True(t, ok)
	require.Equal(t, channelID, cfg.ChatID)
	require.Equal(t, 1, cfg.MemberLimit)
	require.Equal(t, int(now.Add(24*time.Hour).Unix()), cfg.ExpireDate)
}

func TestGateway_IssueInviteError(t *testing.T) {
	g := NewGateway(failingClient{}, nil, discardLogger())

	_, err := g.IssueInvite(context.Background(), channelID, 1, time.Hour)
	require.ErrorContains(t, err, "create invite link")
}

func TestGateway_RateLimitHonoursContext(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, rate.NewLimiter(rate.Every(time.Hour), 1), discardLogger())

	_, err := g.SendText(context.Background(), 1, "first", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.SendText(ctx, 1, "second", nil)
	require.Error(t, err)
	require.Len(t, client.messagesTo(1), 1)
}
