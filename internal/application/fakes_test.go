package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"admission-bot/internal/domain/entity"
	"admission-bot/internal/infrastructure/storage"
)

type sentMessage struct {
	Ref      entity.MessageRef
	Text     string
	Controls entity.Controls
}

type editedMessage struct {
	Ref  entity.MessageRef
	Text string
}

type answeredInteraction struct {
	ID   string
	Text string
}

// fakeMessenger запоминает исходящие сообщения.
type fakeMessenger struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentMessage
	edits   []editedMessage
	answers []answeredInteraction
	failFor map[int64]bool
	onSend  func(chatID int64)
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{failFor: make(map[int64]bool)}
}

func (m *fakeMessenger) SendText(ctx context.Context, chatID int64, text string, controls entity.Controls) (entity.MessageRef, error) {
	if m.onSend != nil {
		m.onSend(chatID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failFor[chatID] {
		return entity.MessageRef{}, errors.New("Bad Request: chat not found")
	}

	m.nextID++
	ref := entity.MessageRef{ChatID: chatID, MessageID: m.nextID}
	m.sent = append(m.sent, sentMessage{Ref: ref, Text: text, Controls: controls})
	return ref, nil
}

func (m *fakeMessenger) EditText(ctx context.Context, ref entity.MessageRef, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, editedMessage{Ref: ref, Text: text})
	return nil
}

func (m *fakeMessenger) AnswerInteraction(ctx context.Context, interactionID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, answeredInteraction{ID: interactionID, Text: text})
	return nil
}

func (m *fakeMessenger) sentTo(chatID int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []sentMessage
	for _, s := range m.sent {
		if s.Ref.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

func (m *fakeMessenger) lastTo(t *testing.T, chatID int64) sentMessage {
	t.Helper()
	msgs := m.sentTo(chatID)
	require.NotEmpty(t, msgs, "no messages to chat %d", chatID)
	return msgs[len(msgs)-1]
}

func (m *fakeMessenger) editsOf(ref entity.MessageRef) []editedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []editedMessage
	for _, e := range m.edits {
		if e.Ref == ref {
			out = append(out, e)
		}
	}
	return out
}

func (m *fakeMessenger) allEdits() []editedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]editedMessage(nil), m.edits...)
}

func (m *fakeMessenger) answersFor(id string) []answeredInteraction {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []answeredInteraction
	for _, a := range m.answers {
		if a.ID == id {
			out = append(out, a)
		}
	}
	return out
}

// fakeIssuer выдаёт ссылки; первые failures вызовов завершаются ошибкой.
type fakeIssuer struct {
	mu        sync.Mutex
	calls     int
	failures  int
	channelID int64
	maxUses   int
	ttl       time.Duration
	block     chan struct{}
}

func (f *fakeIssuer) IssueInvite(ctx context.Context, channelID int64, maxUses int, ttl time.Duration) (entity.Invite, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.channelID, f.maxUses, f.ttl = channelID, maxUses, ttl
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	if n <= f.failures {
		return entity.Invite{}, errors.New("Bad Request: not enough rights to manage chat invite link")
	}

	return entity.Invite{
		URL:       fmt.Sprintf("https://t.me/+invite%d", n),
		ExpiresAt: time.Now().Add(ttl),
		MaxUses:   maxUses,
	}, nil
}

func (f *fakeIssuer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const testChannelID int64 = -1001234567890

type fixture struct {
	sessions   *storage.MemorySessionRepository
	gate       *storage.MemoryAdmissionGate
	messenger  *fakeMessenger
	issuer     *fakeIssuer
	moderators entity.ModeratorSet
	dialogue   *DialogueService
	decision   *DecisionService
}

func newFixture(moderators ...int64) *fixture {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		sessions:   storage.NewMemorySessionRepository(),
		gate:       storage.NewMemoryAdmissionGate(),
		messenger:  newFakeMessenger(),
		issuer:     &fakeIssuer{},
		moderators: entity.NewModeratorSet(moderators...),
	}

	notifier := NewNotifierService(f.messenger, f.moderators, log)
	f.dialogue = NewDialogueService(f.sessions, f.gate, f.messenger, notifier, log)
	f.decision = NewDecisionService(f.gate, f.messenger, f.issuer, f.moderators, DecisionPolicy{
		ChannelID:     testChannelID,
		InviteTTL:     24 * time.Hour,
		IssueTimeout:  time.Second,
		IssueAttempts: 3,
		IssueBackoff:  time.Millisecond,
	}, log)

	return f
}

func textFrom(userID int64, text string) entity.TextMessage {
	return entity.TextMessage{UserID: userID, ChatID: userID, Username: fmt.Sprintf("user%d", userID), Text: text}
}

// completeDialogue проводит пользователя через всю анкету.
func (f *fixture) completeDialogue(t *testing.T, userID int64, name, address, phone string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.dialogue.Begin(ctx, textFrom(userID, "/start"))
	require.NoError(t, err)

	for _, answer := range []string{entity.ConsentAnswer, name, address} {
		_, err = f.dialogue.HandleText(ctx, textFrom(userID, answer))
		require.NoError(t, err)
	}

	session, err := f.dialogue.HandleText(ctx, textFrom(userID, phone))
	require.NoError(t, err)
	require.Nil(t, session)
}

// interactionFor собирает нажатие кнопки под копией заявки у модератора.
func (f *fixture) interactionFor(t *testing.T, moderatorID int64, data string) entity.Interaction {
	t.Helper()
	msg := f.messenger.lastTo(t, moderatorID)
	return entity.Interaction{
		ID:          fmt.Sprintf("cb-%d-%s", moderatorID, data),
		ModeratorID: moderatorID,
		Message:     msg.Ref,
		MessageText: msg.Text,
		Data:        data,
	}
}
