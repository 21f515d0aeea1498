package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"admission-bot/internal/domain/entity"
	"admission-bot/internal/domain/port"
)

// DialogueService ведёт пользователя по шагам анкеты.
type DialogueService struct {
	sessions  port.SessionRepository
	gate      port.AdmissionGate
	messenger port.Messenger
	notifier  *NotifierService
	locks     *keyedLocks
	now       func() time.Time
	log       *slog.Logger
}

// NewDialogueService создаёт сервис диалога.
func NewDialogueService(
	sessions port.SessionRepository,
	gate port.AdmissionGate,
	messenger port.Messenger,
	notifier *NotifierService,
	log *slog.Logger,
) *DialogueService {
	if log == nil {
		log = slog.Default()
	}
	return &DialogueService{
		sessions:  sessions,
		gate:      gate,
		messenger: messenger,
		notifier:  notifier,
		locks:     newKeyedLocks(),
		now:       time.Now,
		log:       log.With("component", "dialogue"),
	}
}

// Begin начинает диалог заново. Пользователь с заявкой на рассмотрении
// получает отказ, сессия при этом не создаётся.
func (s *DialogueService) Begin(ctx context.Context, msg entity.TextMessage) (*entity.Session, error) {
	unlock := s.locks.Lock(msg.UserID)
	defer unlock()

	pending, err := s.gate.IsPending(ctx, msg.UserID)
	if err != nil {
		return nil, fmt.Errorf("check pending: %w", err)
	}
	if pending {
		duplicateSubmissions.Inc()
		s.reply(ctx, msg.ChatID, msgAlreadyPending, nil)
		return nil, entity.ErrDuplicateSubmission
	}

	// Повторный /start сбрасывает незаконченную анкету.
	if err := s.sessions.Clear(ctx, msg.UserID); err != nil {
		return nil, fmt.Errorf("clear session: %w", err)
	}

	session, err := s.sessions.Create(ctx, msg.UserID, msg.ChatID, msg.Username)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.reply(ctx, msg.ChatID, msgConsent, entity.ConsentControls{})
	return session, nil
}

// Cancel прерывает незаконченную анкету.
func (s *DialogueService) Cancel(ctx context.Context, msg entity.TextMessage) error {
	unlock := s.locks.Lock(msg.UserID)
	defer unlock()

	if _, err := s.sessions.Get(ctx, msg.UserID); err != nil {
		if errors.Is(err, entity.ErrSessionNotFound) {
			return entity.ErrNoDialogue
		}
		return fmt.Errorf("get session: %w", err)
	}

	if err := s.sessions.Clear(ctx, msg.UserID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.reply(ctx, msg.ChatID, msgCancelled, entity.RemoveControls{})
	return nil
}

// HandleText принимает ответ на текущем шаге. Возвращает сессию после
// перехода; после последнего ответа сессия удаляется и возвращается nil.
func (s *DialogueService) HandleText(ctx context.Context, msg entity.TextMessage) (*entity.Session, error) {
	unlock := s.locks.Lock(msg.UserID)
	defer unlock()

	session, err := s.sessions.Get(ctx, msg.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrSessionNotFound) {
			return nil, entity.ErrNoDialogue
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	transition, ok := entity.TransitionFor(session.Step)
	if !ok {
		return nil, fmt.Errorf("no transition from step %q", session.Step)
	}

	value, ok := session.Step.Accepts(msg.Text)
	if !ok {
		return session, entity.ErrValidationRejected
	}

	if transition.Field != "" {
		if err := s.sessions.Update(ctx, msg.UserID, transition.Field, value); err != nil {
			return nil, fmt.Errorf("record %s: %w", transition.Field, err)
		}
		session.Answers[transition.Field] = value
	}

	if transition.Terminal() {
		return nil, s.complete(ctx, session)
	}

	if err := s.sessions.Advance(ctx, msg.UserID, transition.Next); err != nil {
		return nil, fmt.Errorf("advance to %s: %w", transition.Next, err)
	}
	session.Step = transition.Next

	var controls entity.Controls
	if transition.Field == "" {
		// Согласие получено, клавиатура больше не нужна.
		controls = entity.RemoveControls{}
	}
	s.reply(ctx, msg.ChatID, prompts[transition.Next], controls)

	return session, nil
}

// complete отправляет заявку модераторам и закрывает сессию.
// Отметка ставится до рассылки, чтобы повторный /start во время
// отправки уже видел заявку на рассмотрении.
func (s *DialogueService) complete(ctx context.Context, session *entity.Session) error {
	submission := entity.NewSubmission(session, s.now())

	marked, err := s.gate.MarkPending(ctx, entity.PendingSubmission{Submission: submission})
	if err != nil {
		return fmt.Errorf("mark pending: %w", err)
	}
	if !marked {
		if err := s.sessions.Clear(ctx, session.UserID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		duplicateSubmissions.Inc()
		s.reply(ctx, session.ChatID, msgAlreadyPending, nil)
		return entity.ErrDuplicateSubmission
	}
	submissionsTotal.Inc()

	deliveries := s.notifier.Notify(ctx, submission)
	refs := delivered(deliveries)
	if len(refs) == 0 {
		s.log.Error("submission reached no moderator",
			"submission_id", submission.ID,
			"user_id", submission.UserID,
		)
	}
	attached, err := s.gate.AttachDeliveries(ctx, submission.UserID, refs)
	switch {
	case err != nil:
		s.log.Warn("attach deliveries failed", "submission_id", submission.ID, "error", err)
	case !attached:
		// Решение пришло во время рассылки: кнопки под поздними копиями
		// уже ничего не изменят.
		s.log.Debug("submission decided during fan-out",
			"submission_id", submission.ID,
			"late_copies", len(refs),
		)
		s.closeCopies(ctx, submission, refs)
	}

	s.reply(ctx, session.ChatID, msgSubmitted, nil)

	if err := s.sessions.Clear(ctx, session.UserID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.log.Info("submission forwarded",
		"submission_id", submission.ID,
		"user_id", submission.UserID,
		"delivered", len(refs),
		"moderators", len(deliveries),
	)
	return nil
}

// closeCopies убирает кнопки под копиями заявки, по которой уже есть решение.
func (s *DialogueService) closeCopies(ctx context.Context, submission entity.Submission, refs []entity.MessageRef) {
	text := submission.Text() + annotationClosed
	for _, ref := range refs {
		if err := s.messenger.EditText(ctx, ref, text); err != nil {
			s.log.Warn("moderator message edit failed",
				"chat_id", ref.ChatID,
				"message_id", ref.MessageID,
				"error", err,
			)
		}
	}
}

// reply отправляет ответ пользователю; ошибка доставки только логируется.
func (s *DialogueService) reply(ctx context.Context, chatID int64, text string, controls entity.Controls) {
	if _, err := s.messenger.SendText(ctx, chatID, text, controls); err != nil {
		s.log.Warn("reply failed", "chat_id", chatID, "error", err)
	}
}
