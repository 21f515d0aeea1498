package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/singleflight"

	"admission-bot/internal/domain/entity"
	"admission-bot/internal/domain/port"
)

// DecisionPolicy параметры выдачи приглашений.
type DecisionPolicy struct {
	ChannelID     int64         // канал, в который выдаётся ссылка
	InviteTTL     time.Duration // срок жизни ссылки
	IssueTimeout  time.Duration // общий таймаут выдачи с повторами
	IssueAttempts uint          // число попыток выдачи
	IssueBackoff  time.Duration // начальная пауза между попытками
}

// DecisionService обрабатывает решения модераторов.
type DecisionService struct {
	gate       port.AdmissionGate
	messenger  port.Messenger
	issuer     port.InviteIssuer
	moderators entity.ModeratorSet
	policy     DecisionPolicy
	flight     singleflight.Group
	log        *slog.Logger
}

// NewDecisionService создаёт обработчик решений.
func NewDecisionService(
	gate port.AdmissionGate,
	messenger port.Messenger,
	issuer port.InviteIssuer,
	moderators entity.ModeratorSet,
	policy DecisionPolicy,
	log *slog.Logger,
) *DecisionService {
	if log == nil {
		log = slog.Default()
	}
	if policy.IssueAttempts == 0 {
		policy.IssueAttempts = 1
	}
	return &DecisionService{
		gate:       gate,
		messenger:  messenger,
		issuer:     issuer,
		moderators: moderators,
		policy:     policy,
		log:        log.With("component", "decision"),
	}
}

// Handle обрабатывает нажатие кнопки модератором. Повторное решение по уже
// рассмотренной заявке ничего не делает и возвращает Outcome.AlreadyDecided.
func (s *DecisionService) Handle(ctx context.Context, in entity.Interaction) (entity.Outcome, error) {
	if !s.moderators.Contains(in.ModeratorID) {
		refusedInteractions.WithLabelValues("unauthorized").Inc()
		s.answer(ctx, in.ID, msgNotModerator)
		return entity.Outcome{}, fmt.Errorf("%w: %d", entity.ErrUnauthorizedModerator, in.ModeratorID)
	}

	decision, err := entity.ParseDecision(in.Data)
	if err != nil {
		refusedInteractions.WithLabelValues("malformed").Inc()
		s.answer(ctx, in.ID, msgMalformedDecision)
		return entity.Outcome{}, err
	}

	// Одновременные нажатия по одной заявке выполняются один раз.
	key := strconv.FormatInt(decision.TargetUserID, 10)
	v, err, shared := s.flight.Do(key, func() (any, error) {
		return s.decide(ctx, decision, in)
	})
	outcome, _ := v.(entity.Outcome)

	if err != nil {
		if errors.Is(err, entity.ErrIssuance) {
			s.answer(ctx, in.ID, msgIssueFailed)
		} else {
			s.answer(ctx, in.ID, "")
		}
		return outcome, err
	}

	// Модератор, чьё решение перекрыто одновременным решением коллеги,
	// должен увидеть, что заявка уже рассмотрена.
	if shared && outcome.Decision.Action != decision.Action {
		outcome.AlreadyDecided = true
		decisionsTotal.WithLabelValues(string(decision.Action), "overridden").Inc()
		s.answer(ctx, in.ID, msgAlreadyDecided)
	} else {
		s.answer(ctx, in.ID, "")
	}

	s.log.Info("decision processed",
		"action", outcome.Decision.Action,
		"user_id", outcome.Decision.TargetUserID,
		"moderator_id", in.ModeratorID,
		"already_decided", outcome.AlreadyDecided,
		"shared", shared,
	)
	return outcome, nil
}

func (s *DecisionService) decide(ctx context.Context, decision entity.Decision, in entity.Interaction) (entity.Outcome, error) {
	outcome := entity.Outcome{Decision: decision}
	action := string(decision.Action)

	pending, err := s.gate.IsPending(ctx, decision.TargetUserID)
	if err != nil {
		return outcome, fmt.Errorf("check pending: %w", err)
	}
	if !pending {
		outcome.AlreadyDecided = true
		decisionsTotal.WithLabelValues(action, "already_decided").Inc()
		return outcome, nil
	}

	var notice, annotation string
	switch decision.Action {
	case entity.ActionApprove:
		invite, err := s.issue(ctx)
		if err != nil {
			decisionsTotal.WithLabelValues(action, "issuance_failed").Inc()
			s.log.Error("invite issuance failed",
				"user_id", decision.TargetUserID,
				"moderator_id", in.ModeratorID,
				"error", err,
			)
			return outcome, err
		}
		outcome.Invite = &invite
		notice, annotation = approvedText(invite), annotationApproved

	case entity.ActionReject:
		notice, annotation = msgRejected, annotationRejected

	default:
		return outcome, fmt.Errorf("%w: unknown action %q", entity.ErrMalformedDecision, action)
	}

	// Заявитель пишет боту в личку, поэтому chat ID совпадает с user ID.
	if _, err := s.messenger.SendText(ctx, decision.TargetUserID, notice, nil); err != nil {
		s.log.Warn("applicant notification failed",
			"user_id", decision.TargetUserID,
			"action", action,
			"error", err,
		)
	}

	cleared, _, err := s.gate.ClearPending(ctx, decision.TargetUserID)
	if err != nil {
		return outcome, fmt.Errorf("clear pending: %w", err)
	}

	s.annotate(ctx, in, cleared, annotation)
	decisionsTotal.WithLabelValues(action, "ok").Inc()

	return outcome, nil
}

// issue выдаёт одноразовую ссылку, повторяя попытки с экспоненциальной паузой.
func (s *DecisionService) issue(ctx context.Context) (entity.Invite, error) {
	if s.policy.IssueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.policy.IssueTimeout)
		defer cancel()
	}

	policy := backoff.NewExponentialBackOff()
	if s.policy.IssueBackoff > 0 {
		policy.InitialInterval = s.policy.IssueBackoff
	}

	invite, err := backoff.Retry(ctx, func() (entity.Invite, error) {
		return s.issuer.IssueInvite(ctx, s.policy.ChannelID, 1, s.policy.InviteTTL)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(s.policy.IssueAttempts),
	)
	if err != nil {
		return entity.Invite{}, fmt.Errorf("%w: %w", entity.ErrIssuance, err)
	}

	return invite, nil
}

// annotate дописывает итог ко всем копиям заявки у модераторов.
func (s *DecisionService) annotate(ctx context.Context, in entity.Interaction, pending *entity.PendingSubmission, annotation string) {
	edited := make(map[entity.MessageRef]struct{})

	if in.Message.MessageID != 0 {
		text := in.MessageText
		if text == "" && pending != nil {
			text = pending.Submission.Text()
		}
		s.edit(ctx, in.Message, text+annotation)
		edited[in.Message] = struct{}{}
	}

	if pending == nil {
		return
	}

	text := pending.Submission.Text() + annotation
	for _, ref := range pending.Deliveries {
		if _, ok := edited[ref]; ok {
			continue
		}
		s.edit(ctx, ref, text)
		edited[ref] = struct{}{}
	}
}

func (s *DecisionService) edit(ctx context.Context, ref entity.MessageRef, text string) {
	if err := s.messenger.EditText(ctx, ref, text); err != nil {
		s.log.Warn("moderator message edit failed",
			"chat_id", ref.ChatID,
			"message_id", ref.MessageID,
			"error", err,
		)
	}
}

func (s *DecisionService) answer(ctx context.Context, interactionID, text string) {
	if interactionID == "" {
		return
	}
	if err := s.messenger.AnswerInteraction(ctx, interactionID, text); err != nil {
		s.log.Warn("interaction answer failed", "interaction_id", interactionID, "error", err)
	}
}
