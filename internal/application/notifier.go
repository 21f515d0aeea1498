package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"admission-bot/internal/domain/entity"
	"admission-bot/internal/domain/port"
)

// defaultFanoutLimit одновременных отправок модераторам.
const defaultFanoutLimit = 8

// NotifierService рассылает заявку всем модераторам.
type NotifierService struct {
	messenger  port.Messenger
	moderators entity.ModeratorSet
	limit      int
	log        *slog.Logger
}

// NewNotifierService создаёт рассыльщик заявок.
func NewNotifierService(messenger port.Messenger, moderators entity.ModeratorSet, log *slog.Logger) *NotifierService {
	if log == nil {
		log = slog.Default()
	}
	return &NotifierService{
		messenger:  messenger,
		moderators: moderators,
		limit:      defaultFanoutLimit,
		log:        log.With("component", "notifier"),
	}
}

// Notify отправляет заявку каждому модератору независимо. Ошибка доставки
// одному модератору не мешает остальным и возвращается в его Delivery.
func (n *NotifierService) Notify(ctx context.Context, submission entity.Submission) []entity.Delivery {
	ids := n.moderators.IDs()
	deliveries := make([]entity.Delivery, len(ids))

	text := submission.Text()
	controls := entity.DecisionControls{UserID: submission.UserID}

	var g errgroup.Group
	g.SetLimit(n.limit)

	for i, id := range ids {
		g.Go(func() error {
			ref, err := n.messenger.SendText(ctx, id, text, controls)
			deliveries[i] = entity.Delivery{ModeratorID: id, Ref: ref}
			if err != nil {
				deliveries[i].Err = fmt.Errorf("%w: moderator %d: %w", entity.ErrDelivery, id, err)
				deliveriesTotal.WithLabelValues("failed").Inc()
				n.log.Warn("submission delivery failed",
					"submission_id", submission.ID,
					"moderator_id", id,
					"error", err,
				)
				return nil
			}
			deliveriesTotal.WithLabelValues("ok").Inc()
			return nil
		})
	}

	// Ошибки доставки не прерывают рассылку.
	_ = g.Wait()

	return deliveries
}

// delivered возвращает ссылки на успешно доставленные копии.
func delivered(deliveries []entity.Delivery) []entity.MessageRef {
	refs := make([]entity.MessageRef, 0, len(deliveries))
	for _, d := range deliveries {
		if d.OK() {
			refs = append(refs, d.Ref)
		}
	}
	return refs
}
