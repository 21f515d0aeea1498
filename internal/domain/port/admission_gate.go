package port

import (
	"context"

	"admission-bot/internal/domain/entity"
)

// AdmissionGate набор пользователей, чьи заявки ждут решения
type AdmissionGate interface {
	// IsPending сообщает, есть ли у пользователя заявка на рассмотрении
	IsPending(ctx context.Context, userID int64) (bool, error)

	// MarkPending ставит отметку; false, если она уже стояла
	MarkPending(ctx context.Context, pending entity.PendingSubmission) (bool, error)

	// AttachDeliveries запоминает копии заявки у модераторов; false, если
	// отметку уже сняли и копии не запомнены
	AttachDeliveries(ctx context.Context, userID int64, refs []entity.MessageRef) (bool, error)

	// ClearPending снимает отметку и возвращает её; false, если отметки не было
	ClearPending(ctx context.Context, userID int64) (*entity.PendingSubmission, bool, error)
}
