package storage

import (
	"context"
	"sync"

	"admission-bot/internal/domain/entity"
	"admission-bot/internal/domain/port"
)

// MemoryAdmissionGate in-memory набор заявок на рассмотрении
type MemoryAdmissionGate struct {
	mu      sync.RWMutex
	pending map[int64]*entity.PendingSubmission
}

// NewMemoryAdmissionGate создаёт пустой набор
func NewMemoryAdmissionGate() *MemoryAdmissionGate {
	return &MemoryAdmissionGate{
		pending: make(map[int64]*entity.PendingSubmission),
	}
}

// IsPending проверяет наличие отметки
func (g *MemoryAdmissionGate) IsPending(ctx context.Context, userID int64) (bool, error) {
	g.mu.RLock()
	_, exists := g.pending[userID]
	g.mu.RUnlock()

	return exists, nil
}

// MarkPending ставит отметку, если её ещё нет
func (g *MemoryAdmissionGate) MarkPending(ctx context.Context, pending entity.PendingSubmission) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	userID := pending.Submission.UserID
	if _, exists := g.pending[userID]; exists {
		return false, nil
	}
	g.pending[userID] = &pending

	return true, nil
}

// AttachDeliveries дописывает копии заявки у модераторов
func (g *MemoryAdmissionGate) AttachDeliveries(ctx context.Context, userID int64, refs []entity.MessageRef) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Решение могло прийти раньше, чем закончилась рассылка.
	pending, exists := g.pending[userID]
	if !exists {
		return false, nil
	}
	pending.Deliveries = append(pending.Deliveries, refs...)

	return true, nil
}

// ClearPending снимает отметку
func (g *MemoryAdmissionGate) ClearPending(ctx context.Context, userID int64) (*entity.PendingSubmission, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pending, exists := g.pending[userID]
	if !exists {
		return nil, false, nil
	}
	delete(g.pending, userID)

	return pending, true, nil
}

// Проверка реализации интерфейса
var _ port.AdmissionGate = (*MemoryAdmissionGate)(nil)
