package storage

import (
	"context"
	"sync"

	"admission-bot/internal/domain/entity"
	"admission-bot/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий диалога
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает копию сессии пользователя
func (r *MemorySessionRepository) Get(ctx context.Context, userID int64) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[userID]
	if !exists {
		return nil, entity.ErrSessionNotFound
	}

	return session.Clone(), nil
}

// Create открывает новую сессию
func (r *MemorySessionRepository) Create(ctx context.Context, userID, chatID int64, username string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[userID]; exists {
		return nil, entity.ErrSessionExists
	}

	session := entity.NewSession(userID, chatID, username)
	r.sessions[userID] = session

	return session.Clone(), nil
}

// Update записывает ответ в анкету
func (r *MemorySessionRepository) Update(ctx context.Context, userID int64, field entity.Field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[userID]
	if !exists {
		return entity.ErrSessionNotFound
	}
	session.Answers[field] = value

	return nil
}

// Advance переводит сессию на шаг
func (r *MemorySessionRepository) Advance(ctx context.Context, userID int64, step entity.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[userID]
	if !exists {
		return entity.ErrSessionNotFound
	}
	session.Step = step

	return nil
}

// Clear удаляет сессию
func (r *MemorySessionRepository) Clear(ctx context.Context, userID int64) error {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()

	return nil
}

// Len количество открытых сессий
func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
