package port

import (
	"context"

	"admission-bot/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий диалога
type SessionRepository interface {
	// Get возвращает копию сессии или entity.ErrSessionNotFound
	Get(ctx context.Context, userID int64) (*entity.Session, error)

	// Create открывает сессию на шаге согласия, entity.ErrSessionExists если она уже есть
	Create(ctx context.Context, userID, chatID int64, username string) (*entity.Session, error)

	// Update записывает ответ в поле анкеты
	Update(ctx context.Context, userID int64, field entity.Field, value string) error

	// Advance переводит сессию на следующий шаг
	Advance(ctx context.Context, userID int64, step entity.Step) error

	// Clear удаляет сессию
	Clear(ctx context.Context, userID int64) error
}
