package port

import (
	"context"

	"admission-bot/internal/domain/entity"
)

// Messenger исходящие сообщения через транспорт
type Messenger interface {
	// SendText отправляет текст; controls может быть nil
	SendText(ctx context.Context, chatID int64, text string, controls entity.Controls) (entity.MessageRef, error)

	// EditText заменяет текст отправленного сообщения и убирает его кнопки
	EditText(ctx context.Context, ref entity.MessageRef, text string) error

	// AnswerInteraction подтверждает нажатие кнопки
	AnswerInteraction(ctx context.Context, interactionID, text string) error
}
