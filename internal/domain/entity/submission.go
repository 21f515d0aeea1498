package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Submission заполненная анкета, отправляемая модераторам.
type Submission struct {
	ID          string    // идентификатор для корреляции логов и текста у модераторов
	UserID      int64     // Telegram User ID заявителя
	Username    string    // Telegram username без @
	Name        string    // имя
	Address     string    // адрес
	Phone       string    // телефон
	SubmittedAt time.Time // момент завершения анкеты
}

// NewSubmission собирает анкету из завершённой сессии.
func NewSubmission(s *Session, now time.Time) Submission {
	return Submission{
		ID:          uuid.New().String(),
		UserID:      s.UserID,
		Username:    s.Username,
		Name:        s.Answers[FieldName],
		Address:     s.Answers[FieldAddress],
		Phone:       s.Answers[FieldPhone],
		SubmittedAt: now,
	}
}

// Text форматирует анкету для модератора.
func (s Submission) Text() string {
	username := "—"
	if s.Username != "" {
		username = "@" + s.Username
	}
	text := fmt.Sprintf(
		"Новая заявка на вступление\n\n"+
			"Telegram: %s\n"+
			"ID: %d\n\n"+
			"Имя: %s\n"+
			"Адрес: %s\n"+
			"Телефон: %s",
		username, s.UserID, s.Name, s.Address, s.Phone,
	)
	if s.ID != "" {
		text += "\n\nЗаявка " + s.ID
	}
	return text
}

// PendingSubmission отметка о заявке, ожидающей решения модератора.
type PendingSubmission struct {
	Submission Submission
	Deliveries []MessageRef // копии заявки у модераторов
}

// Delivery результат отправки заявки одному модератору.
type Delivery struct {
	ModeratorID int64
	Ref         MessageRef
	Err         error
}

// OK сообщает, доставлена ли копия.
func (d Delivery) OK() bool {
	return d.Err == nil
}
