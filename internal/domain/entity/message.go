package entity

// MessageRef ссылка на отправленное сообщение
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// TextMessage входящее текстовое сообщение
type TextMessage struct {
	UserID   int64
	ChatID   int64
	Username string
	Text     string
}

// Interaction нажатие кнопки модератором
type Interaction struct {
	ID          string     // идентификатор callback query
	ModeratorID int64      // кто нажал
	Message     MessageRef // сообщение с кнопкой
	MessageText string     // текст сообщения с кнопкой
	Data        string     // данные кнопки
}

// Controls набор элементов управления, прикладываемый к сообщению.
// Отрисовка зависит от транспорта.
type Controls interface {
	controls()
}

// ConsentControls клавиатура с единственной кнопкой согласия.
type ConsentControls struct{}

// DecisionControls кнопки одобрения и отклонения заявки.
type DecisionControls struct {
	UserID int64
}

// RemoveControls убирает ранее показанную клавиатуру.
type RemoveControls struct{}

func (ConsentControls) controls()  {}
func (DecisionControls) controls() {}
func (RemoveControls) controls()   {}
