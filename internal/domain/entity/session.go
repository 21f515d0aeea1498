package entity

import "strings"

// Step шаг диалога регистрации
type Step string

const (
	StepConsent Step = "consent" // Ожидание согласия на обработку данных
	StepName    Step = "name"    // Ожидание имени
	StepAddress Step = "address" // Ожидание адреса
	StepPhone   Step = "phone"   // Ожидание телефона
)

// Field поле анкеты
type Field string

const (
	FieldName    Field = "name"
	FieldAddress Field = "address"
	FieldPhone   Field = "phone"
)

// ConsentAnswer единственный ответ, переводящий диалог дальше согласия.
const ConsentAnswer = "Согласен"

// Transition описывает, что происходит с ответом на шаге.
type Transition struct {
	Field Field // поле, в которое записывается ответ (пусто для согласия)
	Next  Step  // следующий шаг; пусто, если анкета заполнена
}

// transitions таблица переходов диалога.
var transitions = map[Step]Transition{
	StepConsent: {Next: StepName},
	StepName:    {Field: FieldName, Next: StepAddress},
	StepAddress: {Field: FieldAddress, Next: StepPhone},
	StepPhone:   {Field: FieldPhone},
}

// TransitionFor возвращает переход для шага.
func TransitionFor(step Step) (Transition, bool) {
	t, ok := transitions[step]
	return t, ok
}

// Accepts проверяет ответ на шаге. Возвращает нормализованное значение.
func (s Step) Accepts(text string) (string, bool) {
	if s == StepConsent {
		return text, text == ConsentAnswer
	}
	value := strings.TrimSpace(text)
	return value, value != ""
}

// Terminal сообщает, завершает ли ответ на шаге анкету.
func (t Transition) Terminal() bool {
	return t.Next == ""
}

// Session текущее положение пользователя в диалоге
type Session struct {
	UserID   int64            // Telegram User ID
	ChatID   int64            // Telegram Chat ID
	Username string           // Telegram username без @
	Step     Step             // Текущий шаг
	Answers  map[Field]string // Собранные ответы
}

// NewSession создаёт сессию на шаге согласия
func NewSession(userID, chatID int64, username string) *Session {
	return &Session{
		UserID:   userID,
		ChatID:   chatID,
		Username: username,
		Step:     StepConsent,
		Answers:  make(map[Field]string),
	}
}

// Clone возвращает независимую копию сессии.
func (s *Session) Clone() *Session {
	c := *s
	c.Answers = make(map[Field]string, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	return &c
}
