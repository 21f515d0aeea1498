package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Action решение модератора
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Decision решение модератора по конкретному заявителю.
type Decision struct {
	Action       Action
	TargetUserID int64
}

// NewDecision собирает решение.
func NewDecision(action Action, userID int64) Decision {
	return Decision{Action: action, TargetUserID: userID}
}

// ParseDecision разбирает данные кнопки вида "approve:<id>" или "reject:<id>".
func ParseDecision(data string) (Decision, error) {
	raw, id, ok := strings.Cut(data, ":")
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrMalformedDecision, data)
	}

	action := Action(raw)
	if action != ActionApprove && action != ActionReject {
		return Decision{}, fmt.Errorf("%w: unknown action %q", ErrMalformedDecision, raw)
	}

	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || userID <= 0 {
		return Decision{}, fmt.Errorf("%w: bad user id %q", ErrMalformedDecision, id)
	}

	return NewDecision(action, userID), nil
}

// Data кодирует решение в данные кнопки.
func (d Decision) Data() string {
	return string(d.Action) + ":" + strconv.FormatInt(d.TargetUserID, 10)
}

// Outcome результат обработки решения.
type Outcome struct {
	Decision       Decision
	Invite         *Invite // выданная ссылка при одобрении
	AlreadyDecided bool    // решение по заявке уже было принято
}
