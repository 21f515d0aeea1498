package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"admission-bot/internal/domain/entity"
)

const (
	btnApprove = "✅ Одобрить"
	btnReject  = "❌ Отклонить"
)

// consentKeyboard одноразовая клавиатура с кнопкой согласия
func consentKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(entity.ConsentAnswer),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

// decisionKeyboard кнопки модератора под заявкой
func decisionKeyboard(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnApprove, entity.NewDecision(entity.ActionApprove, userID).Data()),
			tgbotapi.NewInlineKeyboardButtonData(btnReject, entity.NewDecision(entity.ActionReject, userID).Data()),
		),
	)
}

// renderControls переводит элементы управления в разметку Telegram
func renderControls(controls entity.Controls) any {
	switch c := controls.(type) {
	case entity.ConsentControls:
		return consentKeyboard()
	case entity.DecisionControls:
		return decisionKeyboard(c.UserID)
	case entity.RemoveControls:
		return tgbotapi.NewRemoveKeyboard(false)
	default:
		return nil
	}
}
