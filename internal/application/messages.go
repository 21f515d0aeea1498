package app

import (
	"fmt"

	"admission-bot/internal/domain/entity"
)

const (
	msgConsent = "Для регистрации необходимо согласие на обработку персональных данных.\n\n" +
		"Я даю согласие на обработку моих персональных данных " +
		"(имя, адрес, номер телефона) в соответствии с ФЗ-152 " +
		"«О персональных данных» исключительно в целях " +
		"рассмотрения заявки на вступление в канал.\n\n" +
		"Обработка включает сбор и передачу данных администраторам " +
		"без хранения.\n\n" +
		"Нажмите «" + entity.ConsentAnswer + "» для продолжения."

	msgAskName        = "Введите ваше имя:"
	msgAskAddress     = "Введите адрес:"
	msgAskPhone       = "Введите номер телефона:"
	msgSubmitted      = "Ваша заявка отправлена администраторам.\nОжидайте решения."
	msgAlreadyPending = "Ваша заявка уже находится на рассмотрении администратора."
	msgCancelled      = "Регистрация отменена. Отправьте /start, чтобы начать заново."
	msgRejected       = "К сожалению, ваша заявка отклонена администраторами."

	msgNotModerator      = "⛔ Недостаточно прав."
	msgMalformedDecision = "⚠️ Некорректная кнопка."
	msgIssueFailed       = "⚠️ Не удалось создать ссылку-приглашение. Попробуйте ещё раз."
	msgAlreadyDecided    = "Заявка уже рассмотрена другим администратором."

	annotationApproved = "\n\n✅ Заявка одобрена"
	annotationRejected = "\n\n❌ Заявка отклонена"
	annotationClosed   = "\n\nЗаявка уже рассмотрена"
)

// prompts вопрос, который задаётся при входе на шаг
var prompts = map[entity.Step]string{
	entity.StepName:    msgAskName,
	entity.StepAddress: msgAskAddress,
	entity.StepPhone:   msgAskPhone,
}

// approvedText сообщение заявителю с одноразовой ссылкой.
func approvedText(invite entity.Invite) string {
	return fmt.Sprintf(
		"Ваша заявка одобрена.\n\n"+
			"Ссылка для вступления (одноразовая, действует до %s):\n%s",
		invite.ExpiresAt.UTC().Format("02.01.2006 15:04 UTC"),
		invite.URL,
	)
}
