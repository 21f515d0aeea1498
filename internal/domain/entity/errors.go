package entity

import "errors"

var (
	// ErrValidationRejected ответ не прошёл проверку шага, сессия не изменилась.
	ErrValidationRejected = errors.New("answer rejected")

	// ErrDuplicateSubmission у пользователя уже есть заявка на рассмотрении.
	ErrDuplicateSubmission = errors.New("submission already pending")

	// ErrNoDialogue сообщение пришло вне диалога.
	ErrNoDialogue = errors.New("no dialogue in progress")

	// ErrDelivery не удалось доставить сообщение получателю.
	ErrDelivery = errors.New("delivery failed")

	// ErrIssuance не удалось создать ссылку-приглашение.
	ErrIssuance = errors.New("invite issuance failed")

	// ErrMalformedDecision данные кнопки не разбираются.
	ErrMalformedDecision = errors.New("malformed decision")

	// ErrUnauthorizedModerator решение пришло не от модератора.
	ErrUnauthorizedModerator = errors.New("not a moderator")

	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)
