package container

import (
	"log/slog"

	app "admission-bot/internal/application"
	"admission-bot/internal/domain/entity"
	"admission-bot/internal/domain/port"
)

type Container struct {
	DialogueService *app.DialogueService
	DecisionService *app.DecisionService
	NotifierService *app.NotifierService
}

// Deps внешние зависимости сервисов.
type Deps struct {
	Sessions   port.SessionRepository
	Gate       port.AdmissionGate
	Messenger  port.Messenger
	Issuer     port.InviteIssuer
	Moderators entity.ModeratorSet
	Policy     app.DecisionPolicy
	Logger     *slog.Logger
}

func New(deps Deps) *Container {
	notifierService := app.NewNotifierService(deps.Messenger, deps.Moderators, deps.Logger)
	dialogueService := app.NewDialogueService(deps.Sessions, deps.Gate, deps.Messenger, notifierService, deps.Logger)
	decisionService := app.NewDecisionService(deps.Gate, deps.Messenger, deps.Issuer, deps.Moderators, deps.Policy, deps.Logger)

	return &Container{
		DialogueService: dialogueService,
		DecisionService: decisionService,
		NotifierService: notifierService,
	}
}
