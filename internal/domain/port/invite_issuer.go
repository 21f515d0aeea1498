package port

import (
	"context"
	"time"

	"admission-bot/internal/domain/entity"
)

// InviteIssuer создаёт ссылки-приглашения в канал
type InviteIssuer interface {
	// IssueInvite создаёт ссылку с ограничением числа входов и сроком жизни
	IssueInvite(ctx context.Context, channelID int64, maxUses int, ttl time.Duration) (entity.Invite, error)
}
