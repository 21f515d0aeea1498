package entity

import "time"

// Invite одноразовая ссылка-приглашение в канал.
type Invite struct {
	URL       string
	ExpiresAt time.Time
	MaxUses   int
}
