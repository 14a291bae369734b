package server

import (
	"time"

	"cannonade/server/internal/net/proto"
)

// projectileState tracks one live shot. Projectiles are created only by a
// successful fire action and removed only by the tick loop: expiry, leaving
// the arena, or a scoring hit.
type projectileState struct {
	id        string
	owner     string
	X, Y      float64
	VX, VY    float64
	createdAt time.Time
}

func (p *projectileState) expired(now time.Time) bool {
	return now.Sub(p.createdAt) > projectileLifetime
}

func (p *projectileState) snapshot() proto.Projectile {
	return proto.Projectile{
		ID:    p.id,
		Owner: p.owner,
		X:     p.X,
		Y:     p.Y,
		VX:    p.VX,
		VY:    p.VY,
	}
}
