package server

import (
	"time"

	"cannonade/server/internal/net/proto"
)

// Facing identifies which direction a session launches shots from.
type Facing string

const (
	FacingRight Facing = "right"
	FacingLeft  Facing = "left"
)

// facingForSlot derives the fixed facing from a spawn slot.
func facingForSlot(slot int) Facing {
	if slot == 1 {
		return FacingLeft
	}
	return FacingRight
}

// spawnForSlot returns the spawn point for a slot. Slot 0 spawns on the
// left, slot 1 mirrored on the right.
func spawnForSlot(slot int) (x, y float64) {
	if slot == 1 {
		return arenaWidth - spawnInset, spawnY
	}
	return spawnInset, spawnY
}

// playerState holds one session's authoritative combat state. The simulation
// never moves a living player; position changes only on spawn and reset.
type playerState struct {
	id            string
	slot          int
	x             float64
	y             float64
	hp            int
	facing        Facing
	cooldownUntil time.Time
	lastSeen      time.Time
}

func newPlayerState(id string, slot int, now time.Time) *playerState {
	p := &playerState{id: id, lastSeen: now}
	p.assignSlot(slot)
	return p
}

// assignSlot rebuilds every combat field from the slot while preserving the
// session's identity and liveness clock. Used on spawn, restart, and when a
// lone survivor is reseated after a sweep.
func (p *playerState) assignSlot(slot int) {
	p.slot = slot
	p.x, p.y = spawnForSlot(slot)
	p.hp = playerMaxHP
	p.facing = facingForSlot(slot)
	p.cooldownUntil = time.Time{}
}

// applyHit decrements hit points and reports whether the session was
// eliminated by this hit.
func (p *playerState) applyHit() bool {
	if p.hp <= 0 {
		return false
	}
	p.hp--
	return p.hp == 0
}

func (p *playerState) alive() bool {
	return p.hp > 0
}

// snapshot renders the wire view of the session.
func (p *playerState) snapshot() proto.Player {
	var cooldown int64
	if !p.cooldownUntil.IsZero() {
		cooldown = p.cooldownUntil.UnixMilli()
	}
	return proto.Player{
		ID:            p.id,
		Slot:          p.slot,
		X:             p.x,
		Y:             p.y,
		HP:            p.hp,
		Facing:        string(p.facing),
		CooldownUntil: cooldown,
	}
}
