package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"cannonade/server/internal/net/proto"
	"cannonade/server/logging"
	"cannonade/server/logging/combat"
	"cannonade/server/logging/lifecycle"
)

// FireResult reports the outcome of a fire attempt that was not rejected
// outright. A cooldown refusal is an expected condition, not an error, so the
// caller can hand the deadline back to the client.
type FireResult struct {
	OK            bool
	CooldownUntil time.Time
}

// Room is one isolated match holding up to two sessions and their live
// projectiles. Every read and write of room state happens under the room
// mutex, so a fire action and a physics tick can never interleave
// mid-mutation.
type Room struct {
	mu          sync.Mutex
	id          string
	players     map[string]*playerState
	projectiles []*projectileState
	started     bool
	winner      string
	lastHitAt   time.Time
	nextShot    uint64

	publisher logging.Publisher
	telemetry *telemetryCounters
}

func newRoom(pub logging.Publisher, tel *telemetryCounters) *Room {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Room{
		id:        uuid.NewString(),
		players:   make(map[string]*playerState),
		publisher: pub,
		telemetry: tel,
	}
}

// ID returns the room's opaque identity.
func (r *Room) ID() string {
	return r.id
}

// joinableLocked reports whether the matchmaker may hand this room out.
func (r *Room) joinableLocked() bool {
	return len(r.players) < 2 && r.winner == ""
}

// join seats a new session in the next free slot. The joinability check
// repeats under the room mutex: the matchmaker's answer may be stale by the
// time the seat happens, and a second concurrent joiner must be turned away
// rather than seated third.
func (r *Room) join(now time.Time, tick uint64) (proto.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.joinableLocked() {
		return proto.Player{}, false
	}

	slot := 0
	if len(r.players) == 1 {
		slot = 1
	}
	state := newPlayerState(uuid.NewString(), slot, now)
	r.players[state.id] = state
	r.started = len(r.players) == 2

	lifecycle.SessionJoined(context.Background(), r.publisher, tick, r.id,
		logging.PlayerRef(state.id),
		lifecycle.SessionJoinedPayload{Slot: slot, SpawnX: state.x, SpawnY: state.y})

	return state.snapshot(), true
}

// fire validates and applies a fire action. Power and angle are clamped in
// the canonical right-facing frame, then mirrored for left-facing sessions.
func (r *Room) fire(playerID string, power, angle float64, now time.Time, tick uint64) (FireResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.players[playerID]
	if !ok {
		return FireResult{}, ErrSessionNotFound
	}
	if r.winner != "" {
		return FireResult{}, ErrMatchFinished
	}
	if now.Before(state.cooldownUntil) {
		return FireResult{OK: false, CooldownUntil: state.cooldownUntil}, nil
	}

	power = clampPower(power)
	angle = clampAngle(angle)
	vx, vy := launchVelocity(power, angle, state.facing)

	// Cooldown starts on acceptance, whether or not the shot ever scores.
	state.cooldownUntil = now.Add(fireCooldown)

	r.nextShot++
	shot := &projectileState{
		id:        fmt.Sprintf("shot-%d", r.nextShot),
		owner:     playerID,
		X:         state.x,
		Y:         state.y - playerRadius,
		VX:        vx,
		VY:        vy,
		createdAt: now,
	}
	r.projectiles = append(r.projectiles, shot)

	if r.telemetry != nil {
		r.telemetry.RecordFire()
	}
	combat.ProjectileFired(context.Background(), r.publisher, tick, r.id,
		logging.PlayerRef(playerID), logging.ProjectileRef(shot.id),
		combat.ProjectileFiredPayload{Power: power, Angle: angle, VX: vx, VY: vy})

	return FireResult{OK: true}, nil
}

// restart begins a fresh round with the same combatants: projectiles,
// winner, and the hit-cooldown clock are cleared, and every session's combat
// fields are rebuilt from its slot while identity and liveness survive.
func (r *Room) restart(now time.Time, tick uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.projectiles = nil
	r.winner = ""
	r.lastHitAt = time.Time{}
	for _, state := range r.players {
		state.assignSlot(state.slot)
	}

	lifecycle.MatchRestarted(context.Background(), r.publisher, tick, r.id)
}

// snapshot renders the wire view for one polling session and refreshes that
// session's liveness clock.
func (r *Room) snapshot(playerID string, now time.Time) (proto.StateSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.players[playerID]
	if !ok {
		return proto.StateSnapshot{}, ErrSessionNotFound
	}
	state.lastSeen = now

	return r.snapshotLocked(now), nil
}

// spectatorSnapshot renders the wire view without touching liveness. Used by
// the read-only watch stream.
func (r *Room) spectatorSnapshot(now time.Time) proto.StateSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(now)
}

func (r *Room) snapshotLocked(now time.Time) proto.StateSnapshot {
	players := make(map[string]proto.Player, len(r.players))
	for id, state := range r.players {
		players[id] = state.snapshot()
	}
	projectiles := make([]proto.Projectile, 0, len(r.projectiles))
	for _, shot := range r.projectiles {
		projectiles = append(projectiles, shot.snapshot())
	}
	var winner *string
	if r.winner != "" {
		w := r.winner
		winner = &w
	}
	return proto.StateSnapshot{
		Arena:       proto.Arena{Width: arenaWidth, Height: arenaHeight},
		Started:     r.started,
		Winner:      winner,
		Players:     players,
		Projectiles: projectiles,
		ServerTime:  now.UnixMilli(),
	}
}

// advance runs one fixed physics step: integrate every live projectile, then
// apply the removal predicate in order (expiry, bounds, collision). Rooms
// that have not started or already have a winner are frozen.
func (r *Room) advance(now time.Time, dt float64, tick uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started || r.winner != "" {
		return
	}

	kept := r.projectiles[:0]
	for _, shot := range r.projectiles {
		integrateProjectile(shot, dt)

		if shot.expired(now) {
			continue
		}
		if outOfBounds(shot.X, shot.Y) {
			continue
		}
		if r.resolveHitLocked(shot, now, tick) {
			continue
		}
		kept = append(kept, shot)
	}
	// Keep the tail clear so dropped projectiles are collectable.
	for i := len(kept); i < len(r.projectiles); i++ {
		r.projectiles[i] = nil
	}
	r.projectiles = kept
}

// resolveHitLocked tests a projectile against the first living opposing
// session and applies the hit when the room-wide hit cooldown allows it.
// Returns true when the projectile should be removed. An overlap inside the
// cooldown window leaves the projectile in flight.
func (r *Room) resolveHitLocked(shot *projectileState, now time.Time, tick uint64) bool {
	for id, target := range r.players {
		if id == shot.owner || !target.alive() {
			continue
		}
		if !hurtboxHit(shot.X, shot.Y, target.x, target.y) {
			continue
		}
		if !r.lastHitAt.IsZero() && now.Sub(r.lastHitAt) < hitCooldown {
			return false
		}

		eliminated := target.applyHit()
		r.lastHitAt = now
		if r.telemetry != nil {
			r.telemetry.RecordHit()
		}
		combat.HitLanded(context.Background(), r.publisher, tick, r.id,
			logging.PlayerRef(shot.owner), logging.PlayerRef(id),
			combat.HitLandedPayload{RemainingHP: target.hp})

		if eliminated {
			r.winner = shot.owner
			combat.MatchWon(context.Background(), r.publisher, tick, r.id,
				logging.PlayerRef(shot.owner), logging.PlayerRef(id))
		}
		return true
	}
	return false
}

// sweep drops sessions that have not polled within the liveness window.
// When exactly one session survives it is reseated into slot 0 and the match
// state resets, so a later joiner always lands in slot 1 on the right side.
func (r *Room) sweep(now time.Time, tick uint64) (removed []string, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, state := range r.players {
		if now.Sub(state.lastSeen) > livenessWindow {
			delete(r.players, id)
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil, false
	}

	for _, id := range removed {
		lifecycle.SessionTimedOut(context.Background(), r.publisher, tick, r.id, logging.PlayerRef(id))
	}
	if r.telemetry != nil {
		r.telemetry.RecordSweep(len(removed))
	}

	r.started = len(r.players) == 2
	if len(r.players) == 1 {
		r.projectiles = nil
		r.winner = ""
		r.lastHitAt = time.Time{}
		for _, state := range r.players {
			state.assignSlot(0)
		}
	}
	return removed, len(r.players) == 0
}
