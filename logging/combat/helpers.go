package combat

import (
	"context"

	"cannonade/server/logging"
)

const (
	// EventProjectileFired is emitted on every accepted fire action.
	EventProjectileFired logging.EventType = "combat.projectile_fired"
	// EventHitLanded is emitted when a projectile scores a hit.
	EventHitLanded logging.EventType = "combat.hit_landed"
	// EventMatchWon is emitted when a hit drops a session to zero hit points.
	EventMatchWon logging.EventType = "combat.match_won"
)

// ProjectileFiredPayload captures the clamped launch parameters.
type ProjectileFiredPayload struct {
	Power float64 `json:"power"`
	Angle float64 `json:"angle"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
}

// HitLandedPayload captures the target's remaining hit points.
type HitLandedPayload struct {
	RemainingHP int `json:"remainingHp"`
}

// ProjectileFired publishes a fire event.
func ProjectileFired(ctx context.Context, pub logging.Publisher, tick uint64, roomID string, actor logging.EntityRef, projectile logging.EntityRef, payload ProjectileFiredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventProjectileFired,
		Tick:     tick,
		Room:     roomID,
		Actor:    actor,
		Targets:  []logging.EntityRef{projectile},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// HitLanded publishes a scoring-hit event.
func HitLanded(ctx context.Context, pub logging.Publisher, tick uint64, roomID string, shooter, target logging.EntityRef, payload HitLandedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHitLanded,
		Tick:     tick,
		Room:     roomID,
		Actor:    shooter,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// MatchWon publishes the match outcome.
func MatchWon(ctx context.Context, pub logging.Publisher, tick uint64, roomID string, winner, loser logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMatchWon,
		Tick:     tick,
		Room:     roomID,
		Actor:    winner,
		Targets:  []logging.EntityRef{loser},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
	})
}
