package server

import (
	"math"
	"time"
)

const (
	tickRate  = 60 // simulation ticks per second
	fixedStep = 1.0 / float64(tickRate)

	arenaWidth       = 1000.0
	arenaHeight      = 560.0
	playerRadius     = 28.0
	projectileRadius = 8.0

	// Spawn geometry. Slot 0 spawns on the left facing right, slot 1
	// mirrored on the right facing left. Players stand on the arena floor.
	spawnInset = 140.0
	spawnY     = arenaHeight - playerRadius

	playerMaxHP = 5

	gravity = 900.0 // units per second squared, downward

	minPower = 150.0
	maxPower = 900.0

	// Launch arc in the canonical right-facing frame. Angles are clamped
	// here first, then mirrored for left-facing sessions.
	minAngle = -math.Pi + 0.15
	maxAngle = -0.15

	fireCooldown       = 1500 * time.Millisecond
	hitCooldown        = 900 * time.Millisecond
	projectileLifetime = 6000 * time.Millisecond

	// Projectiles expire once they leave the arena by this margin on the
	// left, right, or bottom edge. The top edge stays open so lobbed shots
	// can arc above the screen.
	boundsMargin = 100.0

	livenessWindow = 30 * time.Second
)

// TickRate exposes the simulation cadence for diagnostics.
func TickRate() int {
	return tickRate
}

// LivenessWindow exposes the session timeout for diagnostics.
func LivenessWindow() time.Duration {
	return livenessWindow
}
