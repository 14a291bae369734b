package server

import "math"

// sanitizeNumber maps NaN and infinities to zero so untrusted input never
// poisons the simulation. Clamping happens afterwards.
func sanitizeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// clampPower bounds launch power to the legal range.
func clampPower(power float64) float64 {
	power = sanitizeNumber(power)
	if power < minPower {
		return minPower
	}
	if power > maxPower {
		return maxPower
	}
	return power
}

// clampAngle bounds the launch angle to the upward firing arc in the
// canonical right-facing frame. Mirroring for left-facing sessions happens
// after the clamp; the two orders produce different reachable arcs.
func clampAngle(angle float64) float64 {
	angle = sanitizeNumber(angle)
	if angle < minAngle {
		return minAngle
	}
	if angle > maxAngle {
		return maxAngle
	}
	return angle
}

// launchVelocity converts a clamped power/angle pair into a velocity vector,
// mirroring the angle when the shooter faces left.
func launchVelocity(power, angle float64, facing Facing) (vx, vy float64) {
	effective := angle
	if facing == FacingLeft {
		effective = math.Pi - angle
	}
	return math.Cos(effective) * power, math.Sin(effective) * power
}

// integrateProjectile advances one projectile by a fixed timestep: gravity
// into velocity first, then velocity into position.
func integrateProjectile(p *projectileState, dt float64) {
	p.VY += gravity * dt
	p.X += p.VX * dt
	p.Y += p.VY * dt
}

// outOfBounds reports whether a projectile has left the expanded arena box.
// Only the side and bottom edges are checked.
func outOfBounds(x, y float64) bool {
	return x < -boundsMargin || x > arenaWidth+boundsMargin || y > arenaHeight+boundsMargin
}

// hurtboxHit runs the circle-circle test between a projectile center and a
// player's hurtbox center, which sits half a body radius above the player's
// position rather than at the visual center.
func hurtboxHit(px, py, targetX, targetY float64) bool {
	dx := px - targetX
	dy := py - (targetY - playerRadius/2)
	reach := playerRadius + projectileRadius
	return dx*dx+dy*dy <= reach*reach
}
