package server

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPower(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"below minimum", 10, minPower},
		{"zero", 0, minPower},
		{"negative", -500, minPower},
		{"nan coerces to zero then clamps", math.NaN(), minPower},
		{"positive infinity", math.Inf(1), minPower},
		{"above maximum", 5000, maxPower},
		{"in range", 400, 400},
		{"exact minimum", minPower, minPower},
		{"exact maximum", maxPower, maxPower},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clampPower(tc.input))
		})
	}
}

func TestClampAngle(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"zero clamps to near-horizontal", 0, maxAngle},
		{"straight up clamps to arc edge", -math.Pi, minAngle},
		{"below arc", -10, minAngle},
		{"nan coerces to zero then clamps", math.NaN(), maxAngle},
		{"in range", -1.2, -1.2},
		{"positive angle clamps down", 2, maxAngle},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clampAngle(tc.input))
		})
	}
}

func TestLaunchVelocityMirrorsForLeftFacing(t *testing.T) {
	angle := -0.5
	power := 600.0

	rightVX, rightVY := launchVelocity(power, angle, FacingRight)
	leftVX, leftVY := launchVelocity(power, angle, FacingLeft)

	require.InDelta(t, power*math.Cos(angle), rightVX, 1e-9)
	require.InDelta(t, power*math.Sin(angle), rightVY, 1e-9)

	// The mirrored shot flies left with the same upward component.
	assert.InDelta(t, -rightVX, leftVX, 1e-9)
	assert.InDelta(t, rightVY, leftVY, 1e-9)
}

func TestLaunchAngleAlwaysInsideArc(t *testing.T) {
	// Whatever the client submits, the effective angle must stay inside the
	// clamped arc mapped through the facing mirror.
	inputs := []float64{0, 1, -1, 100, -100, math.Pi, -math.Pi, math.NaN(), math.Inf(1), math.Inf(-1), -0.0001}
	for _, raw := range inputs {
		angle := clampAngle(raw)
		require.GreaterOrEqual(t, angle, minAngle)
		require.LessOrEqual(t, angle, maxAngle)

		vx, vy := launchVelocity(clampPower(0), angle, FacingLeft)
		effective := math.Atan2(vy, vx)
		mirrored := math.Pi - angle
		if mirrored > math.Pi {
			mirrored -= 2 * math.Pi
		}
		assert.InDelta(t, mirrored, effective, 1e-9, "input %v", raw)
	}
}

func TestIntegrateProjectileAppliesGravityBeforePosition(t *testing.T) {
	shot := &projectileState{X: 100, Y: 200, VX: 60, VY: -30}
	integrateProjectile(shot, fixedStep)

	wantVY := -30 + gravity*fixedStep
	assert.InDelta(t, wantVY, shot.VY, 1e-9)
	assert.InDelta(t, 100+60*fixedStep, shot.X, 1e-9)
	assert.InDelta(t, 200+wantVY*fixedStep, shot.Y, 1e-9)
}

func TestOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside arena", 500, 300, false},
		{"just inside left margin", -99, 300, false},
		{"past left margin", -101, 300, true},
		{"past right margin", arenaWidth + 101, 300, true},
		{"high above the arena stays live", 500, -5000, false},
		{"below the floor margin", 500, arenaHeight + 101, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, outOfBounds(tc.x, tc.y))
		})
	}
}

func TestHurtboxHitUsesRaisedCenter(t *testing.T) {
	targetX, targetY := 500.0, spawnY

	// Dead on the raised hurtbox center.
	assert.True(t, hurtboxHit(targetX, targetY-playerRadius/2, targetX, targetY))

	// At the visual center the test still passes because the offset is
	// smaller than the combined radii.
	assert.True(t, hurtboxHit(targetX, targetY, targetX, targetY))

	// Just outside the combined radius around the raised center.
	reach := playerRadius + projectileRadius
	assert.False(t, hurtboxHit(targetX+reach+1, targetY-playerRadius/2, targetX, targetY))
	assert.True(t, hurtboxHit(targetX+reach-1, targetY-playerRadius/2, targetX, targetY))
}
