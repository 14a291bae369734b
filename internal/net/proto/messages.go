package proto

import "encoding/json"

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Player is the wire representation of one combatant.
type Player struct {
	ID            string  `json:"id"`
	Slot          int     `json:"slot"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	HP            int     `json:"hp"`
	Facing        string  `json:"facing"`
	CooldownUntil int64   `json:"cooldownUntil"`
}

// Projectile is the wire representation of one live shot.
type Projectile struct {
	ID    string  `json:"id"`
	Owner string  `json:"owner"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
}

// Arena carries the fixed playfield dimensions clients render against.
type Arena struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// JoinResponse answers POST /join.
type JoinResponse struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Slot     int    `json:"slot"`
}

// StateSnapshot answers GET /state and is also pushed to spectator sockets.
// Winner is null until a session's hit points reach zero.
type StateSnapshot struct {
	Arena       Arena             `json:"arena"`
	Started     bool              `json:"started"`
	Winner      *string           `json:"winner"`
	Players     map[string]Player `json:"players"`
	Projectiles []Projectile      `json:"projectiles"`
	ServerTime  int64             `json:"serverTime"`
}

// FireRequest is the body of POST /fire. Power and Angle stay raw so
// malformed values coerce to zero instead of failing the decode.
type FireRequest struct {
	RoomID   string          `json:"roomId"`
	PlayerID string          `json:"playerId"`
	Power    json.RawMessage `json:"power"`
	Angle    json.RawMessage `json:"angle"`
}

// FireResponse reports the outcome of a fire attempt. CooldownUntil is
// populated only when the shot was refused by the fire-rate limiter.
type FireResponse struct {
	OK            bool  `json:"ok"`
	CooldownUntil int64 `json:"cooldownUntil,omitempty"`
}

// RestartRequest is the body of POST /restart.
type RestartRequest struct {
	RoomID string `json:"roomId"`
}

// RestartResponse acknowledges a restart.
type RestartResponse struct {
	OK bool `json:"ok"`
}

// Number decodes a raw JSON value into a float64, treating anything that is
// not a finite number as zero. Clients are untrusted; the caller clamps the
// result afterwards.
func Number(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0
	}
	return value
}
