package lifecycle

import (
	"context"

	"cannonade/server/logging"
)

const (
	// EventSessionJoined is emitted when a player joins a room.
	EventSessionJoined logging.EventType = "lifecycle.session_joined"
	// EventSessionTimedOut is emitted when the sweep removes an idle session.
	EventSessionTimedOut logging.EventType = "lifecycle.session_timed_out"
	// EventRoomClosed is emitted when an empty room leaves the registry.
	EventRoomClosed logging.EventType = "lifecycle.room_closed"
	// EventMatchRestarted is emitted on an explicit restart action.
	EventMatchRestarted logging.EventType = "lifecycle.match_restarted"
)

// SessionJoinedPayload captures spawn metadata for a new session.
type SessionJoinedPayload struct {
	Slot   int     `json:"slot"`
	SpawnX float64 `json:"spawnX"`
	SpawnY float64 `json:"spawnY"`
}

// SessionJoined publishes a join event.
func SessionJoined(ctx context.Context, pub logging.Publisher, tick uint64, roomID string, actor logging.EntityRef, payload SessionJoinedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSessionJoined,
		Tick:     tick,
		Room:     roomID,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// SessionTimedOut publishes a liveness-sweep removal.
func SessionTimedOut(ctx context.Context, pub logging.Publisher, tick uint64, roomID string, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSessionTimedOut,
		Tick:     tick,
		Room:     roomID,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryLifecycle,
	})
}

// RoomClosed publishes the removal of an empty room.
func RoomClosed(ctx context.Context, pub logging.Publisher, tick uint64, roomID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRoomClosed,
		Tick:     tick,
		Room:     roomID,
		Actor:    logging.RoomRef(roomID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}

// MatchRestarted publishes an explicit round reset.
func MatchRestarted(ctx context.Context, pub logging.Publisher, tick uint64, roomID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMatchRestarted,
		Tick:     tick,
		Room:     roomID,
		Actor:    logging.RoomRef(roomID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}
