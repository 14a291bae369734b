package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"cannonade/server/internal/net/proto"
	"cannonade/server/logging"
	"cannonade/server/logging/lifecycle"
)

// Registry owns every live room and drives them all from a single
// fixed-rate simulation loop. Rooms are created on demand by the matchmaker
// and deleted once the liveness sweep empties them.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	tick  atomic.Uint64

	publisher logging.Publisher
	telemetry *telemetryCounters
}

func NewRegistry(pub logging.Publisher) *Registry {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Registry{
		rooms:     make(map[string]*Room),
		publisher: pub,
		telemetry: newTelemetryCounters(),
	}
}

// TelemetrySnapshot exposes counter values for the diagnostics endpoint.
func (g *Registry) TelemetrySnapshot() TelemetrySnapshot {
	return g.telemetry.Snapshot()
}

// Join seats a new session, reusing the first room with a free slot and no
// winner or creating a fresh one. A room handed out by the matchmaker may
// fill up before the seat lands, so Join retries until a seat sticks; a
// fresh room always accepts, so the loop terminates.
func (g *Registry) Join(now time.Time) proto.JoinResponse {
	for {
		room := g.findOrCreateRoom()
		player, ok := room.join(now, g.tick.Load())
		if !ok {
			continue
		}
		return proto.JoinResponse{
			RoomID:   room.ID(),
			PlayerID: player.ID,
			Slot:     player.Slot,
		}
	}
}

// findOrCreateRoom scans existing rooms in arbitrary order and returns the
// first joinable one, else allocates a fresh room under the registry lock.
func (g *Registry) findOrCreateRoom() *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, room := range g.rooms {
		room.mu.Lock()
		joinable := room.joinableLocked()
		room.mu.Unlock()
		if joinable {
			return room
		}
	}

	room := newRoom(g.publisher, g.telemetry)
	g.rooms[room.id] = room
	if g.telemetry != nil {
		g.telemetry.RecordRoomOpened(len(g.rooms))
	}
	return room
}

// Snapshot renders the room state for a polling session, refreshing that
// session's liveness clock.
func (g *Registry) Snapshot(roomID, playerID string, now time.Time) (proto.StateSnapshot, error) {
	room, ok := g.lookup(roomID)
	if !ok {
		return proto.StateSnapshot{}, ErrRoomNotFound
	}
	return room.snapshot(playerID, now)
}

// SpectatorSnapshot renders the room state without touching liveness.
func (g *Registry) SpectatorSnapshot(roomID string, now time.Time) (proto.StateSnapshot, error) {
	room, ok := g.lookup(roomID)
	if !ok {
		return proto.StateSnapshot{}, ErrRoomNotFound
	}
	return room.spectatorSnapshot(now), nil
}

// Fire validates and applies a fire action for a session.
func (g *Registry) Fire(roomID, playerID string, power, angle float64, now time.Time) (FireResult, error) {
	room, ok := g.lookup(roomID)
	if !ok {
		return FireResult{}, ErrRoomNotFound
	}
	return room.fire(playerID, power, angle, now, g.tick.Load())
}

// Restart begins a fresh round in a room.
func (g *Registry) Restart(roomID string, now time.Time) error {
	room, ok := g.lookup(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	room.restart(now, g.tick.Load())
	return nil
}

func (g *Registry) lookup(roomID string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[roomID]
	return room, ok
}

// RoomCount reports the number of live rooms for diagnostics.
func (g *Registry) RoomCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Tick reports the current simulation tick.
func (g *Registry) Tick() uint64 {
	return g.tick.Load()
}

// RunSimulation drives the fixed-rate tick loop until the stop channel
// closes. Physics always advances by the fixed timestep regardless of
// wall-clock drift between ticks.
func (g *Registry) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			g.Step(now)
		}
	}
}

// Step advances physics, collisions, and the liveness sweep for every room.
// Exposed so tests can drive the clock deterministically.
func (g *Registry) Step(now time.Time) {
	tick := g.tick.Add(1)
	started := time.Now()

	g.mu.RLock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		rooms = append(rooms, room)
	}
	g.mu.RUnlock()

	for _, room := range rooms {
		room.advance(now, fixedStep, tick)
		if _, empty := room.sweep(now, tick); empty {
			g.removeRoom(room.id, tick)
		}
	}

	if g.telemetry != nil {
		g.telemetry.RecordTick(time.Since(started))
	}
}

func (g *Registry) removeRoom(roomID string, tick uint64) {
	g.mu.Lock()
	if _, ok := g.rooms[roomID]; !ok {
		g.mu.Unlock()
		return
	}
	delete(g.rooms, roomID)
	remaining := len(g.rooms)
	g.mu.Unlock()

	if g.telemetry != nil {
		g.telemetry.RecordRoomClosed(remaining)
	}
	lifecycle.RoomClosed(context.Background(), g.publisher, tick, roomID)
}
