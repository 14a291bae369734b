package server

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinReusesRoomWithFreeSlot(t *testing.T) {
	registry := NewRegistry(nil)

	first := registry.Join(testBase)
	second := registry.Join(testBase)

	assert.Equal(t, first.RoomID, second.RoomID, "the second player lands in the waiting room")
	assert.Equal(t, 0, first.Slot)
	assert.Equal(t, 1, second.Slot)
	assert.Equal(t, 1, registry.RoomCount())

	third := registry.Join(testBase)
	assert.NotEqual(t, first.RoomID, third.RoomID, "a full room is never handed out")
	assert.Equal(t, 0, third.Slot)
	assert.Equal(t, 2, registry.RoomCount())
}

func TestJoinRechecksStaleMatchmakerHandout(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Join(testBase)

	// Two racing joins can both be handed the same one-seat room before
	// either seats; the seat itself must turn the loser away.
	first := registry.findOrCreateRoom()
	second := registry.findOrCreateRoom()
	require.Same(t, first, second)

	_, ok := first.join(testBase, 0)
	require.True(t, ok)
	_, ok = second.join(testBase, 0)
	assert.False(t, ok, "the second seat into a filled room must fail")
}

func TestConcurrentJoinsNeverOverfillRooms(t *testing.T) {
	registry := NewRegistry(nil)

	const joiners = 64
	results := make(chan struct {
		roomID string
		slot   int
	}, joiners)

	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			joined := registry.Join(time.Now())
			results <- struct {
				roomID string
				slot   int
			}{joined.RoomID, joined.Slot}
		}()
	}
	wg.Wait()
	close(results)

	seats := make(map[string][]int)
	for joined := range results {
		seats[joined.roomID] = append(seats[joined.roomID], joined.slot)
	}

	seated := 0
	for roomID, slots := range seats {
		require.LessOrEqual(t, len(slots), 2, "room %s holds %d sessions", roomID, len(slots))
		sort.Ints(slots)
		if len(slots) == 2 {
			assert.Equal(t, []int{0, 1}, slots, "room %s slot assignment", roomID)
		} else {
			assert.Equal(t, []int{0}, slots, "room %s slot assignment", roomID)
		}
		seated += len(slots)
	}
	assert.Equal(t, joiners, seated)
}

func TestJoinSkipsRoomsWithWinner(t *testing.T) {
	registry := NewRegistry(nil)

	first := registry.Join(testBase)

	room, ok := registry.lookup(first.RoomID)
	require.True(t, ok)
	room.mu.Lock()
	room.winner = first.PlayerID
	room.mu.Unlock()

	second := registry.Join(testBase)
	assert.NotEqual(t, first.RoomID, second.RoomID, "a won room has no free seat until restart")
}

func TestFireAndRestartRejectUnknownRoom(t *testing.T) {
	registry := NewRegistry(nil)

	_, err := registry.Fire("missing", "nobody", 400, -1, testBase)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	assert.ErrorIs(t, registry.Restart("missing", testBase), ErrRoomNotFound)

	_, err = registry.Snapshot("missing", "nobody", testBase)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestStepSweepsIdleSessionsAndDeletesEmptyRooms(t *testing.T) {
	registry := NewRegistry(nil)

	first := registry.Join(testBase)
	second := registry.Join(testBase)
	require.Equal(t, first.RoomID, second.RoomID)

	// One session keeps polling, the other goes silent.
	_, err := registry.Snapshot(first.RoomID, second.PlayerID, testBase.Add(20*time.Second))
	require.NoError(t, err)

	registry.Step(testBase.Add(livenessWindow + time.Second))

	require.Equal(t, 1, registry.RoomCount())
	snapshot, err := registry.Snapshot(first.RoomID, second.PlayerID, testBase.Add(livenessWindow+2*time.Second))
	require.NoError(t, err)
	require.Len(t, snapshot.Players, 1)
	survivor := snapshot.Players[second.PlayerID]
	assert.Equal(t, 0, survivor.Slot, "the survivor is reseated on the left")
	assert.Equal(t, spawnInset, survivor.X)
	assert.False(t, snapshot.Started)

	// The swept session is gone for good.
	_, err = registry.Snapshot(first.RoomID, first.PlayerID, testBase.Add(livenessWindow+2*time.Second))
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// With nobody polling, the next sweep empties and deletes the room.
	registry.Step(testBase.Add(2*livenessWindow + 3*time.Second))
	assert.Equal(t, 0, registry.RoomCount())
	_, err = registry.Snapshot(first.RoomID, second.PlayerID, testBase.Add(2*livenessWindow+4*time.Second))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestStepAdvancesEveryActiveRoom(t *testing.T) {
	registry := NewRegistry(nil)

	first := registry.Join(testBase)
	registry.Join(testBase)

	result, err := registry.Fire(first.RoomID, first.PlayerID, 400, -1, testBase)
	require.NoError(t, err)
	require.True(t, result.OK)

	before, err := registry.SpectatorSnapshot(first.RoomID, testBase)
	require.NoError(t, err)
	require.Len(t, before.Projectiles, 1)

	registry.Step(testBase.Add(tickInterval()))

	after, err := registry.SpectatorSnapshot(first.RoomID, testBase.Add(tickInterval()))
	require.NoError(t, err)
	require.Len(t, after.Projectiles, 1)
	assert.NotEqual(t, before.Projectiles[0].X, after.Projectiles[0].X, "the tick moved the projectile")
	assert.Equal(t, uint64(1), registry.Tick())
}

func TestTelemetryCountersTrackActivity(t *testing.T) {
	registry := NewRegistry(nil)

	first := registry.Join(testBase)
	registry.Join(testBase)
	_, err := registry.Fire(first.RoomID, first.PlayerID, 400, -1, testBase)
	require.NoError(t, err)
	registry.Step(testBase.Add(tickInterval()))

	snap := registry.TelemetrySnapshot()
	assert.Equal(t, uint64(1), snap.RoomsOpened)
	assert.Equal(t, uint64(1), snap.FiresTotal)
	assert.Equal(t, uint64(1), snap.TicksTotal)
	assert.Equal(t, int64(1), snap.RoomsLive)
}
