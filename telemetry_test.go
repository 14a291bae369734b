package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTelemetryTickTimingsKeepWorstCase(t *testing.T) {
	counters := newTelemetryCounters()
	counters.RecordTick(2 * time.Millisecond)
	counters.RecordTick(9 * time.Millisecond)
	counters.RecordTick(4 * time.Millisecond)

	snap := counters.Snapshot()
	assert.Equal(t, uint64(3), snap.TicksTotal)
	assert.Equal(t, int64(4000), snap.LastTickMicros)
	assert.Equal(t, int64(9000), snap.WorstTickMicros)
}

func TestTelemetrySweepIgnoresZeroRemovals(t *testing.T) {
	counters := newTelemetryCounters()
	counters.RecordSweep(0)
	counters.RecordSweep(2)
	counters.RecordSweep(1)

	assert.Equal(t, uint64(3), counters.Snapshot().SessionsSwept)
}

func TestTelemetryRoomChurn(t *testing.T) {
	counters := newTelemetryCounters()
	counters.RecordRoomOpened(1)
	counters.RecordRoomOpened(2)
	counters.RecordRoomClosed(1)

	snap := counters.Snapshot()
	assert.Equal(t, uint64(2), snap.RoomsOpened)
	assert.Equal(t, uint64(1), snap.RoomsClosed)
	assert.Equal(t, int64(1), snap.RoomsLive)
}
