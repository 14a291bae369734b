package server

import (
	"sync/atomic"
	"time"
)

// telemetryCounters tracks simulation activity with lock-free counters so
// the tick loop never stalls on bookkeeping.
type telemetryCounters struct {
	ticksTotal      atomic.Uint64
	firesTotal      atomic.Uint64
	hitsTotal       atomic.Uint64
	sessionsSwept   atomic.Uint64
	roomsOpened     atomic.Uint64
	roomsClosed     atomic.Uint64
	roomsLive       atomic.Int64
	lastTickMicros  atomic.Int64
	worstTickMicros atomic.Int64
}

// TelemetrySnapshot is the diagnostics view of the counters.
type TelemetrySnapshot struct {
	TicksTotal      uint64 `json:"ticksTotal"`
	FiresTotal      uint64 `json:"firesTotal"`
	HitsTotal       uint64 `json:"hitsTotal"`
	SessionsSwept   uint64 `json:"sessionsSwept"`
	RoomsOpened     uint64 `json:"roomsOpened"`
	RoomsClosed     uint64 `json:"roomsClosed"`
	RoomsLive       int64  `json:"roomsLive"`
	LastTickMicros  int64  `json:"lastTickMicros"`
	WorstTickMicros int64  `json:"worstTickMicros"`
}

func newTelemetryCounters() *telemetryCounters {
	return &telemetryCounters{}
}

func (t *telemetryCounters) RecordTick(elapsed time.Duration) {
	t.ticksTotal.Add(1)
	micros := elapsed.Microseconds()
	t.lastTickMicros.Store(micros)
	for {
		worst := t.worstTickMicros.Load()
		if micros <= worst || t.worstTickMicros.CompareAndSwap(worst, micros) {
			return
		}
	}
}

func (t *telemetryCounters) RecordFire() {
	t.firesTotal.Add(1)
}

func (t *telemetryCounters) RecordHit() {
	t.hitsTotal.Add(1)
}

func (t *telemetryCounters) RecordSweep(removed int) {
	if removed > 0 {
		t.sessionsSwept.Add(uint64(removed))
	}
}

func (t *telemetryCounters) RecordRoomOpened(live int) {
	t.roomsOpened.Add(1)
	t.roomsLive.Store(int64(live))
}

func (t *telemetryCounters) RecordRoomClosed(live int) {
	t.roomsClosed.Add(1)
	t.roomsLive.Store(int64(live))
}

func (t *telemetryCounters) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		TicksTotal:      t.ticksTotal.Load(),
		FiresTotal:      t.firesTotal.Load(),
		HitsTotal:       t.hitsTotal.Load(),
		SessionsSwept:   t.sessionsSwept.Load(),
		RoomsOpened:     t.roomsOpened.Load(),
		RoomsClosed:     t.roomsClosed.Load(),
		RoomsLive:       t.roomsLive.Load(),
		LastTickMicros:  t.lastTickMicros.Load(),
		WorstTickMicros: t.worstTickMicros.Load(),
	}
}
