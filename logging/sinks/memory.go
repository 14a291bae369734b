package sinks

import (
	"context"
	"sync"

	"cannonade/server/logging"
)

// MemorySink records every event it receives so tests can assert on the
// routed stream.
type MemorySink struct {
	mu       sync.Mutex
	recorded []logging.Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, detachEvent(event))
	return nil
}

// Events returns a snapshot of everything recorded so far, in arrival order.
func (s *MemorySink) Events() []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]logging.Event(nil), s.recorded...)
}

// Len reports how many events have been recorded.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recorded)
}

func (s *MemorySink) Close(context.Context) error {
	return nil
}

// detachEvent copies the slices and maps an event shares with its producer,
// so later mutation by the producer cannot corrupt the recording.
func detachEvent(event logging.Event) logging.Event {
	if len(event.Targets) > 0 {
		event.Targets = append([]logging.EntityRef(nil), event.Targets...)
	}
	if len(event.Extra) > 0 {
		extra := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			extra[k] = v
		}
		event.Extra = extra
	}
	return event
}
