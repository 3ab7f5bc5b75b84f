package events

import (
	"context"
	"sync"
)

// Recorder is a Publisher that keeps emitted events in memory, for tests
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Publisher
func (r *Recorder) Emit(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
