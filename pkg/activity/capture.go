package activity

import (
	"context"
	"slices"
	"sync"
)

// CaptureHook records the events it receives. It is safe for concurrent
// use and is meant for tests and local inspection.
type CaptureHook struct {
	// Err is returned from Notify after the event is recorded.
	Err error

	mu     sync.Mutex
	events []Event
}

// Notify records event.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	h.events = append(h.events, event.Normalize(nil))
	h.mu.Unlock()
	return h.Err
}

// Events returns the recorded events in arrival order.
func (h *CaptureHook) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.events)
}

// ByVerb returns the recorded events with the given verb.
func (h *CaptureHook) ByVerb(verb string) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Event
	for _, event := range h.events {
		if event.Verb == verb {
			out = append(out, event)
		}
	}
	return out
}

// Reset forgets the recorded events.
func (h *CaptureHook) Reset() {
	h.mu.Lock()
	h.events = nil
	h.mu.Unlock()
}
