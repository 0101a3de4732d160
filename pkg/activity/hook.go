package activity

import (
	"context"
	"errors"
	"fmt"
)

// Hook receives settings events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event Event) error

// Notify calls fn.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks is an ordered set of hooks notified one after another.
type Hooks []Hook

// Clone returns h without nil entries, or nil when none remain.
func (h Hooks) Clone() Hooks {
	var out Hooks
	for _, hook := range h {
		if hook != nil {
			out = append(out, hook)
		}
	}
	return out
}

// Enabled reports whether h holds any hook.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify normalizes event once and hands it to every hook in order.
// Events that are not routable are dropped. A failing hook does not stop
// the others; failures are joined and tagged with the hook position.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 || !event.Routable() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	event = event.Normalize(nil)

	var errs []error
	for i, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("activity: hook %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
