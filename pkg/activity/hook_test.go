package activity

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func routable() Event {
	return Event{Verb: VerbSettingsUpdated, ObjectType: ObjectTypeSettings, ObjectID: "session-1"}
}

func TestHooksNotifyDropsUnroutableEvents(t *testing.T) {
	capture := &CaptureHook{}
	if err := (Hooks{capture}).Notify(context.Background(), Event{Verb: VerbSettingsDecoded}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if n := len(capture.Events()); n != 0 {
		t.Fatalf("expected nothing recorded, got %d", n)
	}
}

func TestHooksNotifyReachesEveryHookAndTagsFailures(t *testing.T) {
	capture := &CaptureHook{}
	sinkDown := errors.New("sink down")
	var sawContext bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			sawContext = ctx != nil
			return nil
		}),
		HookFunc(func(context.Context, Event) error { return sinkDown }),
		nil,
		capture,
	}

	err := hooks.Notify(nil, routable())
	if !errors.Is(err, sinkDown) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if !strings.Contains(err.Error(), "hook 1") {
		t.Fatalf("expected hook position in %q", err.Error())
	}
	if !sawContext {
		t.Fatalf("expected a non-nil context")
	}
	if n := len(capture.Events()); n != 1 {
		t.Fatalf("expected hooks after a failure to run, got %d events", n)
	}
}

func TestHooksCloneDropsNil(t *testing.T) {
	capture := &CaptureHook{}
	cloned := Hooks{nil, capture, nil}.Clone()
	if len(cloned) != 1 || cloned[0] != capture {
		t.Fatalf("expected only the capture hook, got %v", cloned)
	}
	if (Hooks{nil}).Clone() != nil || (Hooks{nil}).Clone().Enabled() {
		t.Fatalf("expected nil-only hooks to clone to nil")
	}
}

func TestCaptureHookByVerbAndReset(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	ctx := context.Background()
	_ = hooks.Notify(ctx, routable())
	_ = hooks.Notify(ctx, Event{Verb: VerbSettingsDecoded, ObjectType: ObjectTypeSettings, ObjectID: "pass-1"})
	_ = hooks.Notify(ctx, routable())

	if n := len(capture.ByVerb(VerbSettingsUpdated)); n != 2 {
		t.Fatalf("expected 2 updated events, got %d", n)
	}
	events := capture.Events()
	events[0].Verb = "changed"
	if capture.Events()[0].Verb != VerbSettingsUpdated {
		t.Fatalf("expected Events to return a copy")
	}
	capture.Reset()
	if n := len(capture.Events()); n != 0 {
		t.Fatalf("expected reset to clear events, got %d", n)
	}
}
