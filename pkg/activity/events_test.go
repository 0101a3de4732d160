package activity

import (
	"context"
	"errors"
	"testing"
)

func TestBuildSettingsDecodedEventIncludesPassMetadata(t *testing.T) {
	meta := map[string]any{"link": "items=iron-plate:f:2"}
	input := SettingsEventInput{
		ActorID:        " actor ",
		PassID:         "pass-1",
		Fields:         []string{"title", "items"},
		Diagnostics:    2,
		Metadata:       meta,
		DefinitionCode: "settings:decode",
		Recipients:     []string{"ops@example.com"},
		Channel:        "settings",
	}

	event := BuildSettingsDecodedEvent(input)

	if event.Verb != VerbSettingsDecoded {
		t.Fatalf("expected verb %s got %s", VerbSettingsDecoded, event.Verb)
	}
	if event.ObjectType != ObjectTypeSettings || event.ObjectID != "pass-1" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" {
		t.Fatalf("expected trimmed actor, got %q", event.ActorID)
	}
	if event.Metadata["pass_id"] != "pass-1" || event.Metadata["diagnostics"] != 2 {
		t.Fatalf("expected pass metadata, got %+v", event.Metadata)
	}
	fields, ok := event.Metadata["fields"].([]string)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected fields metadata, got %v", event.Metadata["fields"])
	}
	fields[0] = "changed"
	if input.Fields[0] != "title" {
		t.Fatalf("expected input fields untouched, got %v", input.Fields)
	}
	event.Recipients[0] = "changed"
	if input.Recipients[0] != "ops@example.com" {
		t.Fatalf("expected input recipients untouched, got %v", input.Recipients)
	}
	if _, ok := meta["pass_id"]; ok {
		t.Fatalf("expected input metadata untouched")
	}
}

func TestBuildSettingsDecodeFailedEventRecordsError(t *testing.T) {
	event := BuildSettingsDecodeFailedEvent(SettingsEventInput{Err: errors.New("bad kind")})
	if event.Verb != VerbSettingsDecodeFailed {
		t.Fatalf("expected verb %s got %s", VerbSettingsDecodeFailed, event.Verb)
	}
	if event.ObjectID != ObjectTypeSettings {
		t.Fatalf("expected fallback object ID, got %q", event.ObjectID)
	}
	if event.Metadata["error"] != "bad kind" {
		t.Fatalf("expected error metadata, got %v", event.Metadata["error"])
	}
}

func TestBuildSettingsUpdatedEventPrefersObjectID(t *testing.T) {
	event := BuildSettingsUpdatedEvent(SettingsEventInput{ObjectID: "session-7", PassID: "pass-2", Revision: 3})
	if event.ObjectID != "session-7" {
		t.Fatalf("expected explicit object ID, got %q", event.ObjectID)
	}
	if event.Metadata["revision"] != uint64(3) {
		t.Fatalf("expected revision metadata, got %v", event.Metadata["revision"])
	}
}

func TestBuildSettingsEventsWorkWithHooks(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}

	if err := hooks.Notify(context.Background(), BuildSettingsDecodedEvent(SettingsEventInput{})); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(capture.Events()) != 1 {
		t.Fatalf("expected capture to record event, got %d", len(capture.Events()))
	}
	if capture.Events()[0].Verb != VerbSettingsDecoded {
		t.Fatalf("expected verb %s, got %s", VerbSettingsDecoded, capture.Events()[0].Verb)
	}
}
