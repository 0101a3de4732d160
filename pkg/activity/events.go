package activity

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Verbs emitted by the settings decoder and session.
const (
	VerbSettingsDecoded      = "settings.decoded"
	VerbSettingsDecodeFailed = "settings.decode.failed"
	VerbSettingsUpdated      = "settings.updated"

	// ObjectTypeSettings is the object type attached to settings events.
	ObjectTypeSettings = "settings"
)

// SettingsEventInput describes the common fields for settings lifecycle
// events. PassID identifies the decode pass; Revision is set by sessions.
type SettingsEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	PassID         string
	Revision       uint64
	Fields         []string
	Diagnostics    int
	Err            error
	OccurredAt     time.Time
}

// BuildSettingsDecodedEvent constructs the event for a completed decode pass.
func BuildSettingsDecodedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbSettingsDecoded, input)
}

// BuildSettingsDecodeFailedEvent constructs the event for a pass aborted by
// a fatal error.
func BuildSettingsDecodeFailedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbSettingsDecodeFailed, input)
}

// BuildSettingsUpdatedEvent constructs the event for a session mutation.
func BuildSettingsUpdatedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbSettingsUpdated, input)
}

func buildSettingsEvent(verb string, input SettingsEventInput) Event {
	metadata := maps.Clone(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.PassID != "" {
		set("pass_id", input.PassID)
	}
	if input.Revision > 0 {
		set("revision", input.Revision)
	}
	if len(input.Fields) > 0 {
		set("fields", slices.Clone(input.Fields))
	}
	if input.Diagnostics > 0 {
		set("diagnostics", input.Diagnostics)
	}
	if input.Err != nil {
		set("error", input.Err.Error())
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     ObjectTypeSettings,
		ObjectID:       objectID(input),
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     slices.Clone(input.Recipients),
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

// objectID prefers the explicit id, then the pass id, then the object type.
func objectID(input SettingsEventInput) string {
	for _, candidate := range []string{input.ObjectID, input.PassID} {
		if id := strings.TrimSpace(candidate); id != "" {
			return id
		}
	}
	return ObjectTypeSettings
}
