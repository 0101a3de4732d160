// Package usersink forwards settings activity to a go-users ActivitySink.
package usersink

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-factory-settings/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook logs settings events to Sink so decode passes and session updates
// show up in the user activity feed.
type Hook struct {
	Sink usertypes.ActivitySink
	// Channel replaces the event channel when set.
	Channel string
}

var _ activity.Hook = Hook{}

// Notify converts event with Record and logs it. Events that are not
// routable are skipped.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := Record(event)
	if !ok {
		return nil
	}
	if channel := strings.TrimSpace(h.Channel); channel != "" {
		record.Channel = channel
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := h.Sink.Log(ctx, record); err != nil {
		return fmt.Errorf("usersink: log %s %s: %w", record.Verb, record.ObjectID, err)
	}
	return nil
}

// Record maps event onto a go-users activity record. Identifiers that are
// not UUIDs become uuid.Nil. The definition code and recipients travel in
// Data. It reports false when event is not routable.
func Record(event activity.Event) (usertypes.ActivityRecord, bool) {
	if !event.Routable() {
		return usertypes.ActivityRecord{}, false
	}
	event = event.Normalize(nil)

	data := maps.Clone(event.Metadata)
	put := func(key string, value any) {
		if data == nil {
			data = map[string]any{}
		}
		data[key] = value
	}
	if event.DefinitionCode != "" {
		put("definition_code", event.DefinitionCode)
	}
	if len(event.Recipients) > 0 {
		put("recipients", slices.Clone(event.Recipients))
	}

	return usertypes.ActivityRecord{
		ActorID:    uuidOrNil(event.ActorID),
		UserID:     uuidOrNil(event.UserID),
		TenantID:   uuidOrNil(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}, true
}

func uuidOrNil(text string) uuid.UUID {
	id, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil
	}
	return id
}
