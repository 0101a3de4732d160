// Package activity carries settings lifecycle events (decode passes and
// session updates) to pluggable hooks such as the go-users activity feed.
package activity

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Event is one settings lifecycle occurrence. Identifiers are plain strings
// so sinks can parse them into their own id types.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Normalize returns a copy of e with trimmed identifiers and its own
// metadata and recipient storage. A zero OccurredAt is taken from now, or
// time.Now when now is nil.
func (e Event) Normalize(now func() time.Time) Event {
	for _, field := range []*string{
		&e.Verb, &e.ActorID, &e.UserID, &e.TenantID,
		&e.ObjectType, &e.ObjectID, &e.Channel, &e.DefinitionCode,
	} {
		*field = strings.TrimSpace(*field)
	}
	if len(e.Metadata) == 0 {
		e.Metadata = nil
	} else {
		e.Metadata = maps.Clone(e.Metadata)
	}
	if len(e.Recipients) == 0 {
		e.Recipients = nil
	} else {
		e.Recipients = slices.Clone(e.Recipients)
	}
	if e.OccurredAt.IsZero() {
		if now == nil {
			now = time.Now
		}
		e.OccurredAt = now()
	}
	return e
}

// Routable reports whether e names a verb and an object. Hooks drop events
// that are not routable.
func (e Event) Routable() bool {
	return strings.TrimSpace(e.Verb) != "" &&
		strings.TrimSpace(e.ObjectType) != "" &&
		strings.TrimSpace(e.ObjectID) != ""
}
