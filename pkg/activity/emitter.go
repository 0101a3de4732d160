package activity

import (
	"context"
	"strings"
	"time"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "settings"

// Emitter builds settings events and sends them to its hooks. A nil
// Emitter, or one without hooks, emits nothing.
type Emitter struct {
	hooks   Hooks
	channel string
	now     func() time.Time
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithChannel overrides DefaultChannel. Blank values are ignored.
func WithChannel(channel string) EmitterOption {
	return func(e *Emitter) {
		if channel = strings.TrimSpace(channel); channel != "" {
			e.channel = channel
		}
	}
}

// WithClock sets the time source for events without OccurredAt.
func WithClock(now func() time.Time) EmitterOption {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEmitter returns an emitter over a nil-free copy of hooks.
func NewEmitter(hooks Hooks, opts ...EmitterOption) *Emitter {
	e := &Emitter{
		hooks:   hooks.Clone(),
		channel: DefaultChannel,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Enabled reports whether Emit reaches any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.hooks.Enabled()
}

// Emit stamps the default channel and timestamp on event when missing and
// notifies the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event.Normalize(e.now))
}

// Decoded emits a settings.decoded event.
func (e *Emitter) Decoded(ctx context.Context, input SettingsEventInput) error {
	return e.Emit(ctx, BuildSettingsDecodedEvent(input))
}

// DecodeFailed emits a settings.decode.failed event.
func (e *Emitter) DecodeFailed(ctx context.Context, input SettingsEventInput) error {
	return e.Emit(ctx, BuildSettingsDecodeFailedEvent(input))
}

// Updated emits a settings.updated event.
func (e *Emitter) Updated(ctx context.Context, input SettingsEventInput) error {
	return e.Emit(ctx, BuildSettingsUpdatedEvent(input))
}
