package state

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	settings "github.com/goliatone/go-factory-settings"
	"github.com/goliatone/go-factory-settings/pkg/activity"
)

// ErrRevisionMismatch is returned by Mutate when the caller's expected
// revision is stale.
var ErrRevisionMismatch = errors.New("state: revision mismatch")

// Applier decodes raw settings into an existing configuration.
// *settings.Decoder satisfies it.
type Applier interface {
	Apply(ctx context.Context, cfg *settings.Configuration, raw settings.RawSettings) (settings.Report, error)
}

// Meta describes the current revision of a session. Digest fingerprints the
// raw settings of the last Load and is cleared by Mutate, since a mutated
// configuration no longer matches any link.
type Meta struct {
	Revision  uint64    `json:"revision"`
	PassID    string    `json:"pass_id,omitempty"`
	Digest    string    `json:"digest,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Digest returns the BLAKE3 fingerprint of raw in its canonical encoding.
func Digest(raw settings.RawSettings) string {
	sum := blake3.Sum256([]byte(raw.Encode()))
	return hex.EncodeToString(sum[:])
}

// Mutator edits a configuration in place.
type Mutator func(*settings.Configuration) error

// Session is a concurrency-safe holder for the live configuration.
//
// Load and Mutate are serialized by a writer lock that is separate from the
// lock guarding reads, so activity hooks run by the applier may call Meta,
// Current, View and Matches. Hooks must not call Load or Mutate.
type Session struct {
	write   sync.Mutex
	mu      sync.RWMutex
	applier Applier
	current *settings.Configuration
	meta    Meta

	id    string
	hooks activity.Hooks
	now   func() time.Time
	emit  *activity.Emitter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionID sets the object id reported on activity events.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// WithHooks attaches activity hooks notified on every change.
func WithHooks(hooks activity.Hooks) SessionOption {
	return func(s *Session) {
		s.hooks = hooks.Clone()
	}
}

// WithClock overrides the time source used for Meta.UpdatedAt.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession returns a session holding an empty configuration at revision 0.
func NewSession(applier Applier, opts ...SessionOption) *Session {
	s := &Session{
		applier: applier,
		current: settings.NewConfiguration(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.emit = activity.NewEmitter(s.hooks, activity.WithClock(s.now))
	return s
}

// Load applies raw on top of the current configuration. On error the
// current configuration is left as it was.
func (s *Session) Load(ctx context.Context, raw settings.RawSettings) (Meta, settings.Report, error) {
	if s.applier == nil {
		return Meta{}, settings.Report{}, fmt.Errorf("state: applier is required")
	}
	s.write.Lock()
	s.mu.RLock()
	next := s.current.Clone()
	s.mu.RUnlock()

	report, err := s.applier.Apply(ctx, next, raw)
	if err != nil {
		s.write.Unlock()
		return s.Meta(), report, err
	}
	s.mu.Lock()
	meta := s.swapLocked(next, report.PassID, Digest(raw))
	s.mu.Unlock()
	s.write.Unlock()

	s.notify(ctx, meta)
	return meta, report, nil
}

// Matches reports whether the current configuration was loaded from raw
// and has not been mutated since. Callers use it to skip re-applying an
// unchanged link.
func (s *Session) Matches(raw settings.RawSettings) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta.Digest != "" && s.meta.Digest == Digest(raw)
}

// LoadFragment parses link and loads it.
func (s *Session) LoadFragment(ctx context.Context, link string) (Meta, settings.Report, error) {
	return s.Load(ctx, settings.ParseFragment(link))
}

// Mutate applies fn to a copy of the current configuration and swaps it in
// when fn succeeds. A non-zero expected revision must match the current
// one.
func (s *Session) Mutate(ctx context.Context, expected uint64, fn Mutator) (Meta, error) {
	if fn == nil {
		return Meta{}, fmt.Errorf("state: mutator is required")
	}
	s.write.Lock()
	s.mu.RLock()
	current := s.meta
	next := s.current.Clone()
	s.mu.RUnlock()

	if expected != 0 && expected != current.Revision {
		s.write.Unlock()
		return current, fmt.Errorf("%w: expected %d, got %d", ErrRevisionMismatch, expected, current.Revision)
	}
	if err := fn(next); err != nil {
		s.write.Unlock()
		return current, err
	}
	s.mu.Lock()
	meta := s.swapLocked(next, "", "")
	s.mu.Unlock()
	s.write.Unlock()

	s.notify(ctx, meta)
	return meta, nil
}

// View calls fn with the current configuration under a read lock. fn must
// not retain or modify cfg.
func (s *Session) View(fn func(cfg *settings.Configuration, meta Meta)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.current, s.meta)
}

// Current returns a copy of the configuration and its metadata.
func (s *Session) Current() (*settings.Configuration, Meta) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone(), s.meta
}

// Meta returns the current metadata.
func (s *Session) Meta() Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

func (s *Session) swapLocked(next *settings.Configuration, passID, digest string) Meta {
	s.current = next
	s.meta = Meta{
		Revision:  s.meta.Revision + 1,
		PassID:    passID,
		Digest:    digest,
		UpdatedAt: s.now(),
	}
	return s.meta
}

// notify ignores hook errors; activity is best effort.
func (s *Session) notify(ctx context.Context, meta Meta) {
	_ = s.emit.Updated(ctx, activity.SettingsEventInput{
		ObjectID:   s.id,
		PassID:     meta.PassID,
		Revision:   meta.Revision,
		OccurredAt: meta.UpdatedAt,
	})
}
