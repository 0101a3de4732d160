package settings

import (
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-factory-settings/pkg/activity"
)

// Option configures a Decoder.
type Option func(*decoderConfig)

type decoderConfig struct {
	logger        DecodeLogger
	evalLogger    EvaluatorLogger
	evaluator     Evaluator
	engine        string
	programCache  ProgramCache
	functions     *FunctionRegistry
	rules         []Rule
	activityHooks activity.Hooks
	actorID       string
	newID         func() string
	now           func() time.Time
}

func applyOptions(opts []Option) decoderConfig {
	cfg := decoderConfig{
		logger:     noopDecodeLogger{},
		evalLogger: noopEvaluatorLogger{},
		newID:      func() string { return uuid.NewString() },
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Decoder runs decode passes against one catalog. It holds no per-pass
// state and is safe for concurrent use.
type Decoder struct {
	catalog  Catalog
	cfg      decoderConfig
	fields   []fieldDecoder
	activity *activity.Emitter
}

// NewDecoder constructs a Decoder for catalog.
func NewDecoder(catalog Catalog, opts ...Option) *Decoder {
	cfg := applyOptions(opts)
	return &Decoder{
		catalog:  catalog,
		cfg:      cfg,
		fields:   decodeOrder(),
		activity: activity.NewEmitter(cfg.activityHooks, activity.WithClock(cfg.now)),
	}
}

// Catalog returns the catalog the decoder resolves keys against.
func (d *Decoder) Catalog() Catalog {
	return d.catalog
}

// WithEvaluator configures the evaluator used for rules and queries.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *decoderConfig) {
		cfg.evaluator = e
	}
}

// WithPassIDGenerator replaces the uuid based pass id generator.
func WithPassIDGenerator(fn func() string) Option {
	return func(cfg *decoderConfig) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}

// WithClock overrides the time source for activity events and the rule
// "now" variable. Logged durations always use the monotonic clock.
func WithClock(now func() time.Time) Option {
	return func(cfg *decoderConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithActorID sets the actor reported on activity events.
func WithActorID(actorID string) Option {
	return func(cfg *decoderConfig) {
		cfg.actorID = actorID
	}
}

func (d *Decoder) evaluatorLogger() EvaluatorLogger {
	if d.cfg.evalLogger != nil {
		return d.cfg.evalLogger
	}
	return noopEvaluatorLogger{}
}
