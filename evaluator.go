package settings

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// RuleContext carries inputs needed when evaluating an expression. Snapshot
// is normally the result of Configuration.Snapshot; its keys are bound as
// top-level variables.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) snapshotMap() map[string]any {
	if m, ok := ctx.Snapshot.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is an expression compiled once and evaluated many times.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// ProgramCache stores compiled programs. Keys are prefixed with the engine
// name, so one cache can back several engines.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache sets the program cache shared by the bundled engines.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *decoderConfig) {
		cfg.programCache = cache
	}
}

var errEmptyExpression = errors.New("expression must not be empty")

// EvaluatorOption configures a bundled evaluator.
type EvaluatorOption func(*evaluatorBase)

// EvaluatorCache stores compiled programs in cache.
func EvaluatorCache(cache ProgramCache) EvaluatorOption {
	return func(b *evaluatorBase) {
		b.cache = cache
	}
}

// EvaluatorFunctions exposes the functions in registry to expressions, by
// name and through call(name, args...).
func EvaluatorFunctions(registry *FunctionRegistry) EvaluatorOption {
	return func(b *evaluatorBase) {
		if registry != nil {
			b.registry = registry.Clone()
		}
	}
}

// evaluatorBase holds what every bundled engine shares.
type evaluatorBase struct {
	engine   string
	cache    ProgramCache
	registry *FunctionRegistry
}

func newEvaluatorBase(engine string, opts []EvaluatorOption) evaluatorBase {
	b := evaluatorBase{engine: engine}
	for _, opt := range opts {
		if opt != nil {
			opt(&b)
		}
	}
	return b
}

func (b evaluatorBase) engineName() string {
	return b.engine
}

func (b evaluatorBase) check(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return evaluationError(b.engine, PhaseCompile, expression, errEmptyExpression)
	}
	return nil
}

func (b evaluatorBase) compileFailed(expression string, err error) error {
	return evaluationError(b.engine, PhaseCompile, expression, err)
}

func (b evaluatorBase) runFailed(expression string, err error) error {
	return evaluationError(b.engine, PhaseRun, expression, err)
}

// variables returns now, args, metadata and the snapshot keys of ctx.
func (b evaluatorBase) variables(ctx RuleContext) map[string]any {
	vars := maps.Clone(ctx.snapshotMap())
	if vars == nil {
		vars = map[string]any{}
	}
	vars["now"] = *ctx.Now
	vars["args"] = ctx.Args
	vars["metadata"] = ctx.Metadata
	return vars
}

// functions returns the registry as plain callables, plus call. call takes
// a name and either the arguments or one list holding them. It is nil
// without a registry.
func (b evaluatorBase) functions() map[string]func(...any) (any, error) {
	if b.registry == nil {
		return nil
	}
	registry := b.registry
	out := map[string]func(...any) (any, error){
		"call": func(args ...any) (any, error) {
			if len(args) == 0 {
				return nil, errors.New("call expects a function name")
			}
			name, ok := args[0].(string)
			if !ok {
				return nil, errors.New("call expects a string function name")
			}
			rest := args[1:]
			if len(rest) == 1 {
				if list, isList := rest[0].([]any); isList {
					rest = list
				}
			}
			return registry.Call(name, rest...)
		},
	}
	for _, name := range registry.Names() {
		out[name] = func(args ...any) (any, error) {
			return registry.Call(name, args...)
		}
	}
	return out
}

// cachedProgram returns the program stored under key, compiling and
// storing it on a miss.
func cachedProgram[P any](b evaluatorBase, key string, compile func() (P, error)) (P, error) {
	if b.cache == nil {
		return compile()
	}
	key = b.engine + ":" + key
	if cached, ok := b.cache.Get(key); ok {
		if program, ok := cached.(P); ok {
			return program, nil
		}
	}
	program, err := compile()
	if err != nil {
		return program, err
	}
	b.cache.Set(key, program)
	return program, nil
}

// compiledRule adapts an engine run function to CompiledRule.
type compiledRule func(ctx RuleContext) (any, error)

func (r compiledRule) Evaluate(ctx RuleContext) (any, error) {
	return r(ctx.withDefaults())
}

// snapshotVariables lists the keys of every configuration snapshot.
var snapshotVariables = sync.OnceValue(func() []string {
	return slices.Sorted(maps.Keys(NewConfiguration().Snapshot()))
})
