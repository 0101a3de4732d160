package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-factory-settings/rational"
)

var ErrNoEvaluator = errors.New("settings: evaluator not configured")

// Rule is a named boolean expression checked after every successful decode
// pass. A rule that evaluates to false or fails to evaluate produces a
// diagnostic; rules never abort a pass.
type Rule struct {
	Name string
	Expr string
}

// WithRules registers rules evaluated against the configuration snapshot.
func WithRules(rules ...Rule) Option {
	return func(cfg *decoderConfig) {
		cfg.rules = append(cfg.rules, rules...)
	}
}

// Evaluate runs expr against the snapshot of cfg.
func (d *Decoder) Evaluate(cfg *Configuration, expr string) (any, error) {
	return d.EvaluateWith(RuleContext{Snapshot: cfg.Snapshot()}, expr)
}

// EvaluateWith runs expr against ctx. A nil Snapshot evaluates against an
// empty binding set.
func (d *Decoder) EvaluateWith(ctx RuleContext, expr string) (any, error) {
	return d.evaluate(ctx, "", expr)
}

func (d *Decoder) evaluate(ctx RuleContext, rule, expr string) (any, error) {
	if expr == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := d.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	if ctx.Now == nil {
		now := d.cfg.now()
		ctx.Now = &now
	}
	event := EvaluatorLogEvent{Engine: evaluatorEngineName(evaluator), Rule: rule, Expr: expr}
	start := time.Now()
	value, err := evaluator.Evaluate(ctx.withDefaults(), expr)
	event.Duration = time.Since(start)
	if err != nil {
		event.Err = evaluationError(event.Engine, PhaseRun, expr, err)
		event.Phase = PhaseRun
		var evalErr *EvaluationError
		if errors.As(event.Err, &evalErr) {
			event.Phase = evalErr.Phase
		}
	}
	d.evaluatorLogger().LogEvaluation(event)
	if event.Err != nil {
		return nil, event.Err
	}
	return value, nil
}

// checkRules evaluates the configured rules, recording a diagnostic under
// the "rules" field for each rule that does not hold.
func (d *Decoder) checkRules(cfg *Configuration, p *pass) {
	if len(d.cfg.rules) == 0 {
		return
	}
	p.field = fieldRules
	ctx := RuleContext{
		Snapshot: cfg.Snapshot(),
		Metadata: map[string]any{"pass_id": p.id},
	}
	for _, rule := range d.cfg.rules {
		value, err := d.evaluate(ctx, rule.Name, rule.Expr)
		if err != nil {
			p.diagnose(parseErrorf(fieldRules, rule.Name, ErrRuleFailed, "%v", err))
			continue
		}
		if ok, isBool := value.(bool); !isBool || !ok {
			p.diagnose(parseErrorf(fieldRules, rule.Name, ErrRuleFailed, "%s evaluated to %v", rule.Expr, value))
		}
	}
}

func (d *Decoder) resolveEvaluator() (Evaluator, error) {
	if d.cfg.evaluator != nil {
		return d.cfg.evaluator, nil
	}
	evaluator, err := d.NewEngine(d.cfg.engine)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

// functionRegistry returns the configured registry with the built-in
// helpers added when not already registered.
func (d *Decoder) functionRegistry() *FunctionRegistry {
	registry := d.cfg.functions.Clone()
	if registry == nil {
		registry = NewFunctionRegistry()
	}
	registerBuiltins(registry)
	return registry
}

// Engines lists the bundled evaluator names.
var Engines = []string{"expr", "cel", "js"}

// WithEngine selects a bundled evaluator by name. It is ignored when
// WithEvaluator is also given. The default is "expr".
func WithEngine(name string) Option {
	return func(cfg *decoderConfig) {
		cfg.engine = name
	}
}

// NewEngine builds one of the bundled evaluators by name sharing the
// decoder's program cache and functions. An empty name selects "expr".
func (d *Decoder) NewEngine(name string) (Evaluator, error) {
	opts := []EvaluatorOption{
		EvaluatorCache(d.cfg.programCache),
		EvaluatorFunctions(d.functionRegistry()),
	}
	switch name {
	case "", "expr":
		return NewExprEvaluator(opts...), nil
	case "cel":
		return NewCELEvaluator(opts...), nil
	case "js":
		return NewJSEvaluator(opts...), nil
	default:
		return nil, fmt.Errorf("settings: unknown evaluator engine %q", name)
	}
}

func registerBuiltins(registry *FunctionRegistry) {
	if !registry.Has("rational") {
		_ = registry.Register("rational", rationalFunction)
	}
}

// rationalFunction converts exact "n/d" text to a float64.
func rationalFunction(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("rational expects 1 argument, got %d", len(args))
	}
	text, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("rational expects a string, got %T", args[0])
	}
	value, err := rational.Parse(text)
	if err != nil {
		return nil, err
	}
	return value.Float64(), nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(interface{ engineName() string }); ok {
		return named.engineName()
	}
	return "custom"
}
