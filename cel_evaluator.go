package settings

import (
	"maps"
	"reflect"
	"slices"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

type celEvaluator struct {
	evaluatorBase
}

// NewCELEvaluator returns an Evaluator backed by cel-go. Every snapshot key
// is declared as a dyn variable, so expressions type-check against any
// configuration. Registered functions take a single dyn argument; call
// passes a list.
func NewCELEvaluator(opts ...EvaluatorOption) Evaluator {
	return &celEvaluator{newEvaluatorBase("cel", opts)}
}

// Evaluate also declares snapshot keys that are not configuration fields.
func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if err := e.check(expression); err != nil {
		return nil, err
	}
	names := slices.Clone(snapshotVariables())
	for key := range ctx.snapshotMap() {
		if !slices.Contains(names, key) && !reservedVariable(key) {
			names = append(names, key)
		}
	}
	slices.Sort(names)
	rule, err := e.compile(expression, names)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if err := e.check(expression); err != nil {
		return nil, err
	}
	return e.compile(expression, snapshotVariables())
}

func (e *celEvaluator) compile(expression string, names []string) (CompiledRule, error) {
	key := strings.Join(names, ",") + "|" + expression
	program, err := cachedProgram(e.evaluatorBase, key, func() (celgo.Program, error) {
		env, err := e.env(names)
		if err != nil {
			return nil, err
		}
		ast, issues := env.Compile(expression)
		if issues != nil && issues.Err() != nil {
			return nil, issues.Err()
		}
		return env.Program(ast)
	})
	if err != nil {
		return nil, e.compileFailed(expression, err)
	}
	return compiledRule(func(ctx RuleContext) (any, error) {
		out, _, err := program.Eval(e.variables(ctx))
		if err != nil {
			return nil, e.runFailed(expression, err)
		}
		return out.Value(), nil
	}), nil
}

func (e *celEvaluator) env(names []string) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
	}
	for _, name := range names {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	functions := e.functions()
	for _, name := range slices.Sorted(maps.Keys(functions)) {
		if name == "call" {
			opts = append(opts, e.callFunction(functions["call"]))
			continue
		}
		fn := functions[name]
		opts = append(opts, celgo.Function(name,
			celgo.Overload(name+"_dyn", []*celgo.Type{celgo.DynType}, celgo.DynType,
				celgo.UnaryBinding(func(arg ref.Val) ref.Val {
					return celResult(fn(arg.Value()))
				}),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

// callFunction declares call(name) and call(name, [args...]).
func (e *celEvaluator) callFunction(call func(...any) (any, error)) celgo.EnvOption {
	return celgo.Function("call",
		celgo.Overload("call_string", []*celgo.Type{celgo.StringType}, celgo.DynType,
			celgo.UnaryBinding(func(name ref.Val) ref.Val {
				return celResult(call(name.Value()))
			}),
		),
		celgo.Overload("call_string_list", []*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)}, celgo.DynType,
			celgo.BinaryBinding(func(name, list ref.Val) ref.Val {
				native, err := list.ConvertToNative(reflect.TypeOf([]any{}))
				if err != nil {
					return types.NewErr("call arguments: %v", err)
				}
				args, _ := native.([]any)
				return celResult(call(name.Value(), args))
			}),
		),
	)
}

func reservedVariable(name string) bool {
	return name == "now" || name == "args" || name == "metadata"
}

func celResult(value any, err error) ref.Val {
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if value == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(value)
}

