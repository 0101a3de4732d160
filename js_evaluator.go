package settings

import (
	"github.com/dop251/goja"
)

type jsEvaluator struct {
	evaluatorBase
}

// NewJSEvaluator returns an Evaluator backed by goja. The expression is the
// body of a return statement and runs in a fresh runtime per evaluation.
func NewJSEvaluator(opts ...EvaluatorOption) Evaluator {
	return &jsEvaluator{newEvaluatorBase("js", opts)}
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string) (CompiledRule, error) {
	if err := e.check(expression); err != nil {
		return nil, err
	}
	program, err := cachedProgram(e.evaluatorBase, expression, func() (*goja.Program, error) {
		return goja.Compile("", "(function(){ return ("+expression+"); })()", false)
	})
	if err != nil {
		return nil, e.compileFailed(expression, err)
	}
	return compiledRule(func(ctx RuleContext) (any, error) {
		vm := goja.New()
		for name, value := range e.variables(ctx) {
			if err := vm.Set(name, value); err != nil {
				return nil, e.runFailed(expression, err)
			}
		}
		for name, fn := range e.functions() {
			if err := vm.Set(name, fn); err != nil {
				return nil, e.runFailed(expression, err)
			}
		}
		value, err := vm.RunProgram(program)
		if err != nil {
			return nil, e.runFailed(expression, err)
		}
		return value.Export(), nil
	}), nil
}
