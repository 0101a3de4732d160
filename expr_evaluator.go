package settings

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

type exprEvaluator struct {
	evaluatorBase
}

// NewExprEvaluator returns the default Evaluator, backed by expr-lang/expr.
// Names missing from the snapshot evaluate to nil instead of failing to
// compile.
func NewExprEvaluator(opts ...EvaluatorOption) Evaluator {
	return &exprEvaluator{newEvaluatorBase("expr", opts)}
}

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *exprEvaluator) Compile(expression string) (CompiledRule, error) {
	if err := e.check(expression); err != nil {
		return nil, err
	}
	program, err := cachedProgram(e.evaluatorBase, expression, func() (*exprvm.Program, error) {
		return exprlang.Compile(expression, e.options()...)
	})
	if err != nil {
		return nil, e.compileFailed(expression, err)
	}
	return compiledRule(func(ctx RuleContext) (any, error) {
		out, err := exprlang.Run(program, e.variables(ctx))
		if err != nil {
			return nil, e.runFailed(expression, err)
		}
		return out, nil
	}), nil
}

func (e *exprEvaluator) options() []exprlang.Option {
	opts := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for name, fn := range e.functions() {
		opts = append(opts, exprlang.Function(name, fn))
	}
	return opts
}
