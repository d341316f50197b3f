package caps

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
)

// CELRuleOption configures the CEL rule engine.
type CELRuleOption func(*celRule)

// CELWithProgramCache wires a ProgramCache into the CEL engine.
func CELWithProgramCache(cache ProgramCache) CELRuleOption {
	return func(e *celRule) {
		e.cache = cache
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celRule struct {
	cache ProgramCache
}

// NewCELRule constructs a Rule engine backed by cel-go.
func NewCELRule(opts ...CELRuleOption) Rule {
	e := &celRule{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celRule) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapRuleEngineError("cel", fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaults()
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, wrapRuleError("cel", expression, ctx.memberLabel(), err)
	}
	out, _, err := program.program.Eval(ruleEnvironment(ctx))
	if err != nil {
		return nil, wrapRuleError("cel", expression, ctx.memberLabel(), err)
	}
	return out.Value(), nil
}

func (e *celRule) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapRuleEngineError("cel", fmt.Errorf("expression must not be empty"))
	}
	return &celCompiledRule{
		engine:     e,
		expression: expression,
	}, nil
}

func (e *celRule) loadOrCompile(expression string) (*celProgram, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := celgo.NewEnv(
		celgo.Variable("member", celgo.DynType),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
	)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}

	bundle := &celProgram{env: env, program: prg}
	if e.cache != nil {
		e.cache.Set(expression, bundle)
	}
	return bundle, nil
}

type celCompiledRule struct {
	engine     *celRule
	expression string
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.engine == nil {
		return nil, wrapRuleEngineError("cel", fmt.Errorf("compiled rule missing engine"))
	}
	ctx = ctx.withDefaults()
	program, err := r.engine.loadOrCompile(r.expression)
	if err != nil {
		return nil, wrapRuleError("cel", r.expression, ctx.memberLabel(), err)
	}
	out, _, err := program.program.Eval(ruleEnvironment(ctx))
	if err != nil {
		return nil, wrapRuleError("cel", r.expression, ctx.memberLabel(), err)
	}
	return out.Value(), nil
}
