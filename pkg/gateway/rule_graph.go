package gateway

import (
	"context"
	"fmt"
	"sync"

	caps "github.com/goliatone/go-caps"
)

// RuleGraph filters its tuple set through a compiled rule, letting a
// deployment express relation policy as an expression. The rule sees each
// candidate edge as args {from, kind, to} and must return a boolean.
type RuleGraph struct {
	mu        sync.RWMutex
	relations []Relation
	rule      caps.CompiledRule
	expr      string
}

// NewRuleGraph compiles expr with the default engine and builds the graph.
func NewRuleGraph(expr string, relations ...Relation) (*RuleGraph, error) {
	engine := caps.NewExprRule()
	compiled, err := engine.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleGraph{
		relations: append([]Relation(nil), relations...),
		rule:      compiled,
		expr:      expr,
	}, nil
}

// Add appends relations to the graph.
func (g *RuleGraph) Add(relations ...Relation) {
	g.mu.Lock()
	g.relations = append(g.relations, relations...)
	g.mu.Unlock()
}

// FindAll implements RelationBrowser. An edge is returned only when it
// matches the query and the rule admits it.
func (g *RuleGraph) FindAll(_ context.Context, name string, kind RelationKind) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for _, rel := range g.relations {
		if rel.From != name || rel.Kind != kind {
			continue
		}
		result, err := g.rule.Evaluate(caps.RuleContext{
			Args: map[string]any{
				"from": rel.From,
				"kind": string(rel.Kind),
				"to":   rel.To,
			},
		})
		if err != nil {
			return nil, err
		}
		admitted, ok := result.(bool)
		if !ok {
			return nil, fmt.Errorf("gateway: rule %q returned %T, want bool", g.expr, result)
		}
		if admitted {
			out = append(out, rel.To)
		}
	}
	return out, nil
}
