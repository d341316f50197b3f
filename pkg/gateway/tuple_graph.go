package gateway

import (
	"context"
	"sync"
)

// TupleGraph stores relations as a flat tuple list and answers queries by
// scanning it. Minimal provider intended for tests, examples, and small data
// sets.
type TupleGraph struct {
	mu        sync.RWMutex
	relations []Relation
}

// NewTupleGraph builds a graph from the supplied relations.
func NewTupleGraph(relations ...Relation) *TupleGraph {
	g := &TupleGraph{}
	g.Add(relations...)
	return g
}

// Add appends relations to the graph.
func (g *TupleGraph) Add(relations ...Relation) {
	g.mu.Lock()
	g.relations = append(g.relations, relations...)
	g.mu.Unlock()
}

// FindAll implements RelationBrowser.
func (g *TupleGraph) FindAll(_ context.Context, name string, kind RelationKind) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for _, rel := range g.relations {
		if rel.From == name && rel.Kind == kind {
			out = append(out, rel.To)
		}
	}
	return out, nil
}
