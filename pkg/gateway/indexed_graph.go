package gateway

import (
	"context"
	"sync"
)

// IndexedGraph answers queries from an index keyed by origin and kind. Same
// contract as TupleGraph, different internal representation; consumers cannot
// tell them apart.
type IndexedGraph struct {
	mu    sync.RWMutex
	index map[indexKey][]string
}

type indexKey struct {
	from string
	kind RelationKind
}

// NewIndexedGraph builds a graph from the supplied relations.
func NewIndexedGraph(relations ...Relation) *IndexedGraph {
	g := &IndexedGraph{index: map[indexKey][]string{}}
	g.Add(relations...)
	return g
}

// Add indexes relations for lookup.
func (g *IndexedGraph) Add(relations ...Relation) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.index == nil {
		g.index = map[indexKey][]string{}
	}
	for _, rel := range relations {
		key := indexKey{from: rel.From, kind: rel.Kind}
		g.index[key] = append(g.index[key], rel.To)
	}
}

// FindAll implements RelationBrowser.
func (g *IndexedGraph) FindAll(_ context.Context, name string, kind RelationKind) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	targets := g.index[indexKey{from: name, kind: kind}]
	if len(targets) == 0 {
		return nil, nil
	}
	out := make([]string, len(targets))
	copy(out, targets)
	return out, nil
}
