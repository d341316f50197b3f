// Package gateway decouples consumers from relation storage: a consumer
// depends on the RelationBrowser contract, and any provider implementing it
// can be swapped in without touching consumer code.
package gateway

import (
	"context"

	caps "github.com/goliatone/go-caps"
)

// RelationKind classifies how two items relate.
type RelationKind string

const (
	// KindParent marks the target as a parent of the origin.
	KindParent RelationKind = "parent"
	// KindChild marks the target as a child of the origin.
	KindChild RelationKind = "child"
	// KindSibling marks the target as a sibling of the origin.
	KindSibling RelationKind = "sibling"
)

// Relation is one directed edge between two named items.
type Relation struct {
	From string
	Kind RelationKind
	To   string
}

// RelationBrowser is the capability contract consumers depend on. Providers
// answer queries against their own internal representation; consumers never
// see that representation.
type RelationBrowser interface {
	FindAll(ctx context.Context, name string, kind RelationKind) ([]string, error)
}

// Contract mirrors RelationBrowser for values assembled dynamically, where
// the compile-time check is unavailable.
var Contract = caps.NewCapability("relation_browser",
	caps.Signature{Name: "find_all", Arity: 2, Returns: caps.ReturnsMany},
)
