package gateway

import (
	"context"
	"fmt"
	"strings"

	caps "github.com/goliatone/go-caps"
)

// Research is a high-level consumer bound to the browser contract. It holds
// no state beyond the binding and routes every query through the contract's
// declared operations only, so swapping the provider never requires changing
// it.
type Research struct {
	browser RelationBrowser
}

// NewResearch binds the consumer to a browser. The nil check is the only
// runtime guard; supplying a concrete type that does not implement
// RelationBrowser is already a compile-time contract violation.
func NewResearch(browser RelationBrowser) (*Research, error) {
	if browser == nil {
		return nil, fmt.Errorf("%w: %s", caps.ErrMissingCapability, Contract.Name())
	}
	return &Research{browser: browser}, nil
}

// ChildrenOf lists the direct children of name.
func (r *Research) ChildrenOf(ctx context.Context, name string) ([]string, error) {
	return r.browser.FindAll(ctx, name, KindChild)
}

// ParentsOf lists the direct parents of name.
func (r *Research) ParentsOf(ctx context.Context, name string) ([]string, error) {
	return r.browser.FindAll(ctx, name, KindParent)
}

// SiblingsOf lists the siblings of name.
func (r *Research) SiblingsOf(ctx context.Context, name string) ([]string, error) {
	return r.browser.FindAll(ctx, name, KindSibling)
}

// Report renders a one-line summary per relation kind for name.
func (r *Research) Report(ctx context.Context, name string) (string, error) {
	var b strings.Builder
	for _, kind := range []RelationKind{KindParent, KindChild, KindSibling} {
		targets, err := r.browser.FindAll(ctx, name, kind)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s %s: %s\n", name, kind, strings.Join(targets, ", "))
	}
	return b.String(), nil
}
