package caps

import (
	"fmt"

	"github.com/goliatone/go-caps/merge"
)

// Instance is one constructed object of a composite. It owns its copied
// members exclusively; no instance-level member is shared with another
// instance, so mutating one never affects another.
type Instance struct {
	composite *Composite
	id        string
	members   map[string]Member
	order     []string
}

// ID returns the identity assigned by the composition's generator.
func (in *Instance) ID() string {
	if in == nil {
		return ""
	}
	return in.id
}

// Composite returns the type the instance was built from.
func (in *Instance) Composite() *Composite {
	if in == nil {
		return nil
	}
	return in.composite
}

// Member looks up a member by name: instance members first, then the
// composite's shared and static slots.
func (in *Instance) Member(name string) (Member, bool) {
	if in == nil {
		return Member{}, false
	}
	if m, ok := in.members[name]; ok {
		return m, true
	}
	return in.composite.Member(name)
}

// Has reports whether the instance can resolve the named member.
func (in *Instance) Has(name string) bool {
	_, ok := in.Member(name)
	return ok
}

// Members returns the instance-owned members in declaration order.
func (in *Instance) Members() []Member {
	if in == nil {
		return nil
	}
	out := make([]Member, 0, len(in.order))
	for _, name := range in.order {
		out = append(out, in.members[name])
	}
	return out
}

// Call invokes the named member. Unknown names fail with ErrUnknownMember at
// the call site; composition mistakes surface earlier, at construction time.
func (in *Instance) Call(name string, args ...any) (any, error) {
	m, ok := in.Member(name)
	if !ok {
		return nil, wrapCompositionError("call", in.Composite().Name(), "", name, ErrUnknownMember)
	}
	op, ok := m.callable()
	if !ok {
		return nil, wrapCompositionError("call", in.Composite().Name(), "", name, fmt.Errorf("member is not callable"))
	}
	return op(args...)
}

// Get returns the value of a data member.
func (in *Instance) Get(name string) (any, bool) {
	m, ok := in.Member(name)
	if !ok || m.IsCallable() {
		return nil, false
	}
	return m.Value, ok
}

// Set replaces the named member on this instance only. Reserved names are
// rejected; other instances of the same composite are unaffected.
func (in *Instance) Set(name string, value any) error {
	if in == nil {
		return fmt.Errorf("caps: instance is nil")
	}
	if IsReserved(name) {
		return wrapCompositionError("set", in.composite.Name(), "", name, fmt.Errorf("member name is reserved"))
	}
	m, ok := in.members[name]
	if !ok {
		m = Member{Name: name, Kind: MemberInstance, Arity: ArityUnknown}
		in.order = append(in.order, name)
	}
	m.Value = value
	in.members[name] = m
	return nil
}

// Snapshot resolves the instance's data fields over the composite's
// type-level fields, strongest first.
func (in *Instance) Snapshot() map[string]any {
	if in == nil {
		return nil
	}
	own := map[string]any{}
	for name, m := range in.members {
		if m.IsCallable() {
			continue
		}
		own[name] = m.Value
	}
	return merge.Layers(own, in.composite.typeFieldMap())
}

// String identifies the instance by composite name and identity.
func (in *Instance) String() string {
	if in == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%s", in.composite.Name(), in.id)
}
