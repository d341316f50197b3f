package caps

import "sort"

// Reserved member names that are never copied from a capability provider.
// Each names a slot the composite owns itself; copying a provider's version
// would overwrite the composite's construction or identity semantics instead
// of adding capability.
const (
	// MemberConstruct is the construction entry point.
	MemberConstruct = "construct"
	// MemberTypeName is the type identity slot.
	MemberTypeName = "typename"
	// MemberBind is the call-binding helper.
	MemberBind = "bind"
	// MemberRepr is the string-representation hook.
	MemberRepr = "repr"
	// MemberArity is the parameter-count marker.
	MemberArity = "arity"
)

var reservedMembers = map[string]struct{}{
	MemberConstruct: {},
	MemberTypeName:  {},
	MemberBind:      {},
	MemberRepr:      {},
	MemberArity:     {},
}

// IsReserved reports whether name belongs to the exclusion set. Providers
// declaring a reserved name have that member silently skipped during copy.
func IsReserved(name string) bool {
	_, ok := reservedMembers[name]
	return ok
}

// ReservedMembers returns the exclusion set sorted alphabetically.
func ReservedMembers() []string {
	out := make([]string, 0, len(reservedMembers))
	for name := range reservedMembers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
