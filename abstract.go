package caps

// Guard enforces the abstract-type rule and runs as the first action of every
// construction level. It fails only when the provider under construction is
// exactly the abstract owner of that level; strict descendants pass even
// though the owner's construction path executes on their behalf.
//
// Guard holds no state; it is a precondition check.
func Guard(requested, owner *Provider) error {
	if owner == nil || !owner.abstract {
		return nil
	}
	if requested == owner {
		return wrapCompositionError("construct", "", owner.name, "", ErrAbstractInstantiation)
	}
	return nil
}
