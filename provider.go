package caps

// InitFunc builds a provider's own per-instance members. It receives the
// construction arguments supplied by the caller; capability providers are
// instantiated with none.
type InitFunc func(args ...any) ([]Member, error)

// Provider describes a concrete type: its construction path, member set, and
// the capabilities it declares. Declared once and treated as immutable
// afterwards.
type Provider struct {
	name         string
	parent       *Provider
	abstract     bool
	init         InitFunc
	statics      []Member
	shared       []Member
	capabilities []*Capability
}

// ProviderOption configures a provider declaration.
type ProviderOption func(*Provider)

// Constructor sets the provider's construction path.
func Constructor(init InitFunc) ProviderOption {
	return func(p *Provider) {
		p.init = init
	}
}

// Extends declares parent as the provider's ancestor. The parent's
// construction path runs before the provider's own.
func Extends(parent *Provider) ProviderOption {
	return func(p *Provider) {
		p.parent = parent
	}
}

// Abstract marks the provider as non-constructible. Only descendants may be
// built.
func Abstract() ProviderOption {
	return func(p *Provider) {
		p.abstract = true
	}
}

// Static declares type-level members callable without an instance.
func Static(members ...Member) ProviderOption {
	return func(p *Provider) {
		for _, m := range members {
			m.Kind = MemberStatic
			p.statics = append(p.statics, m)
		}
	}
}

// Shared declares prototype-level members visible to every instance without
// per-instance copies.
func Shared(members ...Member) ProviderOption {
	return func(p *Provider) {
		for _, m := range members {
			m.Kind = MemberShared
			p.shared = append(p.shared, m)
		}
	}
}

// Implements records the capability contracts the provider claims to satisfy.
func Implements(capabilities ...*Capability) ProviderOption {
	return func(p *Provider) {
		for _, c := range capabilities {
			if c == nil {
				continue
			}
			p.capabilities = append(p.capabilities, c)
		}
	}
}

// NewProvider builds a provider descriptor.
func NewProvider(name string, opts ...ProviderOption) *Provider {
	p := &Provider{name: name}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Name returns the provider's declared name.
func (p *Provider) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// IsAbstract reports whether direct construction is forbidden.
func (p *Provider) IsAbstract() bool {
	return p != nil && p.abstract
}

// Parent returns the provider's declared ancestor, if any.
func (p *Provider) Parent() *Provider {
	if p == nil {
		return nil
	}
	return p.parent
}

// Capabilities returns a copy of the declared capability contracts.
func (p *Provider) Capabilities() []*Capability {
	if p == nil || len(p.capabilities) == 0 {
		return nil
	}
	out := make([]*Capability, len(p.capabilities))
	copy(out, p.capabilities)
	return out
}

// Construct runs the provider's construction path directly, without
// composition, returning the produced members in declaration order. The
// abstract guard runs first at every level: constructing an abstract provider
// fails with ErrAbstractInstantiation, while descendants construct normally.
func (p *Provider) Construct(args ...any) ([]Member, error) {
	if p == nil {
		return nil, ErrInvalidBaseType
	}
	members, order, err := p.instantiate(args...)
	if err != nil {
		return nil, err
	}
	out := make([]Member, 0, len(order))
	for _, name := range order {
		out = append(out, members[name])
	}
	return out, nil
}

// constructible reports whether the provider can anchor a composite.
func (p *Provider) constructible() bool {
	return p != nil && !p.abstract
}

// lineage returns the ancestry chain ordered root first.
func (p *Provider) lineage() []*Provider {
	var chain []*Provider
	for level := p; level != nil; level = level.parent {
		chain = append([]*Provider{level}, chain...)
	}
	return chain
}

// instantiate runs the full construction path for p: every ancestor level is
// guarded and initialized root first, descendant members overriding ancestor
// members on name collision. Returns the member table and declaration order.
func (p *Provider) instantiate(args ...any) (map[string]Member, []string, error) {
	members := map[string]Member{}
	var order []string

	for _, level := range p.lineage() {
		if err := Guard(p, level); err != nil {
			return nil, nil, err
		}
		if level.init == nil {
			continue
		}
		own, err := level.init(args...)
		if err != nil {
			return nil, nil, wrapCompositionError("construct", "", level.name, "", err)
		}
		for _, m := range own {
			m.Kind = MemberInstance
			if _, exists := members[m.Name]; !exists {
				order = append(order, m.Name)
			}
			members[m.Name] = m
		}
	}
	return members, order, nil
}

// instantiateOwn runs the construction path with no arguments and returns only
// the members p declares itself, excluding everything inherited. Used when p
// acts as a capability provider during aggregation.
func (p *Provider) instantiateOwn() ([]Member, error) {
	var own []Member
	for _, level := range p.lineage() {
		if err := Guard(p, level); err != nil {
			return nil, err
		}
		if level.init == nil {
			continue
		}
		built, err := level.init()
		if err != nil {
			return nil, wrapCompositionError("construct", "", level.name, "", err)
		}
		if level == p {
			own = built
		}
	}
	return own, nil
}

// ownTypeMembers returns the statics and shared members p declares itself,
// shared first, matching the order capability copy applies them.
func (p *Provider) ownTypeMembers() []Member {
	if p == nil {
		return nil
	}
	out := make([]Member, 0, len(p.shared)+len(p.statics))
	out = append(out, p.shared...)
	out = append(out, p.statics...)
	return out
}
