package caps

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-caps/merge"
	"github.com/goliatone/go-caps/pkg/activity"
)

// Composite is a type synthesized from a base provider plus an ordered list of
// capability providers. It is built once, at composition time; every instance
// later constructed from it carries the merged member set.
type Composite struct {
	name      string
	base      *Provider
	providers []*Provider
	typeLevel map[string]Member
	typeOrder []string
	cfg       composeConfig
	copyRule  CompiledRule
}

// Compose merges base with the capability providers in list order and returns
// the composite type. The capability list may be empty and may contain
// duplicates; each entry is processed independently. The only input-validation
// failure is ErrInvalidBaseType when base cannot be constructed.
func Compose(base *Provider, capabilities []*Provider, opts ...Option) (*Composite, error) {
	cfg := applyComposeOptions(opts)
	start := time.Now()
	composite, err := compose(base, capabilities, cfg)
	cfg.composeLogger().LogCompose(ComposeLogEvent{
		Op:        "compose",
		Composite: cfg.name,
		Provider:  base.Name(),
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		return nil, err
	}
	composite.emit(activity.BuildCompositeComposedEvent(activity.ComposeEventInput{
		Composite: composite.name,
		Metadata:  composite.composedMetadata(),
	}))
	return composite, nil
}

func compose(base *Provider, capabilities []*Provider, cfg composeConfig) (*Composite, error) {
	if !base.constructible() {
		return nil, wrapCompositionError("compose", cfg.name, base.Name(), "", ErrInvalidBaseType)
	}

	name := cfg.name
	if name == "" {
		name = base.name
	}

	composite := &Composite{
		name:      name,
		base:      base,
		providers: append([]*Provider(nil), capabilities...),
		typeLevel: map[string]Member{},
		cfg:       cfg,
	}

	if cfg.copyExpr != "" {
		engine := cfg.rule
		if engine == nil {
			var ruleOpts []ExprRuleOption
			if cfg.ruleCache != nil {
				ruleOpts = append(ruleOpts, ExprWithProgramCache(cfg.ruleCache))
			}
			engine = NewExprRule(ruleOpts...)
		}
		compiled, err := engine.Compile(cfg.copyExpr)
		if err != nil {
			return nil, wrapCompositionError("compose", name, base.name, "", err)
		}
		composite.copyRule = compiled
	}

	// Type-level members from the base lineage, root first, descendants
	// overriding ancestors.
	baseOwned := map[string]struct{}{}
	for _, level := range base.lineage() {
		for _, m := range level.ownTypeMembers() {
			if _, exists := composite.typeLevel[m.Name]; !exists {
				composite.typeOrder = append(composite.typeOrder, m.Name)
			}
			m.Value = merge.Clone(m.Value)
			composite.typeLevel[m.Name] = m
			baseOwned[m.Name] = struct{}{}
		}
	}

	// Capability statics and shared members, list order, last provider wins.
	// Base-owned slots and reserved names are never overwritten.
	for _, provider := range capabilities {
		if provider == nil {
			continue
		}
		for _, m := range provider.ownTypeMembers() {
			if IsReserved(m.Name) {
				continue
			}
			if _, ok := baseOwned[m.Name]; ok {
				continue
			}
			allowed, err := composite.allowCopy(m, provider)
			if err != nil {
				return nil, err
			}
			if !allowed {
				continue
			}
			if _, exists := composite.typeLevel[m.Name]; exists {
				composite.emit(activity.BuildMemberOverriddenEvent(activity.ComposeEventInput{
					Composite: name,
					Provider:  provider.name,
					Member:    m.Name,
				}))
			} else {
				composite.typeOrder = append(composite.typeOrder, m.Name)
			}
			m.Value = merge.Clone(m.Value)
			composite.typeLevel[m.Name] = m
		}
	}

	return composite, nil
}

// New constructs one instance of the composite: the base construction path
// runs with the caller's arguments, then each capability provider is
// instantiated zero-arg and its own members copied onto the new instance.
// Copied values are deep-cloned, so each instance owns its members
// exclusively.
func (c *Composite) New(args ...any) (*Instance, error) {
	start := time.Now()
	instance, err := c.build(args...)
	c.cfg.composeLogger().LogCompose(ComposeLogEvent{
		Op:        "new",
		Composite: c.Name(),
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		return nil, err
	}
	c.emit(activity.BuildInstanceBuiltEvent(activity.ComposeEventInput{
		Composite:  c.name,
		InstanceID: instance.id,
	}))
	return instance, nil
}

func (c *Composite) build(args ...any) (*Instance, error) {
	if c == nil {
		return nil, wrapCompositionError("new", "", "", "", ErrInvalidBaseType)
	}

	members, order, err := c.base.instantiate(args...)
	if err != nil {
		return nil, wrapCompositionError("new", c.name, c.base.name, "", err)
	}

	// Members produced by the base construction path take precedence over
	// anything a capability provider would copy in.
	baseOwned := make(map[string]struct{}, len(members))
	for name := range members {
		baseOwned[name] = struct{}{}
	}

	instanceID := c.cfg.identityOrDefault().NextID()

	for _, provider := range c.providers {
		if provider == nil {
			continue
		}
		own, err := provider.instantiateOwn()
		if err != nil {
			return nil, wrapCompositionError("new", c.name, provider.name, "", err)
		}
		for _, m := range own {
			if IsReserved(m.Name) {
				continue
			}
			if _, ok := baseOwned[m.Name]; ok {
				continue
			}
			allowed, err := c.allowCopy(m, provider)
			if err != nil {
				return nil, err
			}
			if !allowed {
				continue
			}
			if _, exists := members[m.Name]; exists {
				c.emit(activity.BuildMemberOverriddenEvent(activity.ComposeEventInput{
					Composite:  c.name,
					Provider:   provider.name,
					Member:     m.Name,
					InstanceID: instanceID,
				}))
			} else {
				order = append(order, m.Name)
			}
			m.Kind = MemberInstance
			m.Value = merge.Clone(m.Value)
			members[m.Name] = m
		}
	}

	return &Instance{
		composite: c,
		id:        instanceID,
		members:   members,
		order:     order,
	}, nil
}

// Name returns the composite's name.
func (c *Composite) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Base returns the base provider the composite was built from.
func (c *Composite) Base() *Provider {
	if c == nil {
		return nil
	}
	return c.base
}

// Providers returns a copy of the capability provider list in compose order.
func (c *Composite) Providers() []*Provider {
	if c == nil || len(c.providers) == 0 {
		return nil
	}
	out := make([]*Provider, len(c.providers))
	copy(out, c.providers)
	return out
}

// Member looks up a type-level member by name.
func (c *Composite) Member(name string) (Member, bool) {
	if c == nil {
		return Member{}, false
	}
	m, ok := c.typeLevel[name]
	return m, ok
}

// Members returns the type-level members in declaration order.
func (c *Composite) Members() []Member {
	if c == nil {
		return nil
	}
	out := make([]Member, 0, len(c.typeOrder))
	for _, name := range c.typeOrder {
		out = append(out, c.typeLevel[name])
	}
	return out
}

// Call invokes a type-level member. Static and shared operations work before
// any instance exists.
func (c *Composite) Call(name string, args ...any) (any, error) {
	m, ok := c.Member(name)
	if !ok {
		return nil, wrapCompositionError("call", c.Name(), "", name, ErrUnknownMember)
	}
	op, ok := m.callable()
	if !ok {
		return nil, wrapCompositionError("call", c.Name(), "", name, fmt.Errorf("member is not callable"))
	}
	return op(args...)
}

func (c *Composite) allowCopy(m Member, provider *Provider) (bool, error) {
	if c.copyRule == nil {
		return true, nil
	}
	ctx := RuleContext{
		Member: map[string]any{
			"name":     m.Name,
			"kind":     string(m.Kind),
			"provider": provider.Name(),
		},
		Metadata: merge.Layers(map[string]any{}, c.cfg.ruleMetadata),
	}
	result, err := c.copyRule.Evaluate(ctx)
	if err != nil {
		return false, wrapCompositionError("copy-rule", c.name, provider.Name(), m.Name, err)
	}
	allowed, ok := result.(bool)
	if !ok {
		return false, wrapCompositionError("copy-rule", c.name, provider.Name(), m.Name,
			fmt.Errorf("rule returned %T, want bool", result))
	}
	return allowed, nil
}

func (c *Composite) emit(event activity.Event) {
	if c == nil || !c.cfg.activityHooks.Enabled() {
		return
	}
	// Hook failures must not abort composition; they surface through the
	// configured logger instead.
	if err := c.cfg.activityHooks.Notify(context.Background(), event); err != nil {
		c.cfg.composeLogger().LogCompose(ComposeLogEvent{
			Op:        "activity",
			Composite: c.name,
			Err:       err,
		})
	}
}

func (c *Composite) composedMetadata() map[string]any {
	providers := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		providers = append(providers, p.Name())
	}
	return map[string]any{
		"base":      c.base.Name(),
		"providers": providers,
	}
}

// typeFieldMap returns the type-level data members as a plain map, used when
// resolving an instance snapshot.
func (c *Composite) typeFieldMap() map[string]any {
	if c == nil {
		return nil
	}
	out := map[string]any{}
	for name, m := range c.typeLevel {
		if m.IsCallable() {
			continue
		}
		out[name] = m.Value
	}
	return out
}
