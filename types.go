package caps

import (
	"github.com/goliatone/go-caps/pkg/activity"
)

// Operation is a callable member value. Capability providers close over their
// own per-instance state, so the composite can invoke copied operations
// without knowing which provider supplied them.
type Operation func(args ...any) (any, error)

// MemberKind identifies where a member lives on the composite.
type MemberKind string

const (
	// MemberInstance members are copied onto each instance and owned by it.
	MemberInstance MemberKind = "instance"
	// MemberShared members live on the composite and are visible to all
	// instances without being copied.
	MemberShared MemberKind = "shared"
	// MemberStatic members belong to the composite type itself and are
	// callable before any instance exists.
	MemberStatic MemberKind = "static"
)

// ArityUnknown marks operations whose parameter count is not declared.
const ArityUnknown = -1

// Member is one named slot of a provider or composite. Value holds either a
// plain data value or an Operation.
type Member struct {
	Name  string
	Kind  MemberKind
	Arity int
	Value any
}

// Op declares a callable member with a known parameter count.
func Op(name string, arity int, fn Operation) Member {
	return Member{Name: name, Kind: MemberInstance, Arity: arity, Value: fn}
}

// Field declares a data member.
func Field(name string, value any) Member {
	return Member{Name: name, Kind: MemberInstance, Arity: ArityUnknown, Value: value}
}

func (m Member) callable() (Operation, bool) {
	switch fn := m.Value.(type) {
	case Operation:
		return fn, true
	case func(args ...any) (any, error):
		return Operation(fn), true
	default:
		return nil, false
	}
}

// IsCallable reports whether the member holds an Operation.
func (m Member) IsCallable() bool {
	_, ok := m.callable()
	return ok
}

// Option configures a composition.
type Option func(*composeConfig)

type composeConfig struct {
	name          string
	rule          Rule
	copyExpr      string
	ruleCache     ProgramCache
	ruleMetadata  map[string]any
	logger        ComposeLogger
	identity      Generator
	activityHooks activity.Hooks
}

func applyComposeOptions(opts []Option) composeConfig {
	cfg := composeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithName overrides the composite's name. The default is the base provider's
// name.
func WithName(name string) Option {
	return func(cfg *composeConfig) {
		cfg.name = name
	}
}

// WithRule configures the engine used to evaluate copy rules. The expr engine
// is the default.
func WithRule(rule Rule) Option {
	return func(cfg *composeConfig) {
		cfg.rule = rule
	}
}

// WithCopyRule installs an expression evaluated once per candidate member
// during copy; a falsy result vetoes that member. Reserved names are excluded
// before rules run.
func WithCopyRule(expr string) Option {
	return func(cfg *composeConfig) {
		cfg.copyExpr = expr
	}
}

// WithRuleCache registers a compiled-program cache used by the rule engine.
func WithRuleCache(cache ProgramCache) Option {
	return func(cfg *composeConfig) {
		cfg.ruleCache = cache
	}
}

// WithRuleMetadata attaches default metadata made available to every
// copy-rule evaluation. The map is copied so later caller mutation has no
// effect.
func WithRuleMetadata(metadata map[string]any) Option {
	return func(cfg *composeConfig) {
		if len(metadata) == 0 {
			return
		}
		out := make(map[string]any, len(metadata))
		for key, value := range metadata {
			out[key] = value
		}
		cfg.ruleMetadata = out
	}
}

// WithIdentity configures the generator that assigns instance identities.
// Defaults to a UUID generator.
func WithIdentity(generator Generator) Option {
	return func(cfg *composeConfig) {
		cfg.identity = generator
	}
}

// WithActivityHooks attaches activity hooks notified on composition and
// instance-build events. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *composeConfig) {
		cfg.activityHooks = normalized
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

func (cfg composeConfig) composeLogger() ComposeLogger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return noopComposeLogger{}
}

func (cfg composeConfig) identityOrDefault() Generator {
	if cfg.identity != nil {
		return cfg.identity
	}
	return UUIDGenerator()
}
