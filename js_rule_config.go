package caps

// JSRuleOption configures the goja rule engine.
type JSRuleOption func(*jsRuleConfig)

type jsRuleConfig struct {
	cache ProgramCache
}

// JSWithProgramCache wires a ProgramCache into the js engine.
func JSWithProgramCache(cache ProgramCache) JSRuleOption {
	return func(cfg *jsRuleConfig) {
		cfg.cache = cache
	}
}

func applyJSRuleOptions(opts []JSRuleOption) jsRuleConfig {
	cfg := jsRuleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
