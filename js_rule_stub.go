//go:build !js_eval

package caps

// NewJSRule is unavailable without the js_eval build tag.
func NewJSRule(opts ...JSRuleOption) Rule {
	_ = applyJSRuleOptions(opts)
	return nil
}

func jsRuleAvailable() bool {
	return false
}
