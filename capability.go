package caps

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// ReturnKind classifies what an operation yields, ignoring a trailing error.
type ReturnKind string

const (
	// ReturnsNone marks operations with no result value.
	ReturnsNone ReturnKind = "none"
	// ReturnsOne marks operations yielding a single value.
	ReturnsOne ReturnKind = "one"
	// ReturnsMany marks operations yielding a collection.
	ReturnsMany ReturnKind = "many"
)

// Signature declares one operation of a capability contract. Arity counts
// declared parameters excluding a leading context.Context.
type Signature struct {
	Name    string
	Arity   int
	Returns ReturnKind
}

// Capability is a named, minimal operation contract a consumer depends on.
// Declared once, immutable thereafter; it carries no state of its own.
type Capability struct {
	name       string
	signatures []Signature
}

// NewCapability builds a contract from an ordered list of signatures.
func NewCapability(name string, signatures ...Signature) *Capability {
	sigs := make([]Signature, len(signatures))
	copy(sigs, signatures)
	return &Capability{name: name, signatures: sigs}
}

// CapabilityOf derives a contract from the Go interface type T. Method names
// are recorded in snake_case so they match dynamic member tables.
func CapabilityOf[T any](name string) (*Capability, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Interface {
		return nil, fmt.Errorf("caps: capability source %s is not an interface", t)
	}
	sigs := make([]Signature, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		sigs = append(sigs, Signature{
			Name:    snakeCase(method.Name),
			Arity:   funcArity(method.Type),
			Returns: funcReturnKind(method.Type),
		})
	}
	return NewCapability(name, sigs...), nil
}

// Name returns the contract name.
func (c *Capability) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Signatures returns a copy of the declared operation signatures.
func (c *Capability) Signatures() []Signature {
	if c == nil || len(c.signatures) == 0 {
		return nil
	}
	out := make([]Signature, len(c.signatures))
	copy(out, c.signatures)
	return out
}

// SatisfiedBy checks value against the contract, wrapping ErrMissingCapability
// with every missing operation when the check fails. Composite instances are
// checked against their member tables; any other value is checked against its
// reflected method set.
func (c *Capability) SatisfiedBy(value any) error {
	if c == nil {
		return nil
	}
	if value == nil {
		return fmt.Errorf("%w: %s requires a value", ErrMissingCapability, c.name)
	}

	var missing []string
	if instance, ok := value.(*Instance); ok {
		missing = c.missingOnInstance(instance)
	} else {
		missing = c.missingOnValue(value)
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s requires [%s]", ErrMissingCapability, c.name, strings.Join(missing, ", "))
}

func (c *Capability) missingOnInstance(instance *Instance) []string {
	var missing []string
	for _, sig := range c.signatures {
		member, ok := instance.Member(sig.Name)
		if !ok || !member.IsCallable() {
			missing = append(missing, sig.Name)
			continue
		}
		if sig.Arity >= 0 && member.Arity != ArityUnknown && member.Arity != sig.Arity {
			missing = append(missing, fmt.Sprintf("%s/%d", sig.Name, sig.Arity))
		}
	}
	return missing
}

func (c *Capability) missingOnValue(value any) []string {
	rv := reflect.ValueOf(value)
	var missing []string
	for _, sig := range c.signatures {
		method := rv.MethodByName(camelCase(sig.Name))
		if !method.IsValid() {
			missing = append(missing, sig.Name)
			continue
		}
		if sig.Arity >= 0 && funcArity(method.Type()) != sig.Arity {
			missing = append(missing, fmt.Sprintf("%s/%d", sig.Name, sig.Arity))
		}
	}
	return missing
}

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
var errorType = reflect.TypeOf((*error)(nil)).Elem()

func funcArity(t reflect.Type) int {
	if t == nil || t.Kind() != reflect.Func {
		return ArityUnknown
	}
	arity := t.NumIn()
	if arity > 0 && t.In(0) == contextType {
		arity--
	}
	return arity
}

func funcReturnKind(t reflect.Type) ReturnKind {
	if t == nil || t.Kind() != reflect.Func {
		return ReturnsNone
	}
	for i := 0; i < t.NumOut(); i++ {
		out := t.Out(i)
		if out == errorType {
			continue
		}
		switch out.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return ReturnsMany
		default:
			return ReturnsOne
		}
	}
	return ReturnsNone
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func camelCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// Registry stores capability contracts keyed by name.
type Registry struct {
	mu        sync.RWMutex
	contracts map[string]*Capability
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[string]*Capability)}
}

// Register stores the contract, guarding against duplicates.
func (r *Registry) Register(c *Capability) error {
	if c == nil {
		return fmt.Errorf("caps: contract is nil")
	}
	if c.name == "" {
		return fmt.Errorf("caps: contract name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.contracts == nil {
		r.contracts = make(map[string]*Capability)
	}
	key := strings.ToLower(c.name)
	if _, exists := r.contracts[key]; exists {
		return fmt.Errorf("caps: contract %q already registered", c.name)
	}
	r.contracts[key] = c
	return nil
}

// Lookup returns the contract registered under name.
func (r *Registry) Lookup(name string) (*Capability, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[strings.ToLower(name)]
	return c, ok
}

// Names returns registered contract names sorted alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.contracts))
	for name := range r.contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy of the registry.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &Registry{contracts: make(map[string]*Capability, len(r.contracts))}
	for name, c := range r.contracts {
		clone.contracts[name] = c
	}
	return clone
}
