package gateway

import (
	"context"
	"fmt"
	"reflect"

	caps "github.com/goliatone/go-caps"
)

// Bind adapts a dynamically assembled value to the browser contract,
// enforcing the contract at binding time rather than on first use. Values
// already implementing RelationBrowser pass through; composite instances and
// reflective values are checked against Contract and wrapped, failing with
// caps.ErrMissingCapability when an operation is absent.
func Bind(value any) (RelationBrowser, error) {
	switch v := value.(type) {
	case RelationBrowser:
		return v, nil
	case *caps.Instance:
		if err := Contract.SatisfiedBy(v); err != nil {
			return nil, err
		}
		return instanceBrowser{instance: v}, nil
	}
	if err := Contract.SatisfiedBy(value); err != nil {
		return nil, err
	}
	return reflectBrowser{target: reflect.ValueOf(value)}, nil
}

// instanceBrowser routes contract operations through a composite instance's
// member table.
type instanceBrowser struct {
	instance *caps.Instance
}

func (b instanceBrowser) FindAll(_ context.Context, name string, kind RelationKind) ([]string, error) {
	result, err := b.instance.Call("find_all", name, string(kind))
	if err != nil {
		return nil, err
	}
	return coerceStrings(result)
}

// reflectBrowser forwards contract operations to a plain Go value's method
// set.
type reflectBrowser struct {
	target reflect.Value
}

var contextIface = reflect.TypeOf((*context.Context)(nil)).Elem()

func (b reflectBrowser) FindAll(ctx context.Context, name string, kind RelationKind) ([]string, error) {
	method := b.target.MethodByName("FindAll")
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %s", caps.ErrMissingCapability, Contract.Name())
	}

	mt := method.Type()
	args := make([]reflect.Value, 0, mt.NumIn())
	next := 0
	if mt.NumIn() > 0 && mt.In(0).Implements(contextIface) {
		if ctx == nil {
			ctx = context.Background()
		}
		args = append(args, reflect.ValueOf(ctx))
		next = 1
	}
	for _, raw := range []string{name, string(kind)} {
		if next >= mt.NumIn() {
			break
		}
		args = append(args, reflect.ValueOf(raw).Convert(mt.In(next)))
		next++
	}

	results := method.Call(args)
	var value any
	for _, result := range results {
		if err, ok := result.Interface().(error); ok {
			if err != nil {
				return nil, err
			}
			continue
		}
		if value == nil {
			value = result.Interface()
		}
	}
	return coerceStrings(value)
}

func coerceStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("gateway: result item %T is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("gateway: result %T is not a string list", value)
	}
}
