package caps

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type relationFinder interface {
	FindAll(ctx context.Context, name string, kind string) ([]string, error)
}

type mapFinder struct {
	relations map[string][]string
}

func (f mapFinder) FindAll(_ context.Context, name string, kind string) ([]string, error) {
	return f.relations[name+"/"+kind], nil
}

type emptyType struct{}

func TestCapabilityOfInterface(t *testing.T) {
	contract, err := CapabilityOf[relationFinder]("relation_finder")
	if err != nil {
		t.Fatalf("capability of: %v", err)
	}

	sigs := contract.Signatures()
	if len(sigs) != 1 {
		t.Fatalf("expected one signature, got %d", len(sigs))
	}
	sig := sigs[0]
	if sig.Name != "find_all" {
		t.Fatalf("expected snake_case name, got %q", sig.Name)
	}
	if sig.Arity != 2 {
		t.Fatalf("expected context excluded from arity, got %d", sig.Arity)
	}
	if sig.Returns != ReturnsMany {
		t.Fatalf("expected ReturnsMany, got %q", sig.Returns)
	}
}

func TestCapabilityOfNonInterface(t *testing.T) {
	if _, err := CapabilityOf[emptyType]("nope"); err == nil {
		t.Fatalf("expected error for non-interface source")
	}
}

func TestSatisfiedByValue(t *testing.T) {
	contract, err := CapabilityOf[relationFinder]("relation_finder")
	if err != nil {
		t.Fatalf("capability of: %v", err)
	}

	if err := contract.SatisfiedBy(mapFinder{}); err != nil {
		t.Fatalf("expected mapFinder to satisfy contract: %v", err)
	}

	err = contract.SatisfiedBy(emptyType{})
	if !errors.Is(err, ErrMissingCapability) {
		t.Fatalf("expected ErrMissingCapability, got %v", err)
	}
	if !strings.Contains(err.Error(), "find_all") {
		t.Fatalf("expected missing operation named, got %v", err)
	}
}

func TestSatisfiedByInstance(t *testing.T) {
	contract := NewCapability("relation_finder",
		Signature{Name: "find_all", Arity: 2, Returns: ReturnsMany},
	)

	provider := staticProvider("Graph",
		Op("find_all", 2, func(args ...any) (any, error) {
			return []string{"child"}, nil
		}),
	)
	composite, err := Compose(provider, nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	instance, err := composite.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := contract.SatisfiedBy(instance); err != nil {
		t.Fatalf("expected instance to satisfy contract: %v", err)
	}

	bare, err := Compose(NewProvider("Bare"), nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	empty, err := bare.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := contract.SatisfiedBy(empty); !errors.Is(err, ErrMissingCapability) {
		t.Fatalf("expected ErrMissingCapability for bare instance, got %v", err)
	}
}

func TestSatisfiedByArityMismatch(t *testing.T) {
	contract := NewCapability("relation_finder",
		Signature{Name: "find_all", Arity: 2, Returns: ReturnsMany},
	)
	provider := staticProvider("Graph",
		Op("find_all", 1, func(args ...any) (any, error) { return nil, nil }),
	)
	composite, err := Compose(provider, nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	instance, err := composite.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := contract.SatisfiedBy(instance); !errors.Is(err, ErrMissingCapability) {
		t.Fatalf("expected arity mismatch to fail the contract, got %v", err)
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	contract := NewCapability("printer", Signature{Name: "print", Arity: 0, Returns: ReturnsNone})

	if err := registry.Register(contract); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(contract); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil contract to fail")
	}

	found, ok := registry.Lookup("Printer")
	if !ok || found != contract {
		t.Fatalf("expected case-insensitive lookup to find contract")
	}

	clone := registry.Clone()
	if names := clone.Names(); len(names) != 1 || names[0] != "printer" {
		t.Fatalf("unexpected clone names: %v", names)
	}
}
