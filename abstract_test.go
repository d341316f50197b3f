package caps

import (
	"errors"
	"testing"
)

func TestGuardRejectsDirectAbstractConstruction(t *testing.T) {
	machine := NewProvider("Machine", Abstract(), Constructor(func(args ...any) ([]Member, error) {
		return []Member{Field("powered", true)}, nil
	}))

	if _, err := machine.Construct(); !errors.Is(err, ErrAbstractInstantiation) {
		t.Fatalf("expected ErrAbstractInstantiation, got %v", err)
	}
}

func TestGuardAllowsDescendants(t *testing.T) {
	machine := NewProvider("Machine", Abstract(), Constructor(func(args ...any) ([]Member, error) {
		return []Member{Field("powered", true)}, nil
	}))
	printer := NewProvider("MultiFunctionPrinter",
		Extends(machine),
		Constructor(func(args ...any) ([]Member, error) {
			return []Member{
				Op("print", 0, func(args ...any) (any, error) { return "printed", nil }),
			}, nil
		}),
	)

	members, err := printer.Construct()
	if err != nil {
		t.Fatalf("expected descendant construction to pass the guard: %v", err)
	}

	var sawInherited, sawOwn bool
	for _, m := range members {
		switch m.Name {
		case "powered":
			sawInherited = true
		case "print":
			sawOwn = true
		}
	}
	if !sawInherited || !sawOwn {
		t.Fatalf("expected inherited and own members, got %+v", members)
	}
}

func TestGuardExactTypeOnly(t *testing.T) {
	machine := NewProvider("Machine", Abstract())
	printer := NewProvider("Printer", Extends(machine))

	if err := Guard(printer, machine); err != nil {
		t.Fatalf("guard must pass for strict descendants: %v", err)
	}
	if err := Guard(machine, machine); !errors.Is(err, ErrAbstractInstantiation) {
		t.Fatalf("guard must fail for the abstract type itself, got %v", err)
	}
	if err := Guard(printer, printer); err != nil {
		t.Fatalf("guard must ignore concrete owners: %v", err)
	}
}

func TestAbstractCapabilityProviderFailsAtBuildTime(t *testing.T) {
	abstract := NewProvider("AbstractScanner", Abstract(), Constructor(func(args ...any) ([]Member, error) {
		return []Member{Op("scan", 0, func(args ...any) (any, error) { return nil, nil })}, nil
	}))

	composite, err := Compose(NewProvider("Base"), []*Provider{abstract})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if _, err := composite.New(); !errors.Is(err, ErrAbstractInstantiation) {
		t.Fatalf("expected abstract provider rejected at construction, got %v", err)
	}
}

func TestDescendantCapabilityProviderComposes(t *testing.T) {
	abstract := NewProvider("AbstractScanner", Abstract(), Constructor(func(args ...any) ([]Member, error) {
		return []Member{Field("dpi", 300)}, nil
	}))
	concrete := NewProvider("FlatbedScanner",
		Extends(abstract),
		Constructor(func(args ...any) ([]Member, error) {
			return []Member{
				Op("scan", 0, func(args ...any) (any, error) { return "scanned", nil }),
			}, nil
		}),
	)

	composite, err := Compose(NewProvider("Base"), []*Provider{concrete})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	instance, err := composite.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// Only the provider's own members are copied, not inherited ones.
	if instance.Has("dpi") {
		t.Fatalf("inherited member should not be copied during aggregation")
	}
	if got, err := instance.Call("scan"); err != nil || got != "scanned" {
		t.Fatalf("expected own member copied, got %v (%v)", got, err)
	}
}
