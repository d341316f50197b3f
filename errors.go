package caps

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBaseType reports a base provider that cannot be constructed.
	// It is the only input-validation failure Compose produces.
	ErrInvalidBaseType = errors.New("caps: base type is not constructible")

	// ErrAbstractInstantiation reports direct construction of an abstract
	// provider. Constructing a strict descendant does not trigger it.
	ErrAbstractInstantiation = errors.New("caps: abstract type cannot be instantiated directly")

	// ErrMissingCapability reports a value that does not satisfy a required
	// capability contract. It surfaces at binding time, before any consumer
	// logic runs.
	ErrMissingCapability = errors.New("caps: missing capability")

	// ErrNotImplemented is the declared failure signal for providers that
	// intentionally decline an operation. Returning it keeps the gap
	// discoverable; succeeding silently instead hides it from callers and is
	// not supported by this package.
	ErrNotImplemented = errors.New("caps: not implemented")

	// ErrUnknownMember reports a call against a member the composite never
	// received.
	ErrUnknownMember = errors.New("caps: unknown member")
)

// CompositionError captures composition metadata alongside the originating
// error.
type CompositionError struct {
	Op        string
	Composite string
	Provider  string
	Member    string
	Err       error
}

func (e *CompositionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "caps: %s", e.Op)
	if e.Composite != "" {
		fmt.Fprintf(&b, " composite=%s", e.Composite)
	}
	if e.Provider != "" {
		fmt.Fprintf(&b, " provider=%s", e.Provider)
	}
	if e.Member != "" {
		fmt.Fprintf(&b, " member=%s", e.Member)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *CompositionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapCompositionError(op, composite, provider, member string, err error) error {
	if err == nil {
		return nil
	}

	var compErr *CompositionError
	if errors.As(err, &compErr) {
		if compErr.Op == "" {
			compErr.Op = op
		}
		if compErr.Composite == "" {
			compErr.Composite = composite
		}
		if compErr.Provider == "" {
			compErr.Provider = provider
		}
		if compErr.Member == "" {
			compErr.Member = member
		}
		return compErr
	}

	return &CompositionError{
		Op:        op,
		Composite: composite,
		Provider:  provider,
		Member:    member,
		Err:       err,
	}
}
