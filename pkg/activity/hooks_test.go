package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHooksNotifyFansOut(t *testing.T) {
	first := &CaptureHook{}
	second := &CaptureHook{}
	hooks := Hooks{first, nil, second}

	if !hooks.Enabled() {
		t.Fatalf("expected hooks to be enabled")
	}

	err := hooks.Notify(context.Background(), Event{
		Verb:       "composite.composed",
		ObjectType: "composite",
		ObjectID:   "Device",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(first.Events) != 1 || len(second.Events) != 1 {
		t.Fatalf("expected both hooks notified, got %d/%d", len(first.Events), len(second.Events))
	}
}

func TestHooksNotifyJoinsErrors(t *testing.T) {
	hookErr := errors.New("hook failed")
	failing := &CaptureHook{Err: hookErr}
	healthy := &CaptureHook{}
	hooks := Hooks{failing, healthy}

	err := hooks.Notify(context.Background(), Event{
		Verb:       "composite.composed",
		ObjectType: "composite",
		ObjectID:   "Device",
	})
	if !errors.Is(err, hookErr) {
		t.Fatalf("expected hook error surfaced, got %v", err)
	}
	if len(healthy.Events) != 1 {
		t.Fatalf("failure in one hook must not skip the others")
	}
}

func TestHooksNotifySkipsIncompleteEvents(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}

	cases := []Event{
		{ObjectType: "composite", ObjectID: "Device"},
		{Verb: "composite.composed", ObjectID: "Device"},
		{Verb: "composite.composed", ObjectType: "composite"},
	}
	for _, event := range cases {
		if err := hooks.Notify(context.Background(), event); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected incomplete events dropped, got %d", len(capture.Events))
	}
}

func TestNormalizeEvent(t *testing.T) {
	metadata := map[string]any{"provider": "Scanner"}
	event := Event{
		Verb:       "  composite.composed  ",
		ActorID:    " builder ",
		ObjectType: " composite ",
		ObjectID:   " Device ",
		Metadata:   metadata,
	}

	normalized := NormalizeEvent(event)
	if normalized.Verb != "composite.composed" || normalized.ActorID != "builder" {
		t.Fatalf("expected trimmed fields, got %+v", normalized)
	}
	if normalized.OccurredAt.IsZero() {
		t.Fatalf("expected timestamp defaulted")
	}

	normalized.Metadata["provider"] = "Printer"
	if metadata["provider"] != "Scanner" {
		t.Fatalf("metadata should be cloned, source mutated")
	}
}

func TestEmitterAppliesDefaultChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})

	if !emitter.Enabled() {
		t.Fatalf("expected emitter enabled")
	}
	err := emitter.Emit(context.Background(), Event{
		Verb:       "composite.composed",
		ObjectType: "composite",
		ObjectID:   "Device",
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != "composition" {
		t.Fatalf("expected default channel, got %q", capture.Events[0].Channel)
	}
}

func TestEmitterDisabled(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: false})

	if emitter.Enabled() {
		t.Fatalf("expected emitter disabled")
	}
	if err := emitter.Emit(context.Background(), Event{Verb: "composite.composed", ObjectType: "composite", ObjectID: "Device"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events while disabled, got %d", len(capture.Events))
	}
}

func TestHookFuncAdapter(t *testing.T) {
	var seen []Event
	hook := HookFunc(func(_ context.Context, event Event) error {
		seen = append(seen, event)
		return nil
	})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := hook.Notify(context.Background(), Event{Verb: "v", ObjectType: "o", ObjectID: "1", OccurredAt: now})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(seen) != 1 || seen[0].OccurredAt != now {
		t.Fatalf("expected event passed through, got %v", seen)
	}
}
