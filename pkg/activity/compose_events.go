package activity

import (
	"strings"
	"time"
)

// ComposeEventInput describes the common fields for composition lifecycle
// events.
type ComposeEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Composite  string
	Provider   string
	Member     string
	InstanceID string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildCompositeComposedEvent constructs a normalized event for a completed
// composition.
func BuildCompositeComposedEvent(input ComposeEventInput) Event {
	return buildComposeEvent("composite.composed", "composite", input.Composite, input)
}

// BuildInstanceBuiltEvent constructs a normalized event for one constructed
// instance.
func BuildInstanceBuiltEvent(input ComposeEventInput) Event {
	return buildComposeEvent("composite.instance_built", "instance", input.InstanceID, input)
}

// BuildMemberOverriddenEvent constructs a normalized event for a last-wins
// member override during copy.
func BuildMemberOverriddenEvent(input ComposeEventInput) Event {
	return buildComposeEvent("composite.member_overridden", "composite", input.Composite, input)
}

func buildComposeEvent(verb, objectType, objectID string, input ComposeEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Composite != "" {
		metadata = setMeta(metadata, "composite", input.Composite)
	}
	if input.Provider != "" {
		metadata = setMeta(metadata, "provider", input.Provider)
	}
	if input.Member != "" {
		metadata = setMeta(metadata, "member", input.Member)
	}
	if input.InstanceID != "" {
		metadata = setMeta(metadata, "instance_id", input.InstanceID)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   strings.TrimSpace(objectID),
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func setMeta(metadata map[string]any, key string, value any) map[string]any {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata[key] = value
	return metadata
}
