package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventMutation EventType = "mutation"
	EventAugment  EventType = "augment"
	EventRescan   EventType = "rescan"
	EventCopy     EventType = "copy"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// MutationEvent reports a host change batch after engine-owned nodes were filtered out.
type MutationEvent struct {
	EventBase
	Added int `json:"added"`
}

// AugmentEvent reports a table decorated straight from a change notification,
// ahead of the debounced pass.
type AugmentEvent struct {
	EventBase
	Tag string `json:"tag"`
}

// PassEvent reports a completed reconciliation pass.
type PassEvent struct {
	EventBase
	Pass      int           `json:"pass"`
	Tables    int           `json:"tables"`
	Augmented int           `json:"augmented"`
	Turns     int           `json:"turns"`
	Strategy  string        `json:"strategy,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// CopyEvent reports the outcome of one export activation.
type CopyEvent struct {
	EventBase
	Tag   string    `json:"tag"`
	State CopyState `json:"state"`
	Bytes int       `json:"bytes"`
	Err   error     `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Every hook is optional and runs on the engine's execution sequence.
type LifecycleHooks struct {
	OnMutation func(context.Context, *MutationEvent)
	OnAugment  func(context.Context, *AugmentEvent)
	OnPass     func(context.Context, *PassEvent)
	OnCopy     func(context.Context, *CopyEvent)
}
