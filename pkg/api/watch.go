package api

import (
	"encoding/json"
	"fmt"

	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/selector"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

// WatchEventKind discriminates watch events.
type WatchEventKind uint8

const (
	// EventValue reports a new value observed on a watched channel.
	EventValue WatchEventKind = iota + 1

	// EventGetterAdded reports a channel entering the watched set,
	// because it appeared or because a tag edit made it match.
	EventGetterAdded

	// EventGetterRemoved reports a channel leaving the watched set.
	EventGetterRemoved
)

// String returns the kind name.
func (k WatchEventKind) String() string {
	switch k {
	case EventValue:
		return "Value"
	case EventGetterAdded:
		return "GetterAdded"
	case EventGetterRemoved:
		return "GetterRemoved"
	default:
		return fmt.Sprintf("WatchEventKind(%d)", uint8(k))
	}
}

// WatchEvent is one entry in a subscription's ordered event stream.
// Value is set only for EventValue.
type WatchEvent struct {
	Kind  WatchEventKind
	From  model.ChannelID
	Value value.Value
}

// ValueEvent builds an EventValue event.
func ValueEvent(from model.ChannelID, v value.Value) WatchEvent {
	return WatchEvent{Kind: EventValue, From: from, Value: v}
}

// GetterAddedEvent builds an EventGetterAdded event.
func GetterAddedEvent(id model.ChannelID) WatchEvent {
	return WatchEvent{Kind: EventGetterAdded, From: id}
}

// GetterRemovedEvent builds an EventGetterRemoved event.
func GetterRemovedEvent(id model.ChannelID) WatchEvent {
	return WatchEvent{Kind: EventGetterRemoved, From: id}
}

type valueEventJSON struct {
	From  model.ChannelID `json:"from"`
	Value value.Payload   `json:"value"`
}

// MarshalJSON encodes the event as a one-key envelope tagged with the
// kind name: {"Value":{"from":...,"value":...}}, {"GetterAdded":"id"}
// or {"GetterRemoved":"id"}.
func (e WatchEvent) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EventValue:
		return json.Marshal(map[string]valueEventJSON{
			"Value": {From: e.From, Value: value.Payload{Value: e.Value}},
		})
	case EventGetterAdded, EventGetterRemoved:
		return json.Marshal(map[string]model.ChannelID{e.Kind.String(): e.From})
	default:
		return nil, fmt.Errorf("cannot encode watch event of kind %s", e.Kind)
	}
}

// UnmarshalJSON decodes the envelopes produced by MarshalJSON.
func (e *WatchEvent) UnmarshalJSON(data []byte) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: watch event: %v", value.ErrSyntax, err)
	}
	if len(envelope) != 1 {
		return fmt.Errorf("%w: watch event envelope must have exactly one key", value.ErrSyntax)
	}
	for tag, raw := range envelope {
		switch tag {
		case "Value":
			var payload valueEventJSON
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("%w: watch event value: %v", value.ErrSyntax, err)
			}
			*e = ValueEvent(payload.From, payload.Value.Value)
		case "GetterAdded", "GetterRemoved":
			var id model.ChannelID
			if err := json.Unmarshal(raw, &id); err != nil {
				return fmt.Errorf("%w: watch event id: %v", value.ErrSyntax, err)
			}
			if tag == "GetterAdded" {
				*e = GetterAddedEvent(id)
			} else {
				*e = GetterRemovedEvent(id)
			}
		default:
			return fmt.Errorf("%w: unknown watch event tag %q", value.ErrSyntax, tag)
		}
	}
	return nil
}

// WatchOptions configures one source of a watch subscription: a live
// input-channel selector plus two independent flags. Options are
// immutable once built; the With methods return refined copies and the
// source selector only ever tightens.
type WatchOptions struct {
	source        selector.GetterSelector
	watchValues   bool
	watchTopology bool
}

// NewWatchOptions returns options watching every getter with both
// event classes disabled.
func NewWatchOptions() WatchOptions {
	return WatchOptions{}
}

// WithGetters refines the source selector conjunctively.
func (o WatchOptions) WithGetters(sel selector.GetterSelector) WatchOptions {
	o.source = o.source.And(sel)
	return o
}

// WithWatchValues enables or disables value events.
func (o WatchOptions) WithWatchValues(on bool) WatchOptions {
	o.watchValues = on
	return o
}

// WithWatchTopology enables or disables topology events.
func (o WatchOptions) WithWatchTopology(on bool) WatchOptions {
	o.watchTopology = on
	return o
}

// Source returns the source selector.
func (o WatchOptions) Source() selector.GetterSelector { return o.source }

// WatchValues reports whether value events are enabled.
func (o WatchOptions) WatchValues() bool { return o.watchValues }

// WatchTopology reports whether topology events are enabled.
func (o WatchOptions) WatchTopology() bool { return o.watchTopology }

// WatchGuard keeps a watch subscription alive. Release stops event
// delivery and tears down tracking; after it returns no further event
// is delivered, even for changes concurrent with the call. Release is
// idempotent. It must not be called from inside the subscription's own
// callback.
type WatchGuard interface {
	Release()
}
