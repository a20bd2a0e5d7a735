package model

import (
	"encoding/json"

	"github.com/fabricedesre/taxonomy/pkg/value"
)

// Mechanism describes how a channel exchanges data. The set of
// implementations is closed: Getter for input channels, Setter for
// output channels.
type Mechanism interface {
	// Kind returns what kind of quantity the channel carries.
	Kind() ServiceKind

	// Updated returns when the channel last exchanged a value.
	Updated() value.TimeStamp

	isMechanism()
}

// Getter is the mechanism of an input channel: values can be read from
// it, by polling, on a trigger, or both.
type Getter struct {
	kind    ServiceKind
	poll    *value.Duration
	trigger *value.Duration
	updated value.TimeStamp
}

// NewGetter returns a getter mechanism for the given kind.
func NewGetter(kind ServiceKind) Getter {
	return Getter{kind: kind, updated: value.Now()}
}

// WithPoll returns a copy advertising that the backing device can be
// polled every interval.
func (g Getter) WithPoll(interval value.Duration) Getter {
	g.poll = &interval
	return g
}

// WithTrigger returns a copy advertising that the backing device pushes
// a value at most every interval.
func (g Getter) WithTrigger(interval value.Duration) Getter {
	g.trigger = &interval
	return g
}

// Kind returns the channel kind.
func (g Getter) Kind() ServiceKind { return g.kind }

// Poll returns the poll interval, if the device supports polling.
func (g Getter) Poll() (value.Duration, bool) {
	if g.poll == nil {
		return 0, false
	}
	return *g.poll, true
}

// Trigger returns the trigger interval, if the device pushes values.
func (g Getter) Trigger() (value.Duration, bool) {
	if g.trigger == nil {
		return 0, false
	}
	return *g.trigger, true
}

// Updated returns when a value was last fetched or pushed.
func (g Getter) Updated() value.TimeStamp { return g.updated }

// Setter is the mechanism of an output channel: values can be sent to it.
type Setter struct {
	kind    ServiceKind
	push    *value.Duration
	updated value.TimeStamp
}

// NewSetter returns a setter mechanism for the given kind.
func NewSetter(kind ServiceKind) Setter {
	return Setter{kind: kind, updated: value.Now()}
}

// WithPush returns a copy advertising that the backing device accepts a
// value at most every interval.
func (s Setter) WithPush(interval value.Duration) Setter {
	s.push = &interval
	return s
}

// Kind returns the channel kind.
func (s Setter) Kind() ServiceKind { return s.kind }

// Push returns the push interval, if the device constrains sends.
func (s Setter) Push() (value.Duration, bool) {
	if s.push == nil {
		return 0, false
	}
	return *s.push, true
}

// Updated returns when a value was last sent.
func (s Setter) Updated() value.TimeStamp { return s.updated }

func (Getter) isMechanism() {}
func (Setter) isMechanism() {}

var (
	_ Mechanism = Getter{}
	_ Mechanism = Setter{}
)

// Channel is a single data path on a node, generic over its mechanism.
// Id, owning node and mechanism kind are immutable once constructed;
// the tag set and timestamps are mutated through the hub.
type Channel[IO Mechanism] struct {
	tags     []string
	id       ChannelID
	node     NodeID
	mech     IO
	lastSeen value.TimeStamp
}

// GetterChannel is an input channel.
type GetterChannel = Channel[Getter]

// SetterChannel is an output channel.
type SetterChannel = Channel[Setter]

// NewChannel builds a channel owned by node.
func NewChannel[IO Mechanism](id ChannelID, node NodeID, mech IO) *Channel[IO] {
	return &Channel[IO]{
		id:       id,
		node:     node,
		mech:     mech,
		lastSeen: value.Now(),
	}
}

// ID returns the channel id.
func (c *Channel[IO]) ID() ChannelID { return c.id }

// Node returns the id of the owning node. The reference is non-owning.
func (c *Channel[IO]) Node() NodeID { return c.node }

// Mechanism returns the channel's mechanism.
func (c *Channel[IO]) Mechanism() IO { return c.mech }

// Kind returns the channel kind.
func (c *Channel[IO]) Kind() ServiceKind { return c.mech.Kind() }

// LastSeen returns when the channel was last seen online.
func (c *Channel[IO]) LastSeen() value.TimeStamp { return c.lastSeen }

// Tags returns a copy of the channel's tag set.
func (c *Channel[IO]) Tags() []string { return cloneTags(c.tags) }

// AddTag adds a tag and reports whether the set changed.
func (c *Channel[IO]) AddTag(tag string) bool {
	tags, changed := addTag(c.tags, tag)
	c.tags = tags
	return changed
}

// RemoveTag removes a tag and reports whether the set changed.
func (c *Channel[IO]) RemoveTag(tag string) bool {
	tags, changed := removeTag(c.tags, tag)
	c.tags = tags
	return changed
}

// HasTags reports whether every given tag is present.
func (c *Channel[IO]) HasTags(tags []string) bool {
	return containsAll(c.tags, tags)
}

// MarkUpdated records that the channel exchanged a value at ts.
func (c *Channel[IO]) MarkUpdated(ts value.TimeStamp) {
	switch m := any(c.mech).(type) {
	case Getter:
		m.updated = ts
		c.mech = any(m).(IO)
	case Setter:
		m.updated = ts
		c.mech = any(m).(IO)
	}
	c.lastSeen = ts
}

// Clone returns a deep copy sharing no mutable state with the original.
func (c *Channel[IO]) Clone() *Channel[IO] {
	clone := *c
	clone.tags = cloneTags(c.tags)
	switch m := any(clone.mech).(type) {
	case Getter:
		if m.poll != nil {
			p := *m.poll
			m.poll = &p
		}
		if m.trigger != nil {
			tr := *m.trigger
			m.trigger = &tr
		}
		clone.mech = any(m).(IO)
	case Setter:
		if m.push != nil {
			p := *m.push
			m.push = &p
		}
		clone.mech = any(m).(IO)
	}
	return &clone
}

type getterJSON struct {
	Kind    ServiceKind     `json:"kind"`
	Poll    *value.Duration `json:"poll,omitempty"`
	Trigger *value.Duration `json:"trigger,omitempty"`
	Updated value.TimeStamp `json:"updated"`
}

type setterJSON struct {
	Kind    ServiceKind     `json:"kind"`
	Push    *value.Duration `json:"push,omitempty"`
	Updated value.TimeStamp `json:"updated"`
}

type channelJSON struct {
	Tags      []string                   `json:"tags"`
	ID        ChannelID                  `json:"id"`
	Node      NodeID                     `json:"node"`
	Mechanism map[string]json.RawMessage `json:"mechanism"`
	LastSeen  value.TimeStamp            `json:"last_seen"`
}

// MarshalJSON encodes the channel with its mechanism as a one-key
// envelope tagged "Getter" or "Setter".
func (c Channel[IO]) MarshalJSON() ([]byte, error) {
	var tag string
	var mech any
	switch m := any(c.mech).(type) {
	case Getter:
		tag = "Getter"
		mech = getterJSON{Kind: m.kind, Poll: m.poll, Trigger: m.trigger, Updated: m.updated}
	case Setter:
		tag = "Setter"
		mech = setterJSON{Kind: m.kind, Push: m.push, Updated: m.updated}
	}
	inner, err := json.Marshal(mech)
	if err != nil {
		return nil, err
	}
	return json.Marshal(channelJSON{
		Tags:      tagsOrEmpty(c.tags),
		ID:        c.id,
		Node:      c.node,
		Mechanism: map[string]json.RawMessage{tag: inner},
		LastSeen:  c.lastSeen,
	})
}
