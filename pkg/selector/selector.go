package selector

import (
	"slices"

	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

// Period bounds a duration field. Nil bounds are open ends; the zero
// Period matches any duration.
type Period struct {
	Min *value.Duration `json:"min,omitempty"`
	Max *value.Duration `json:"max,omitempty"`
}

// Contains reports whether d lies within the period, bounds included.
func (p Period) Contains(d value.Duration) bool {
	if p.Min != nil && d < *p.Min {
		return false
	}
	if p.Max != nil && d > *p.Max {
		return false
	}
	return true
}

// And intersects two periods, keeping the tightest bounds.
func (p Period) And(other Period) Period {
	out := Period{Min: p.Min, Max: p.Max}
	if other.Min != nil && (out.Min == nil || *other.Min > *out.Min) {
		out.Min = other.Min
	}
	if other.Max != nil && (out.Max == nil || *other.Max < *out.Max) {
		out.Max = other.Max
	}
	return out
}

// GetterSelector addresses input channels. The zero value matches every
// getter in the system.
type GetterSelector struct {
	ID      Exactly[model.ChannelID]   `json:"id,omitzero"`
	Parent  Exactly[model.NodeID]      `json:"parent,omitzero"`
	Tags    []string                   `json:"tags,omitempty"`
	Kind    Exactly[model.ServiceKind] `json:"kind,omitzero"`
	Poll    *Period                    `json:"poll,omitempty"`
	Trigger *Period                    `json:"trigger,omitempty"`
}

// Matches reports whether the channel satisfies every field of the
// selector. A Poll or Trigger period only matches channels advertising
// the corresponding capability.
func (s GetterSelector) Matches(ch *model.Channel[model.Getter]) bool {
	if !s.ID.Matches(ch.ID()) || !s.Parent.Matches(ch.Node()) {
		return false
	}
	if !ch.HasTags(s.Tags) || !s.Kind.Matches(ch.Kind()) {
		return false
	}
	if s.Poll != nil {
		poll, ok := ch.Mechanism().Poll()
		if !ok || !s.Poll.Contains(poll) {
			return false
		}
	}
	if s.Trigger != nil {
		trigger, ok := ch.Mechanism().Trigger()
		if !ok || !s.Trigger.Contains(trigger) {
			return false
		}
	}
	return true
}

// WithID returns a copy refined to match only the given channel id.
func (s GetterSelector) WithID(id model.ChannelID) GetterSelector {
	s.ID = s.ID.And(Is(id))
	return s
}

// WithParent returns a copy refined to match only channels owned by the
// given node.
func (s GetterSelector) WithParent(id model.NodeID) GetterSelector {
	s.Parent = s.Parent.And(Is(id))
	return s
}

// WithTags returns a copy additionally requiring the given tags.
func (s GetterSelector) WithTags(tags ...string) GetterSelector {
	s.Tags = mergeTags(s.Tags, tags)
	return s
}

// WithKind returns a copy refined to match only channels of the given
// kind.
func (s GetterSelector) WithKind(kind model.ServiceKind) GetterSelector {
	s.Kind = s.Kind.And(Is(kind))
	return s
}

// WithPoll returns a copy additionally requiring a poll capability
// within the period.
func (s GetterSelector) WithPoll(p Period) GetterSelector {
	s.Poll = mergePeriod(s.Poll, p)
	return s
}

// WithTrigger returns a copy additionally requiring a trigger
// capability within the period.
func (s GetterSelector) WithTrigger(p Period) GetterSelector {
	s.Trigger = mergePeriod(s.Trigger, p)
	return s
}

// And combines two selectors conjunctively.
func (s GetterSelector) And(other GetterSelector) GetterSelector {
	out := GetterSelector{
		ID:     s.ID.And(other.ID),
		Parent: s.Parent.And(other.Parent),
		Tags:   mergeTags(s.Tags, other.Tags),
		Kind:   s.Kind.And(other.Kind),
		Poll:   s.Poll,
	}
	if other.Poll != nil {
		out.Poll = mergePeriod(out.Poll, *other.Poll)
	}
	out.Trigger = s.Trigger
	if other.Trigger != nil {
		out.Trigger = mergePeriod(out.Trigger, *other.Trigger)
	}
	return out
}

// SetterSelector addresses output channels. The zero value matches
// every setter in the system.
type SetterSelector struct {
	ID     Exactly[model.ChannelID]   `json:"id,omitzero"`
	Parent Exactly[model.NodeID]      `json:"parent,omitzero"`
	Tags   []string                   `json:"tags,omitempty"`
	Kind   Exactly[model.ServiceKind] `json:"kind,omitzero"`
	Push   *Period                    `json:"push,omitempty"`
}

// Matches reports whether the channel satisfies every field of the
// selector.
func (s SetterSelector) Matches(ch *model.Channel[model.Setter]) bool {
	if !s.ID.Matches(ch.ID()) || !s.Parent.Matches(ch.Node()) {
		return false
	}
	if !ch.HasTags(s.Tags) || !s.Kind.Matches(ch.Kind()) {
		return false
	}
	if s.Push != nil {
		push, ok := ch.Mechanism().Push()
		if !ok || !s.Push.Contains(push) {
			return false
		}
	}
	return true
}

// WithID returns a copy refined to match only the given channel id.
func (s SetterSelector) WithID(id model.ChannelID) SetterSelector {
	s.ID = s.ID.And(Is(id))
	return s
}

// WithParent returns a copy refined to match only channels owned by the
// given node.
func (s SetterSelector) WithParent(id model.NodeID) SetterSelector {
	s.Parent = s.Parent.And(Is(id))
	return s
}

// WithTags returns a copy additionally requiring the given tags.
func (s SetterSelector) WithTags(tags ...string) SetterSelector {
	s.Tags = mergeTags(s.Tags, tags)
	return s
}

// WithKind returns a copy refined to match only channels of the given
// kind.
func (s SetterSelector) WithKind(kind model.ServiceKind) SetterSelector {
	s.Kind = s.Kind.And(Is(kind))
	return s
}

// WithPush returns a copy additionally requiring a push capability
// within the period.
func (s SetterSelector) WithPush(p Period) SetterSelector {
	s.Push = mergePeriod(s.Push, p)
	return s
}

// And combines two selectors conjunctively.
func (s SetterSelector) And(other SetterSelector) SetterSelector {
	out := SetterSelector{
		ID:     s.ID.And(other.ID),
		Parent: s.Parent.And(other.Parent),
		Tags:   mergeTags(s.Tags, other.Tags),
		Kind:   s.Kind.And(other.Kind),
		Push:   s.Push,
	}
	if other.Push != nil {
		out.Push = mergePeriod(out.Push, *other.Push)
	}
	return out
}

// NodeSelector addresses nodes. The zero value matches every node in
// the system.
type NodeSelector struct {
	ID      Exactly[model.NodeID] `json:"id,omitzero"`
	Tags    []string              `json:"tags,omitempty"`
	Getters []GetterSelector      `json:"getters,omitempty"`
	Setters []SetterSelector      `json:"setters,omitempty"`
}

// Matches reports whether the node satisfies every field of the
// selector. Each channel sub-selector must match at least one of the
// node's own channels.
func (s NodeSelector) Matches(n *model.Node) bool {
	if !s.ID.Matches(n.ID()) || !n.HasTags(s.Tags) {
		return false
	}
	for _, sub := range s.Getters {
		if !slices.ContainsFunc(n.Getters(), sub.Matches) {
			return false
		}
	}
	for _, sub := range s.Setters {
		if !slices.ContainsFunc(n.Setters(), sub.Matches) {
			return false
		}
	}
	return true
}

// WithID returns a copy refined to match only the given node id.
func (s NodeSelector) WithID(id model.NodeID) NodeSelector {
	s.ID = s.ID.And(Is(id))
	return s
}

// WithTags returns a copy additionally requiring the given tags.
func (s NodeSelector) WithTags(tags ...string) NodeSelector {
	s.Tags = mergeTags(s.Tags, tags)
	return s
}

// WithGetter returns a copy additionally requiring a matching input
// channel.
func (s NodeSelector) WithGetter(sub GetterSelector) NodeSelector {
	s.Getters = append(slices.Clone(s.Getters), sub)
	return s
}

// WithSetter returns a copy additionally requiring a matching output
// channel.
func (s NodeSelector) WithSetter(sub SetterSelector) NodeSelector {
	s.Setters = append(slices.Clone(s.Setters), sub)
	return s
}

// And combines two selectors conjunctively.
func (s NodeSelector) And(other NodeSelector) NodeSelector {
	return NodeSelector{
		ID:      s.ID.And(other.ID),
		Tags:    mergeTags(s.Tags, other.Tags),
		Getters: append(slices.Clone(s.Getters), other.Getters...),
		Setters: append(slices.Clone(s.Setters), other.Setters...),
	}
}

// AnyNode reports whether any selector in the list matches the node.
// An empty list matches nothing.
func AnyNode(sels []NodeSelector, n *model.Node) bool {
	for _, s := range sels {
		if s.Matches(n) {
			return true
		}
	}
	return false
}

// AnyGetter reports whether any selector in the list matches the
// channel. An empty list matches nothing.
func AnyGetter(sels []GetterSelector, ch *model.Channel[model.Getter]) bool {
	for _, s := range sels {
		if s.Matches(ch) {
			return true
		}
	}
	return false
}

// AnySetter reports whether any selector in the list matches the
// channel. An empty list matches nothing.
func AnySetter(sels []SetterSelector, ch *model.Channel[model.Setter]) bool {
	for _, s := range sels {
		if s.Matches(ch) {
			return true
		}
	}
	return false
}

func mergeTags(a, b []string) []string {
	out := slices.Clone(a)
	for _, tag := range b {
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

func mergePeriod(existing *Period, p Period) *Period {
	if existing == nil {
		out := p
		return &out
	}
	out := existing.And(p)
	return &out
}
