package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDuplicateID reports an attempt to attach a subnode or channel whose
// id is already present on the node.
var ErrDuplicateID = errors.New("duplicate id")

// ErrWrongOwner reports an attempt to attach a channel to a node other
// than the one recorded as its owner.
var ErrWrongOwner = errors.New("channel owned by another node")

// Node is an addressable device or device group. It owns its subnodes
// and channels; the parent link is a plain id so the forest never holds
// cyclic references.
type Node struct {
	tags     []string
	id       NodeID
	parent   NodeID
	subnodes []*Node
	getters  []*Channel[Getter]
	setters  []*Channel[Setter]
}

// NewNode returns a node with no parent, tags or channels.
func NewNode(id NodeID) *Node {
	return &Node{id: id}
}

// ID returns the node id.
func (n *Node) ID() NodeID { return n.id }

// Parent returns the parent node id, if the node has one.
func (n *Node) Parent() (NodeID, bool) {
	if n.parent == "" {
		return "", false
	}
	return n.parent, true
}

// Tags returns a copy of the node's tag set.
func (n *Node) Tags() []string { return cloneTags(n.tags) }

// AddTag adds a tag and reports whether the set changed.
func (n *Node) AddTag(tag string) bool {
	tags, changed := addTag(n.tags, tag)
	n.tags = tags
	return changed
}

// RemoveTag removes a tag and reports whether the set changed.
func (n *Node) RemoveTag(tag string) bool {
	tags, changed := removeTag(n.tags, tag)
	n.tags = tags
	return changed
}

// HasTags reports whether every given tag is present.
func (n *Node) HasTags(tags []string) bool {
	return containsAll(n.tags, tags)
}

// Subnodes returns the owned subnodes. The slice is a copy; the nodes
// are shared. Callers needing an isolated view use Clone.
func (n *Node) Subnodes() []*Node {
	return append([]*Node(nil), n.subnodes...)
}

// Getters returns the owned input channels. The slice is a copy; the
// channels are shared.
func (n *Node) Getters() []*Channel[Getter] {
	return append([]*Channel[Getter](nil), n.getters...)
}

// Setters returns the owned output channels. The slice is a copy; the
// channels are shared.
func (n *Node) Setters() []*Channel[Setter] {
	return append([]*Channel[Setter](nil), n.setters...)
}

// AddSubnode attaches child and records n as its parent. Attaching a
// node whose id is already present fails with ErrDuplicateID. Keeping
// the overall graph acyclic is the caller's responsibility.
func (n *Node) AddSubnode(child *Node) error {
	if child.id == n.id {
		return fmt.Errorf("%w: %s", ErrDuplicateID, child.id)
	}
	for _, sub := range n.subnodes {
		if sub.id == child.id {
			return fmt.Errorf("%w: %s", ErrDuplicateID, child.id)
		}
	}
	child.parent = n.id
	n.subnodes = append(n.subnodes, child)
	return nil
}

// RemoveSubnode detaches and returns the subnode with the given id, or
// nil if the node has no such subnode.
func (n *Node) RemoveSubnode(id NodeID) *Node {
	for i, sub := range n.subnodes {
		if sub.id == id {
			n.subnodes = append(n.subnodes[:i], n.subnodes[i+1:]...)
			sub.parent = ""
			return sub
		}
	}
	return nil
}

// AddGetter attaches an input channel. The channel must name n as its
// owner and its id must not already be present.
func (n *Node) AddGetter(ch *Channel[Getter]) error {
	if ch.node != n.id {
		return fmt.Errorf("%w: %s belongs to %s", ErrWrongOwner, ch.id, ch.node)
	}
	for _, existing := range n.getters {
		if existing.id == ch.id {
			return fmt.Errorf("%w: %s", ErrDuplicateID, ch.id)
		}
	}
	n.getters = append(n.getters, ch)
	return nil
}

// AddSetter attaches an output channel under the same rules as AddGetter.
func (n *Node) AddSetter(ch *Channel[Setter]) error {
	if ch.node != n.id {
		return fmt.Errorf("%w: %s belongs to %s", ErrWrongOwner, ch.id, ch.node)
	}
	for _, existing := range n.setters {
		if existing.id == ch.id {
			return fmt.Errorf("%w: %s", ErrDuplicateID, ch.id)
		}
	}
	n.setters = append(n.setters, ch)
	return nil
}

// RemoveGetter detaches the input channel with the given id.
func (n *Node) RemoveGetter(id ChannelID) bool {
	for i, ch := range n.getters {
		if ch.id == id {
			n.getters = append(n.getters[:i], n.getters[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveSetter detaches the output channel with the given id.
func (n *Node) RemoveSetter(id ChannelID) bool {
	for i, ch := range n.setters {
		if ch.id == id {
			n.setters = append(n.setters[:i], n.setters[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node and everything it owns.
func (n *Node) Clone() *Node {
	clone := &Node{
		tags:   cloneTags(n.tags),
		id:     n.id,
		parent: n.parent,
	}
	for _, sub := range n.subnodes {
		clone.subnodes = append(clone.subnodes, sub.Clone())
	}
	for _, ch := range n.getters {
		clone.getters = append(clone.getters, ch.Clone())
	}
	for _, ch := range n.setters {
		clone.setters = append(clone.setters, ch.Clone())
	}
	return clone
}

type nodeJSON struct {
	Tags     []string             `json:"tags"`
	ID       NodeID               `json:"id"`
	Parent   NodeID               `json:"parent,omitempty"`
	Subnodes []*Node              `json:"subnodes,omitempty"`
	Getters  []*Channel[Getter]   `json:"getters"`
	Setters  []*Channel[Setter]   `json:"setters"`
}

// MarshalJSON encodes the node with its subtree and channels.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		Tags:     tagsOrEmpty(n.tags),
		ID:       n.id,
		Parent:   n.parent,
		Subnodes: n.subnodes,
		Getters:  n.getters,
		Setters:  n.setters,
	}
	if out.Getters == nil {
		out.Getters = []*Channel[Getter]{}
	}
	if out.Setters == nil {
		out.Setters = []*Channel[Setter]{}
	}
	return json.Marshal(out)
}
