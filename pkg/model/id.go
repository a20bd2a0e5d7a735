package model

import "github.com/google/uuid"

// NodeID identifies a node. Ids are opaque strings, globally unique
// within a running hub; uniqueness is the allocating adapter's job.
type NodeID string

// ChannelID identifies a getter or setter channel. Same uniqueness
// contract as NodeID.
type ChannelID string

// NewNodeID allocates a random node id.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// NewChannelID allocates a random channel id.
func NewChannelID() ChannelID {
	return ChannelID(uuid.NewString())
}

func (id NodeID) String() string { return string(id) }

func (id ChannelID) String() string { return string(id) }
