// Package api defines the contract through which transport handlers
// and rule engines address the hub: bulk selector-based reads of node
// and channel metadata, snapshot tag mutation, bulk value exchange with
// per-channel outcomes, and live watch registration.
package api

import (
	"context"

	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/selector"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

// GetterResult is the per-channel outcome of a bulk value read. Err is
// nil on success, in which case Value holds the fetched value.
type GetterResult struct {
	ID    model.ChannelID
	Value value.Value
	Err   error
}

// SetterResult is the per-channel outcome of a bulk value write.
type SetterResult struct {
	ID  model.ChannelID
	Err error
}

// API is the hub contract. Implementations must be safe for concurrent
// use.
//
// Every bulk operation takes a selector list combined with OR
// semantics: an entity is affected if it matches at least one selector,
// and an empty list affects nothing. Resolution never fails; a
// contradictory selector simply contributes no matches. Within a bulk
// value call, one channel's failure never aborts the remaining
// channels.
//
// Tag operations resolve their selectors once, against a snapshot of
// the entity graph. Entities appearing afterwards are unaffected even
// if they would have matched. The returned count is the number of
// matched entities, whether or not each entity's tag set actually
// changed; adding a tag twice is idempotent. Watch, by contrast, is
// live: its selector keeps tracking the graph until the guard is
// released.
type API interface {
	// GetNodes returns copies of the nodes matching any selector.
	GetNodes(sels []selector.NodeSelector) []*model.Node

	// AddNodeTags labels every matching node with every tag and
	// returns the number of matched nodes.
	AddNodeTags(sels []selector.NodeSelector, tags []string) int

	// RemoveNodeTags unlabels every matching node and returns the
	// number of matched nodes. Removing an absent tag is a no-op for
	// that node, which still counts.
	RemoveNodeTags(sels []selector.NodeSelector, tags []string) int

	// GetGetterChannels returns copies of the input channels matching
	// any selector.
	GetGetterChannels(sels []selector.GetterSelector) []*model.GetterChannel

	// GetSetterChannels returns copies of the output channels matching
	// any selector.
	GetSetterChannels(sels []selector.SetterSelector) []*model.SetterChannel

	// AddGetterTags labels matching input channels, returning the
	// matched count.
	AddGetterTags(sels []selector.GetterSelector, tags []string) int

	// RemoveGetterTags unlabels matching input channels, returning the
	// matched count.
	RemoveGetterTags(sels []selector.GetterSelector, tags []string) int

	// AddSetterTags labels matching output channels, returning the
	// matched count.
	AddSetterTags(sels []selector.SetterSelector, tags []string) int

	// RemoveSetterTags unlabels matching output channels, returning
	// the matched count.
	RemoveSetterTags(sels []selector.SetterSelector, tags []string) int

	// GetChannelValues reads the current value of every input channel
	// matching any selector, one result per matched channel.
	GetChannelValues(ctx context.Context, sels []selector.GetterSelector) []GetterResult

	// PutChannelValues writes v to every output channel matching any
	// selector, one result per matched channel. A value whose type
	// does not match a channel's kind yields a TypeError for that
	// channel only.
	PutChannelValues(ctx context.Context, sels []selector.SetterSelector, v value.Value) []SetterResult

	// Watch registers a live subscription over one or more option
	// sets and delivers events to cb until the guard is released.
	// Events for one subscription arrive in order and never
	// concurrently with each other.
	Watch(opts []WatchOptions, cb func(WatchEvent)) (WatchGuard, error)
}
