package hub

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/api"
	"github.com/fabricedesre/taxonomy/pkg/log"
	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/persistence"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

var (
	// ErrClosed is returned when a new entity or subscription is
	// offered to a hub that has been shut down.
	ErrClosed = errors.New("hub is closed")

	// ErrNodeExists is returned when a node id is already attached.
	ErrNodeExists = errors.New("node already attached")

	// ErrChannelExists is returned when a channel id is already
	// attached in the same direction.
	ErrChannelExists = errors.New("channel already attached")

	// ErrAdapterExists is returned when an adapter name is already
	// registered.
	ErrAdapterExists = errors.New("adapter already registered")

	// ErrNoSuchAdapter is returned when a channel names an adapter
	// that was never registered.
	ErrNoSuchAdapter = errors.New("no such adapter")

	// ErrNodeNotEmpty is returned when a node is attached with
	// subnodes or channels already hanging off it. Channels and
	// subnodes go through the hub so it can index them.
	ErrNodeNotEmpty = errors.New("node must be attached empty")

	// ErrNilValue is returned when a nil value is pushed or sent.
	ErrNilValue = errors.New("nil value")
)

// Adapter is the driver side of the hub. An adapter owns the channels
// it attaches: the hub calls Fetch and Send with the channel ids the
// adapter registered, and the adapter talks to the hardware.
//
// Fetch and Send are called outside the hub lock and may block until
// ctx is done. They must be safe for concurrent use.
type Adapter interface {
	// Name identifies the adapter. It must be unique per hub and
	// stable across restarts.
	Name() string

	// Fetch reads the current value of one of the adapter's getter
	// channels.
	Fetch(ctx context.Context, id model.ChannelID) (value.Value, error)

	// Send delivers a value to one of the adapter's setter channels.
	// The value's type has already been checked against the channel
	// kind.
	Send(ctx context.Context, id model.ChannelID, v value.Value) error
}

// DefaultWatchQueueSize bounds each subscription's event queue unless
// Config overrides it.
const DefaultWatchQueueSize = 256

// Config configures a Hub. The zero value is usable: no logging, no
// persistence, default queue sizing.
type Config struct {
	// Name identifies this hub instance in logs and discovery.
	Name string

	// Logger receives the hub activity trace. Nil disables tracing.
	Logger log.Logger

	// TagStore persists tag sets across restarts. Nil disables
	// persistence.
	TagStore *persistence.TagStore

	// WatchQueueSize bounds each subscription's event queue. Zero
	// means DefaultWatchQueueSize.
	WatchQueueSize int
}

// Hub is the central registry. It implements api.API.
type Hub struct {
	mu sync.RWMutex

	name string

	nodes     map[model.NodeID]*model.Node
	nodeOrder []model.NodeID

	getters     map[model.ChannelID]*model.GetterChannel
	getterOrder []model.ChannelID

	setters     map[model.ChannelID]*model.SetterChannel
	setterOrder []model.ChannelID

	adapters       map[string]Adapter
	adapterOrder   []string
	getterAdapters map[model.ChannelID]Adapter
	setterAdapters map[model.ChannelID]Adapter

	watchers   map[uint64]*watcher
	watcherSeq uint64
	queueSize  int

	// Tags saved for entities that are not currently attached. They
	// are applied when an entity with a matching id reappears.
	pendingNodeTags    map[string][]string
	pendingChannelTags map[string][]string

	store  *persistence.TagStore
	logger log.Logger
	logSeq atomic.Uint64

	closed bool
}

var _ api.API = (*Hub)(nil)

// New creates an empty hub. Call LoadTags afterwards to restore
// persisted tags, then register adapters.
func New(config Config) *Hub {
	queueSize := config.WatchQueueSize
	if queueSize <= 0 {
		queueSize = DefaultWatchQueueSize
	}
	return &Hub{
		name:               config.Name,
		nodes:              make(map[model.NodeID]*model.Node),
		getters:            make(map[model.ChannelID]*model.GetterChannel),
		setters:            make(map[model.ChannelID]*model.SetterChannel),
		adapters:           make(map[string]Adapter),
		getterAdapters:     make(map[model.ChannelID]Adapter),
		setterAdapters:     make(map[model.ChannelID]Adapter),
		watchers:           make(map[uint64]*watcher),
		queueSize:          queueSize,
		pendingNodeTags:    make(map[string][]string),
		pendingChannelTags: make(map[string][]string),
		store:              config.TagStore,
		logger:             config.Logger,
	}
}

// Name returns the hub instance name.
func (h *Hub) Name() string {
	return h.name
}

// LoadTags restores persisted tag sets. Tags for entities that are
// already attached are applied immediately; the rest wait for their
// entity to reappear.
func (h *Hub) LoadTags() error {
	if h.store == nil {
		return nil
	}
	state, err := h.store.Load()
	if err != nil {
		return fmt.Errorf("loading tag state: %w", err)
	}
	if state == nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, tags := range state.Nodes {
		h.pendingNodeTags[id] = slices.Clone(tags)
	}
	for id, tags := range state.Channels {
		h.pendingChannelTags[id] = slices.Clone(tags)
	}
	for _, n := range h.nodes {
		h.applyPendingNodeTagsLocked(n)
	}
	for _, id := range h.getterOrder {
		ch := h.getters[id]
		if h.applyPendingGetterTagsLocked(ch) {
			for _, w := range h.watchers {
				w.update(ch)
			}
		}
	}
	for _, ch := range h.setters {
		h.applyPendingSetterTagsLocked(ch)
	}
	return nil
}

// RegisterAdapter makes an adapter available for channel attachment.
func (h *Hub) RegisterAdapter(a Adapter) error {
	if a == nil || a.Name() == "" {
		return errors.New("adapter must have a name")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if _, exists := h.adapters[a.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrAdapterExists, a.Name())
	}
	h.adapters[a.Name()] = a
	h.adapterOrder = append(h.adapterOrder, a.Name())

	h.logEvent(log.Event{
		Category: log.CategoryAdapter,
		Op:       "register",
		Adapter:  a.Name(),
	})
	return nil
}

// Adapters returns the registered adapter names in registration order.
func (h *Hub) Adapters() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.adapterOrder)
}

// AddNode attaches a node. An empty parent id attaches it as a root;
// otherwise the parent must already be attached. The node must carry
// no subnodes or channels yet.
func (h *Hub) AddNode(parent model.NodeID, n *model.Node) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if _, exists := h.nodes[n.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrNodeExists, n.ID())
	}
	if len(n.Subnodes()) > 0 || len(n.Getters()) > 0 || len(n.Setters()) > 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotEmpty, n.ID())
	}
	if parent != "" {
		p, ok := h.nodes[parent]
		if !ok {
			return api.NoSuchNode(parent)
		}
		if err := p.AddSubnode(n); err != nil {
			return err
		}
	}

	h.nodes[n.ID()] = n
	h.nodeOrder = append(h.nodeOrder, n.ID())
	h.applyPendingNodeTagsLocked(n)

	h.logEvent(log.Event{
		Category: log.CategoryTopology,
		Op:       "add_node",
		NodeID:   string(n.ID()),
	})
	return nil
}

// RemoveNode detaches a node and everything below it: subnodes
// recursively, channels with their adapter bindings. Watchers see a
// removal event for every getter that leaves their match set. Tags of
// removed entities are kept aside and reapplied if the entity
// reappears.
func (h *Hub) RemoveNode(id model.NodeID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, ok := h.nodes[id]
	if !ok {
		return api.NoSuchNode(id)
	}
	if parent, hasParent := n.Parent(); hasParent {
		if p, ok := h.nodes[parent]; ok {
			p.RemoveSubnode(id)
		}
	}

	removed := 0
	h.removeSubtreeLocked(n, &removed)
	h.persistTagsLocked()

	h.logEvent(log.Event{
		Category: log.CategoryTopology,
		Op:       "remove_node",
		NodeID:   string(id),
		Count:    removed,
	})
	return nil
}

func (h *Hub) removeSubtreeLocked(n *model.Node, removed *int) {
	for _, sub := range n.Subnodes() {
		h.removeSubtreeLocked(sub, removed)
	}
	for _, ch := range n.Getters() {
		h.dropGetterLocked(ch)
		n.RemoveGetter(ch.ID())
		*removed++
	}
	for _, ch := range n.Setters() {
		h.dropSetterLocked(ch)
		n.RemoveSetter(ch.ID())
		*removed++
	}
	if tags := n.Tags(); len(tags) > 0 {
		h.pendingNodeTags[string(n.ID())] = tags
	}
	delete(h.nodes, n.ID())
	if i := slices.Index(h.nodeOrder, n.ID()); i >= 0 {
		h.nodeOrder = slices.Delete(h.nodeOrder, i, i+1)
	}
}

// AddGetter attaches a getter channel to its node and binds it to the
// named adapter. Watchers whose selectors match it are notified.
func (h *Hub) AddGetter(adapter string, ch *model.GetterChannel) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	a, ok := h.adapters[adapter]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchAdapter, adapter)
	}
	n, ok := h.nodes[ch.Node()]
	if !ok {
		return api.NoSuchNode(ch.Node())
	}
	if _, exists := h.getters[ch.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrChannelExists, ch.ID())
	}
	if err := n.AddGetter(ch); err != nil {
		return err
	}

	h.getters[ch.ID()] = ch
	h.getterOrder = append(h.getterOrder, ch.ID())
	h.getterAdapters[ch.ID()] = a
	h.applyPendingGetterTagsLocked(ch)

	for _, w := range h.watchers {
		w.update(ch)
	}

	h.logEvent(log.Event{
		Category:  log.CategoryTopology,
		Op:        "add_getter",
		NodeID:    string(ch.Node()),
		ChannelID: string(ch.ID()),
		Adapter:   adapter,
	})
	return nil
}

// RemoveGetter detaches a getter channel. Watchers that were matching
// it see a removal event.
func (h *Hub) RemoveGetter(id model.ChannelID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.getters[id]
	if !ok {
		return api.NoSuchGetter(id)
	}
	if n, ok := h.nodes[ch.Node()]; ok {
		n.RemoveGetter(id)
	}
	h.dropGetterLocked(ch)
	h.persistTagsLocked()

	h.logEvent(log.Event{
		Category:  log.CategoryTopology,
		Op:        "remove_getter",
		NodeID:    string(ch.Node()),
		ChannelID: string(id),
	})
	return nil
}

func (h *Hub) dropGetterLocked(ch *model.GetterChannel) {
	if tags := ch.Tags(); len(tags) > 0 {
		h.pendingChannelTags[string(ch.ID())] = tags
	}
	delete(h.getters, ch.ID())
	delete(h.getterAdapters, ch.ID())
	if i := slices.Index(h.getterOrder, ch.ID()); i >= 0 {
		h.getterOrder = slices.Delete(h.getterOrder, i, i+1)
	}
	for _, w := range h.watchers {
		w.drop(ch.ID())
	}
}

// AddSetter attaches a setter channel to its node and binds it to the
// named adapter.
func (h *Hub) AddSetter(adapter string, ch *model.SetterChannel) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	a, ok := h.adapters[adapter]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchAdapter, adapter)
	}
	n, ok := h.nodes[ch.Node()]
	if !ok {
		return api.NoSuchNode(ch.Node())
	}
	if _, exists := h.setters[ch.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrChannelExists, ch.ID())
	}
	if err := n.AddSetter(ch); err != nil {
		return err
	}

	h.setters[ch.ID()] = ch
	h.setterOrder = append(h.setterOrder, ch.ID())
	h.setterAdapters[ch.ID()] = a
	h.applyPendingSetterTagsLocked(ch)

	h.logEvent(log.Event{
		Category:  log.CategoryTopology,
		Op:        "add_setter",
		NodeID:    string(ch.Node()),
		ChannelID: string(ch.ID()),
		Adapter:   adapter,
	})
	return nil
}

// RemoveSetter detaches a setter channel.
func (h *Hub) RemoveSetter(id model.ChannelID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.setters[id]
	if !ok {
		return api.NoSuchSetter(id)
	}
	if n, ok := h.nodes[ch.Node()]; ok {
		n.RemoveSetter(id)
	}
	h.dropSetterLocked(ch)
	h.persistTagsLocked()

	h.logEvent(log.Event{
		Category:  log.CategoryTopology,
		Op:        "remove_setter",
		NodeID:    string(ch.Node()),
		ChannelID: string(id),
	})
	return nil
}

func (h *Hub) dropSetterLocked(ch *model.SetterChannel) {
	if tags := ch.Tags(); len(tags) > 0 {
		h.pendingChannelTags[string(ch.ID())] = tags
	}
	delete(h.setters, ch.ID())
	delete(h.setterAdapters, ch.ID())
	if i := slices.Index(h.setterOrder, ch.ID()); i >= 0 {
		h.setterOrder = slices.Delete(h.setterOrder, i, i+1)
	}
}

// PushValue records a value an adapter observed on one of its getter
// channels, without a fetch round-trip. Watching subscriptions whose
// selectors match the channel receive the value.
func (h *Hub) PushValue(id model.ChannelID, v value.Value) error {
	if v == nil {
		return ErrNilValue
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.getters[id]
	if !ok {
		return api.NoSuchGetter(id)
	}
	if got, want := v.Type(), ch.Kind().Type(); got != want {
		return &api.TypeError{Expected: want, Got: got}
	}
	h.observeValueLocked(ch, v)
	return nil
}

// observeValueLocked stamps the channel and routes the value to
// watching subscriptions. Caller holds the write lock.
func (h *Hub) observeValueLocked(ch *model.GetterChannel, v value.Value) {
	ch.MarkUpdated(value.Now())
	for _, w := range h.watchers {
		if flags, ok := w.matched[ch.ID()]; ok && flags.values {
			w.enqueue(api.ValueEvent(ch.ID(), v))
		}
	}
	h.logEvent(log.Event{
		Category:  log.CategoryValue,
		Op:        "observe",
		ChannelID: string(ch.ID()),
	})
}

// NodeCount returns the number of attached nodes, roots and subnodes
// alike.
func (h *Hub) NodeCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.nodes)
}

// GetterCount returns the number of attached getter channels.
func (h *Hub) GetterCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.getters)
}

// SetterCount returns the number of attached setter channels.
func (h *Hub) SetterCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.setters)
}

// Close releases every live subscription and rejects new entities and
// subscriptions from then on. Reads and value operations keep working
// so shutdown paths can drain.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	ws := make([]*watcher, 0, len(h.watchers))
	for _, w := range h.watchers {
		ws = append(ws, w)
	}
	h.mu.Unlock()

	for _, w := range ws {
		h.releaseWatcher(w)
	}
}

func (h *Hub) applyPendingNodeTagsLocked(n *model.Node) {
	tags, ok := h.pendingNodeTags[string(n.ID())]
	if !ok {
		return
	}
	for _, tag := range tags {
		n.AddTag(tag)
	}
	delete(h.pendingNodeTags, string(n.ID()))
}

func (h *Hub) applyPendingGetterTagsLocked(ch *model.GetterChannel) bool {
	tags, ok := h.pendingChannelTags[string(ch.ID())]
	if !ok {
		return false
	}
	for _, tag := range tags {
		ch.AddTag(tag)
	}
	delete(h.pendingChannelTags, string(ch.ID()))
	return true
}

func (h *Hub) applyPendingSetterTagsLocked(ch *model.SetterChannel) {
	tags, ok := h.pendingChannelTags[string(ch.ID())]
	if !ok {
		return
	}
	for _, tag := range tags {
		ch.AddTag(tag)
	}
	delete(h.pendingChannelTags, string(ch.ID()))
}

// persistTagsLocked snapshots all live and pending tag sets to the
// store. Failures are logged, not returned: the in-memory state is
// already committed.
func (h *Hub) persistTagsLocked() {
	if h.store == nil {
		return
	}
	state := &persistence.TagState{
		Nodes:    make(map[string][]string),
		Channels: make(map[string][]string),
	}
	for id, tags := range h.pendingNodeTags {
		state.Nodes[id] = slices.Clone(tags)
	}
	for id, tags := range h.pendingChannelTags {
		state.Channels[id] = slices.Clone(tags)
	}
	for id, n := range h.nodes {
		if tags := n.Tags(); len(tags) > 0 {
			state.Nodes[string(id)] = tags
		}
	}
	for id, ch := range h.getters {
		if tags := ch.Tags(); len(tags) > 0 {
			state.Channels[string(id)] = tags
		}
	}
	for id, ch := range h.setters {
		if tags := ch.Tags(); len(tags) > 0 {
			state.Channels[string(id)] = tags
		}
	}
	if err := h.store.Save(state); err != nil {
		h.logEvent(log.Event{
			Category: log.CategoryTag,
			Op:       "persist",
			Error:    err.Error(),
		})
	}
}

func (h *Hub) logEvent(e log.Event) {
	if h.logger == nil {
		return
	}
	e.Seq = h.logSeq.Add(1)
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	h.logger.Log(e)
}
