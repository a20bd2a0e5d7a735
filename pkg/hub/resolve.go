package hub

import (
	"github.com/fabricedesre/taxonomy/pkg/log"
	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/selector"
)

// GetNodes returns deep copies of the nodes matching any selector, in
// attachment order. Subnodes match in their own right.
func (h *Hub) GetNodes(sels []selector.NodeSelector) []*model.Node {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*model.Node
	for _, id := range h.nodeOrder {
		n := h.nodes[id]
		if selector.AnyNode(sels, n) {
			out = append(out, n.Clone())
		}
	}
	return out
}

// GetGetterChannels returns deep copies of the getter channels
// matching any selector, in attachment order.
func (h *Hub) GetGetterChannels(sels []selector.GetterSelector) []*model.GetterChannel {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*model.GetterChannel
	for _, id := range h.getterOrder {
		ch := h.getters[id]
		if selector.AnyGetter(sels, ch) {
			out = append(out, ch.Clone())
		}
	}
	return out
}

// GetSetterChannels returns deep copies of the setter channels
// matching any selector, in attachment order.
func (h *Hub) GetSetterChannels(sels []selector.SetterSelector) []*model.SetterChannel {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*model.SetterChannel
	for _, id := range h.setterOrder {
		ch := h.setters[id]
		if selector.AnySetter(sels, ch) {
			out = append(out, ch.Clone())
		}
	}
	return out
}

// AddNodeTags resolves the selectors once, adds every tag to every
// matched node, and returns how many nodes matched. Tags already
// present stay put, and the matched count is unaffected.
func (h *Hub) AddNodeTags(sels []selector.NodeSelector, tags []string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	matched := 0
	for _, id := range h.nodeOrder {
		n := h.nodes[id]
		if !selector.AnyNode(sels, n) {
			continue
		}
		matched++
		for _, tag := range tags {
			n.AddTag(tag)
		}
	}
	if matched > 0 {
		h.persistTagsLocked()
	}
	h.logEvent(log.Event{
		Category: log.CategoryTag,
		Op:       "add_node_tags",
		Count:    matched,
	})
	return matched
}

// RemoveNodeTags resolves the selectors once, removes every tag from
// every matched node, and returns how many nodes matched. Tags that
// were never present are skipped without affecting the count.
func (h *Hub) RemoveNodeTags(sels []selector.NodeSelector, tags []string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	matched := 0
	for _, id := range h.nodeOrder {
		n := h.nodes[id]
		if !selector.AnyNode(sels, n) {
			continue
		}
		matched++
		for _, tag := range tags {
			n.RemoveTag(tag)
		}
	}
	if matched > 0 {
		h.persistTagsLocked()
	}
	h.logEvent(log.Event{
		Category: log.CategoryTag,
		Op:       "remove_node_tags",
		Count:    matched,
	})
	return matched
}

// AddGetterTags resolves the selectors once, tags every matched getter
// channel, and returns how many matched. A tag edit can pull a channel
// into or out of live watch selectors, so watchers re-evaluate every
// channel the edit touched.
func (h *Hub) AddGetterTags(sels []selector.GetterSelector, tags []string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	matched := 0
	for _, id := range h.getterOrder {
		ch := h.getters[id]
		if !selector.AnyGetter(sels, ch) {
			continue
		}
		matched++
		changed := false
		for _, tag := range tags {
			if ch.AddTag(tag) {
				changed = true
			}
		}
		if changed {
			for _, w := range h.watchers {
				w.update(ch)
			}
		}
	}
	if matched > 0 {
		h.persistTagsLocked()
	}
	h.logEvent(log.Event{
		Category: log.CategoryTag,
		Op:       "add_getter_tags",
		Count:    matched,
	})
	return matched
}

// RemoveGetterTags resolves the selectors once, untags every matched
// getter channel, and returns how many matched. Watchers re-evaluate
// channels whose tag set actually changed.
func (h *Hub) RemoveGetterTags(sels []selector.GetterSelector, tags []string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	matched := 0
	for _, id := range h.getterOrder {
		ch := h.getters[id]
		if !selector.AnyGetter(sels, ch) {
			continue
		}
		matched++
		changed := false
		for _, tag := range tags {
			if ch.RemoveTag(tag) {
				changed = true
			}
		}
		if changed {
			for _, w := range h.watchers {
				w.update(ch)
			}
		}
	}
	if matched > 0 {
		h.persistTagsLocked()
	}
	h.logEvent(log.Event{
		Category: log.CategoryTag,
		Op:       "remove_getter_tags",
		Count:    matched,
	})
	return matched
}

// AddSetterTags resolves the selectors once, tags every matched setter
// channel, and returns how many matched.
func (h *Hub) AddSetterTags(sels []selector.SetterSelector, tags []string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	matched := 0
	for _, id := range h.setterOrder {
		ch := h.setters[id]
		if !selector.AnySetter(sels, ch) {
			continue
		}
		matched++
		for _, tag := range tags {
			ch.AddTag(tag)
		}
	}
	if matched > 0 {
		h.persistTagsLocked()
	}
	h.logEvent(log.Event{
		Category: log.CategoryTag,
		Op:       "add_setter_tags",
		Count:    matched,
	})
	return matched
}

// RemoveSetterTags resolves the selectors once, untags every matched
// setter channel, and returns how many matched.
func (h *Hub) RemoveSetterTags(sels []selector.SetterSelector, tags []string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	matched := 0
	for _, id := range h.setterOrder {
		ch := h.setters[id]
		if !selector.AnySetter(sels, ch) {
			continue
		}
		matched++
		for _, tag := range tags {
			ch.RemoveTag(tag)
		}
	}
	if matched > 0 {
		h.persistTagsLocked()
	}
	h.logEvent(log.Event{
		Category: log.CategoryTag,
		Op:       "remove_setter_tags",
		Count:    matched,
	})
	return matched
}
