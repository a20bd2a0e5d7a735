package hub

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/fabricedesre/taxonomy/pkg/api"
	"github.com/fabricedesre/taxonomy/pkg/log"
	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/selector"
)

// watchFlags records which event classes one matched channel delivers
// to a subscription.
type watchFlags struct {
	values   bool
	topology bool
}

// watchSource is one WatchOptions entry: a getter selector plus the
// event classes it subscribes to.
type watchSource struct {
	sel      selector.GetterSelector
	values   bool
	topology bool
}

// watcher is one live subscription. Its matched set is guarded by the
// hub lock; its queue is drained by a single goroutine so the callback
// sees events in order and never concurrently.
type watcher struct {
	id      uint64
	hub     *Hub
	sources []watchSource
	cb      func(api.WatchEvent)

	queue chan api.WatchEvent
	stop  chan struct{}
	done  chan struct{}

	matched map[model.ChannelID]watchFlags
	dropped atomic.Uint64
	release sync.Once
}

// Watch registers a live subscription. Each option contributes one
// getter selector and the event classes it wants; a channel matched by
// several options gets the union of their classes. The current match
// set is primed as added events before Watch returns.
//
// The returned guard stops delivery when released. Releasing from
// inside the callback deadlocks; release from another goroutine.
func (h *Hub) Watch(opts []api.WatchOptions, cb func(api.WatchEvent)) (api.WatchGuard, error) {
	if cb == nil {
		return nil, errors.New("watch callback must not be nil")
	}

	sources := make([]watchSource, 0, len(opts))
	for _, o := range opts {
		sources = append(sources, watchSource{
			sel:      o.Source(),
			values:   o.WatchValues(),
			topology: o.WatchTopology(),
		})
	}
	w := &watcher{
		hub:     h,
		sources: sources,
		cb:      cb,
		queue:   make(chan api.WatchEvent, h.queueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		matched: make(map[model.ChannelID]watchFlags),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	h.watcherSeq++
	w.id = h.watcherSeq
	h.watchers[w.id] = w
	for _, id := range h.getterOrder {
		w.update(h.getters[id])
	}
	h.mu.Unlock()

	go w.run()

	h.logEvent(log.Event{
		Category: log.CategoryWatch,
		Op:       "subscribe",
		Count:    len(sources),
	})
	return &watchGuard{hub: h, w: w}, nil
}

// releaseWatcher unregisters the watcher, then waits for its delivery
// goroutine to stop. Once releaseWatcher returns no further callback
// runs.
func (h *Hub) releaseWatcher(w *watcher) {
	w.release.Do(func() {
		h.mu.Lock()
		delete(h.watchers, w.id)
		h.mu.Unlock()

		close(w.stop)
		<-w.done

		h.logEvent(log.Event{
			Category: log.CategoryWatch,
			Op:       "release",
			Count:    int(w.dropped.Load()),
		})
	})
}

func (w *watcher) run() {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		case ev := <-w.queue:
			w.cb(ev)
		}
	}
}

// evaluate checks the channel against every source and unions the
// event classes of those that match.
func (w *watcher) evaluate(ch *model.GetterChannel) (watchFlags, bool) {
	var flags watchFlags
	matched := false
	for _, src := range w.sources {
		if !src.sel.Matches(ch) {
			continue
		}
		matched = true
		flags.values = flags.values || src.values
		flags.topology = flags.topology || src.topology
	}
	return flags, matched
}

// update recomputes the channel's membership and emits the topology
// transition if it entered or left the match set. Caller holds the hub
// write lock.
func (w *watcher) update(ch *model.GetterChannel) {
	flags, ok := w.evaluate(ch)
	prev, was := w.matched[ch.ID()]
	switch {
	case ok && !was:
		w.matched[ch.ID()] = flags
		if flags.topology {
			w.enqueue(api.GetterAddedEvent(ch.ID()))
		}
	case !ok && was:
		delete(w.matched, ch.ID())
		if prev.topology {
			w.enqueue(api.GetterRemovedEvent(ch.ID()))
		}
	case ok && was:
		w.matched[ch.ID()] = flags
	}
}

// drop removes a detached channel from the match set. Caller holds the
// hub write lock.
func (w *watcher) drop(id model.ChannelID) {
	prev, ok := w.matched[id]
	if !ok {
		return
	}
	delete(w.matched, id)
	if prev.topology {
		w.enqueue(api.GetterRemovedEvent(id))
	}
}

// enqueue hands an event to the delivery goroutine. A full queue drops
// the event and counts the loss, so a slow subscriber only ever stalls
// itself.
func (w *watcher) enqueue(ev api.WatchEvent) {
	select {
	case w.queue <- ev:
	default:
		w.dropped.Add(1)
		w.hub.logEvent(log.Event{
			Category:  log.CategoryWatch,
			Op:        "overflow",
			ChannelID: string(ev.From),
			Count:     1,
			Error:     "event dropped",
		})
	}
}

// watchGuard implements api.WatchGuard for one subscription.
type watchGuard struct {
	hub *Hub
	w   *watcher
}

func (g *watchGuard) Release() {
	g.hub.releaseWatcher(g.w)
}
