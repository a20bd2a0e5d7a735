package hub

import (
	"context"
	"sync"

	"github.com/fabricedesre/taxonomy/pkg/api"
	"github.com/fabricedesre/taxonomy/pkg/log"
	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/selector"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

// target is the slice of channel state a fetch or send needs once the
// lock is dropped.
type target struct {
	id      model.ChannelID
	want    value.Type
	adapter Adapter
}

// GetChannelValues resolves the selectors once, then fetches every
// matched getter concurrently through its adapter. The result slice
// has one entry per matched channel, in attachment order. A failed or
// mistyped fetch fails only its own entry.
func (h *Hub) GetChannelValues(ctx context.Context, sels []selector.GetterSelector) []api.GetterResult {
	h.mu.RLock()
	var targets []target
	for _, id := range h.getterOrder {
		ch := h.getters[id]
		if selector.AnyGetter(sels, ch) {
			targets = append(targets, target{
				id:      id,
				want:    ch.Kind().Type(),
				adapter: h.getterAdapters[id],
			})
		}
	}
	h.mu.RUnlock()

	h.logEvent(log.Event{
		Category: log.CategoryValue,
		Op:       "get_values",
		Count:    len(targets),
	})

	results := make([]api.GetterResult, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = h.fetchOne(ctx, t)
		}()
	}
	wg.Wait()
	return results
}

func (h *Hub) fetchOne(ctx context.Context, t target) api.GetterResult {
	v, err := t.adapter.Fetch(ctx, t.id)
	if err == nil && v == nil {
		err = ErrNilValue
	}
	if err == nil {
		if got := v.Type(); got != t.want {
			err = &api.TypeError{Expected: t.want, Got: got}
		}
	}
	if err != nil {
		h.logEvent(log.Event{
			Category:  log.CategoryValue,
			Op:        "fetch",
			ChannelID: string(t.id),
			Adapter:   t.adapter.Name(),
			Error:     err.Error(),
		})
		return api.GetterResult{ID: t.id, Err: err}
	}

	h.mu.Lock()
	ch, ok := h.getters[t.id]
	if ok {
		h.observeValueLocked(ch, v)
	}
	h.mu.Unlock()
	if !ok {
		// The channel went away while the fetch was in flight.
		return api.GetterResult{ID: t.id, Err: api.NoSuchGetter(t.id)}
	}
	return api.GetterResult{ID: t.id, Value: v}
}

// PutChannelValues resolves the selectors once, then sends the value
// to every matched setter concurrently through its adapter. The result
// slice has one entry per matched channel, in attachment order. A
// value whose type does not match a channel's kind fails that entry
// without reaching the adapter.
func (h *Hub) PutChannelValues(ctx context.Context, sels []selector.SetterSelector, v value.Value) []api.SetterResult {
	h.mu.RLock()
	var targets []target
	for _, id := range h.setterOrder {
		ch := h.setters[id]
		if selector.AnySetter(sels, ch) {
			targets = append(targets, target{
				id:      id,
				want:    ch.Kind().Type(),
				adapter: h.setterAdapters[id],
			})
		}
	}
	h.mu.RUnlock()

	h.logEvent(log.Event{
		Category: log.CategoryValue,
		Op:       "put_values",
		Count:    len(targets),
	})

	results := make([]api.SetterResult, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		if v == nil {
			results[i] = api.SetterResult{ID: t.id, Err: ErrNilValue}
			continue
		}
		if got := v.Type(); got != t.want {
			results[i] = api.SetterResult{ID: t.id, Err: &api.TypeError{Expected: t.want, Got: got}}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = api.SetterResult{ID: t.id, Err: h.sendOne(ctx, t, v)}
		}()
	}
	wg.Wait()
	return results
}

func (h *Hub) sendOne(ctx context.Context, t target, v value.Value) error {
	err := t.adapter.Send(ctx, t.id, v)
	if err == nil {
		h.mu.Lock()
		if ch, ok := h.setters[t.id]; ok {
			ch.MarkUpdated(value.Now())
		}
		h.mu.Unlock()
	}
	e := log.Event{
		Category:  log.CategoryValue,
		Op:        "send",
		ChannelID: string(t.id),
		Adapter:   t.adapter.Name(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	h.logEvent(e)
	return err
}
