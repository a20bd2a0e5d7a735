package examples

import (
	"context"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/api"
	"github.com/fabricedesre/taxonomy/pkg/hub"
	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

// Clock exposes the hub's own wall clock as a node with two getter
// channels: the current instant (CurrentTime) and the time elapsed
// since local midnight (CurrentTimeOfDay).
type Clock struct {
	node     model.NodeID
	timeID   model.ChannelID
	ofDayID  model.ChannelID
	interval time.Duration

	hub *hub.Hub
}

// ClockConfig configures a Clock.
type ClockConfig struct {
	// NodeID identifies the clock node. Default "clock".
	NodeID model.NodeID

	// PushInterval is how often the loop pushes fresh values.
	// Default: 1 second.
	PushInterval time.Duration
}

// NewClock creates a clock adapter.
func NewClock(cfg ClockConfig) *Clock {
	node := cfg.NodeID
	if node == "" {
		node = "clock"
	}
	interval := cfg.PushInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Clock{
		node:     node,
		timeID:   model.ChannelID(node) + "-time",
		ofDayID:  model.ChannelID(node) + "-timeofday",
		interval: interval,
	}
}

// Name implements hub.Adapter.
func (c *Clock) Name() string { return "clock" }

// Attach registers the adapter and its entities with the hub.
func (c *Clock) Attach(h *hub.Hub) error {
	if err := h.RegisterAdapter(c); err != nil {
		return err
	}
	if err := h.AddNode("", model.NewNode(c.node)); err != nil {
		return err
	}

	poll := value.Duration(c.interval)
	current := model.NewChannel(c.timeID, c.node, model.NewGetter(model.CurrentTime).WithPoll(poll))
	if err := h.AddGetter(c.Name(), current); err != nil {
		return err
	}
	ofDay := model.NewChannel(c.ofDayID, c.node, model.NewGetter(model.CurrentTimeOfDay).WithPoll(poll))
	if err := h.AddGetter(c.Name(), ofDay); err != nil {
		return err
	}

	c.hub = h
	return nil
}

// Fetch implements hub.Adapter.
func (c *Clock) Fetch(_ context.Context, id model.ChannelID) (value.Value, error) {
	switch id {
	case c.timeID:
		return value.Now(), nil
	case c.ofDayID:
		return timeOfDay(time.Now()), nil
	default:
		return nil, api.NoSuchGetter(id)
	}
}

// Send implements hub.Adapter. The clock has no setters.
func (c *Clock) Send(_ context.Context, id model.ChannelID, _ value.Value) error {
	return api.NoSuchSetter(id)
}

// Run pushes fresh values at the configured interval until ctx is
// done. Attach must have been called.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := time.Now()
			if err := c.hub.PushValue(c.timeID, value.NewTimeStamp(now)); err != nil {
				return err
			}
			if err := c.hub.PushValue(c.ofDayID, timeOfDay(now)); err != nil {
				return err
			}
		}
	}
}

// timeOfDay returns the duration elapsed since local midnight.
func timeOfDay(now time.Time) value.Duration {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return value.Duration(now.Sub(midnight))
}
