package examples

import (
	"context"
	"sync"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/api"
	"github.com/fabricedesre/taxonomy/pkg/hub"
	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

// Light is an on/off light. It exposes one getter reporting the state
// and one setter accepting it; a setter write is mirrored into the
// getter immediately, so watchers see the change without polling.
type Light struct {
	node     model.NodeID
	stateID  model.ChannelID
	switchID model.ChannelID

	mu sync.Mutex
	on bool

	hub *hub.Hub
}

// LightConfig configures a Light.
type LightConfig struct {
	// NodeID identifies the light node. Default "light".
	NodeID model.NodeID

	// On is the initial state.
	On bool
}

// NewLight creates a light adapter.
func NewLight(cfg LightConfig) *Light {
	node := cfg.NodeID
	if node == "" {
		node = "light"
	}
	return &Light{
		node:     node,
		stateID:  model.ChannelID(node) + "-state",
		switchID: model.ChannelID(node) + "-switch",
		on:       cfg.On,
	}
}

// Name implements hub.Adapter.
func (l *Light) Name() string { return "light-" + string(l.node) }

// Attach registers the adapter and its entities with the hub.
func (l *Light) Attach(h *hub.Hub) error {
	if err := h.RegisterAdapter(l); err != nil {
		return err
	}
	if err := h.AddNode("", model.NewNode(l.node)); err != nil {
		return err
	}

	state := model.NewChannel(l.stateID, l.node,
		model.NewGetter(model.OnOff).WithTrigger(value.Duration(time.Second)))
	if err := h.AddGetter(l.Name(), state); err != nil {
		return err
	}
	sw := model.NewChannel(l.switchID, l.node, model.NewSetter(model.OnOff))
	if err := h.AddSetter(l.Name(), sw); err != nil {
		return err
	}

	l.hub = h
	return nil
}

// Fetch implements hub.Adapter.
func (l *Light) Fetch(_ context.Context, id model.ChannelID) (value.Value, error) {
	if id != l.stateID {
		return nil, api.NoSuchGetter(id)
	}
	return value.Bool(l.IsOn()), nil
}

// Send implements hub.Adapter.
func (l *Light) Send(_ context.Context, id model.ChannelID, v value.Value) error {
	if id != l.switchID {
		return api.NoSuchSetter(id)
	}
	on, ok := v.(value.Bool)
	if !ok {
		return &api.TypeError{Expected: value.TypeBool, Got: v.Type()}
	}

	l.mu.Lock()
	l.on = bool(on)
	l.mu.Unlock()

	return l.hub.PushValue(l.stateID, on)
}

// IsOn reports the current state.
func (l *Light) IsOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
