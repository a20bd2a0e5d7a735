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

// Thermostat simulates a heater. It exposes the measured temperature
// as a getter and accepts a target temperature and an on/off switch as
// setters. While on, the measured value drifts toward the target a
// little on every tick.
type Thermostat struct {
	node     model.NodeID
	actualID model.ChannelID
	targetID model.ChannelID
	powerID  model.ChannelID
	interval time.Duration

	mu     sync.Mutex
	on     bool
	actual float64 // degrees Celsius
	target float64

	hub *hub.Hub
}

// ThermostatConfig configures a Thermostat.
type ThermostatConfig struct {
	// NodeID identifies the thermostat node. Default "thermostat".
	NodeID model.NodeID

	// Initial is the starting temperature in degrees Celsius.
	Initial float64

	// Target is the initial target in degrees Celsius.
	Target float64

	// TickInterval is how often the simulation advances.
	// Default: 1 second.
	TickInterval time.Duration
}

// NewThermostat creates a thermostat adapter.
func NewThermostat(cfg ThermostatConfig) *Thermostat {
	node := cfg.NodeID
	if node == "" {
		node = "thermostat"
	}
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Thermostat{
		node:     node,
		actualID: model.ChannelID(node) + "-actual",
		targetID: model.ChannelID(node) + "-target",
		powerID:  model.ChannelID(node) + "-power",
		interval: interval,
		actual:   cfg.Initial,
		target:   cfg.Target,
	}
}

// Name implements hub.Adapter.
func (th *Thermostat) Name() string { return "thermostat-" + string(th.node) }

// Attach registers the adapter and its entities with the hub.
func (th *Thermostat) Attach(h *hub.Hub) error {
	if err := h.RegisterAdapter(th); err != nil {
		return err
	}
	if err := h.AddNode("", model.NewNode(th.node)); err != nil {
		return err
	}

	actual := model.NewChannel(th.actualID, th.node,
		model.NewGetter(model.ActualTemperature).WithPoll(value.Duration(th.interval)))
	if err := h.AddGetter(th.Name(), actual); err != nil {
		return err
	}
	target := model.NewChannel(th.targetID, th.node, model.NewSetter(model.Thermostat))
	if err := h.AddSetter(th.Name(), target); err != nil {
		return err
	}
	power := model.NewChannel(th.powerID, th.node, model.NewSetter(model.OnOff))
	if err := h.AddSetter(th.Name(), power); err != nil {
		return err
	}

	th.hub = h
	return nil
}

// Fetch implements hub.Adapter.
func (th *Thermostat) Fetch(_ context.Context, id model.ChannelID) (value.Value, error) {
	if id != th.actualID {
		return nil, api.NoSuchGetter(id)
	}
	th.mu.Lock()
	defer th.mu.Unlock()
	return value.Celsius(th.actual), nil
}

// Send implements hub.Adapter.
func (th *Thermostat) Send(_ context.Context, id model.ChannelID, v value.Value) error {
	switch id {
	case th.targetID:
		temp, ok := v.(value.Temperature)
		if !ok {
			return &api.TypeError{Expected: value.TypeTemperature, Got: v.Type()}
		}
		th.mu.Lock()
		th.target = temp.AsCelsius()
		th.mu.Unlock()
		return nil

	case th.powerID:
		on, ok := v.(value.Bool)
		if !ok {
			return &api.TypeError{Expected: value.TypeBool, Got: v.Type()}
		}
		th.mu.Lock()
		th.on = bool(on)
		th.mu.Unlock()
		return nil

	default:
		return api.NoSuchSetter(id)
	}
}

// Run advances the simulation until ctx is done. Attach must have been
// called.
func (th *Thermostat) Run(ctx context.Context) error {
	ticker := time.NewTicker(th.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := th.hub.PushValue(th.actualID, value.Celsius(th.tick())); err != nil {
				return err
			}
		}
	}
}

// tick advances the temperature one step and returns the new reading.
// While on, the temperature closes a fifth of the gap to the target;
// while off, it cools toward ambient.
func (th *Thermostat) tick() float64 {
	const ambient = 15.0

	th.mu.Lock()
	defer th.mu.Unlock()

	goal := ambient
	if th.on {
		goal = th.target
	}
	th.actual += (goal - th.actual) / 5
	return th.actual
}

// Temperature reports the current simulated reading in degrees
// Celsius.
func (th *Thermostat) Temperature() float64 {
	th.mu.Lock()
	defer th.mu.Unlock()
	return th.actual
}

// Target reports the current target in degrees Celsius.
func (th *Thermostat) Target() float64 {
	th.mu.Lock()
	defer th.mu.Unlock()
	return th.target
}
