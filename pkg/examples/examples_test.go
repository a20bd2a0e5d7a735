package examples

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricedesre/taxonomy/pkg/api"
	"github.com/fabricedesre/taxonomy/pkg/hub"
	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/selector"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

// Zero selectors match everything; refined copies are built off these.
var (
	anyNode   = selector.NodeSelector{}
	anyGetter = selector.GetterSelector{}
	anySetter = selector.SetterSelector{}
)

func newExampleHub(t *testing.T) *hub.Hub {
	t.Helper()
	h := hub.New(hub.Config{Name: "examples"})
	t.Cleanup(h.Close)
	return h
}

func TestClockAttach(t *testing.T) {
	h := newExampleHub(t)
	c := NewClock(ClockConfig{})
	require.NoError(t, c.Attach(h))

	nodes := h.GetNodes([]selector.NodeSelector{anyNode})
	require.Len(t, nodes, 1)
	assert.Equal(t, model.NodeID("clock"), nodes[0].ID())

	getters := h.GetGetterChannels([]selector.GetterSelector{anyGetter})
	require.Len(t, getters, 2)
	assert.Equal(t, model.CurrentTime, getters[0].Kind())
	assert.Equal(t, model.CurrentTimeOfDay, getters[1].Kind())
}

func TestClockFetch(t *testing.T) {
	h := newExampleHub(t)
	c := NewClock(ClockConfig{NodeID: "attic"})
	require.NoError(t, c.Attach(h))

	results := h.GetChannelValues(context.Background(), []selector.GetterSelector{anyGetter})
	require.Len(t, results, 2)
	for _, res := range results {
		require.NoError(t, res.Err, "channel %s", res.ID)
		require.NotNil(t, res.Value)
	}

	// The instant channel carries a timestamp, the elapsed channel a
	// duration shorter than a day.
	byID := make(map[model.ChannelID]value.Value, len(results))
	for _, res := range results {
		byID[res.ID] = res.Value
	}
	_, ok := byID["attic-time"].(value.TimeStamp)
	assert.True(t, ok, "attic-time should be a TimeStamp")
	elapsed, ok := byID["attic-timeofday"].(value.Duration)
	require.True(t, ok, "attic-timeofday should be a Duration")
	assert.Less(t, time.Duration(elapsed), 24*time.Hour)

	t.Run("UnknownChannel", func(t *testing.T) {
		_, err := c.Fetch(context.Background(), "attic-nonsense")
		assert.ErrorIs(t, err, api.ErrNoSuchGetter)
	})

	t.Run("SendRejected", func(t *testing.T) {
		err := c.Send(context.Background(), "attic-time", value.Bool(true))
		assert.ErrorIs(t, err, api.ErrNoSuchSetter)
	})
}

func TestClockTimeOfDay(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)
	now := time.Date(2026, time.March, 14, 9, 26, 53, 0, loc)
	got := timeOfDay(now)
	want := 9*time.Hour + 26*time.Minute + 53*time.Second
	assert.Equal(t, value.Duration(want), got)
}

func TestClockRun(t *testing.T) {
	h := newExampleHub(t)
	c := NewClock(ClockConfig{PushInterval: 5 * time.Millisecond})
	require.NoError(t, c.Attach(h))

	events := make(chan api.WatchEvent, 64)
	opts := []api.WatchOptions{
		api.NewWatchOptions().
			WithGetters(anyGetter.WithID("clock-time")).
			WithWatchValues(true),
	}
	guard, err := h.Watch(opts, func(ev api.WatchEvent) { events <- ev })
	require.NoError(t, err)
	t.Cleanup(guard.Release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case ev := <-events:
		assert.Equal(t, api.EventValue, ev.Kind)
		assert.Equal(t, model.ChannelID("clock-time"), ev.From)
	case <-time.After(2 * time.Second):
		t.Fatal("no value pushed by the clock loop")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("clock loop did not stop")
	}
}

func TestLightSwitch(t *testing.T) {
	h := newExampleHub(t)
	l := NewLight(LightConfig{NodeID: "porch"})
	require.NoError(t, l.Attach(h))
	assert.False(t, l.IsOn())

	sels := []selector.SetterSelector{anySetter.WithID("porch-switch")}
	results := h.PutChannelValues(context.Background(), sels, value.Bool(true))
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	// The write is mirrored into the state getter.
	assert.True(t, l.IsOn())
	got := h.GetChannelValues(context.Background(),
		[]selector.GetterSelector{anyGetter.WithID("porch-state")})
	require.Len(t, got, 1)
	require.NoError(t, got[0].Err)
	assert.True(t, value.Equal(value.Bool(true), got[0].Value))
}

func TestLightSwitchNotifiesWatchers(t *testing.T) {
	h := newExampleHub(t)
	l := NewLight(LightConfig{NodeID: "porch"})
	require.NoError(t, l.Attach(h))

	events := make(chan api.WatchEvent, 64)
	opts := []api.WatchOptions{
		api.NewWatchOptions().
			WithGetters(anyGetter.WithID("porch-state")).
			WithWatchValues(true),
	}
	guard, err := h.Watch(opts, func(ev api.WatchEvent) { events <- ev })
	require.NoError(t, err)
	t.Cleanup(guard.Release)

	require.NoError(t, l.Send(context.Background(), "porch-switch", value.Bool(true)))

	select {
	case ev := <-events:
		require.Equal(t, api.EventValue, ev.Kind)
		assert.True(t, value.Equal(value.Bool(true), ev.Value))
	case <-time.After(2 * time.Second):
		t.Fatal("no event after switching the light")
	}
}

func TestLightSendErrors(t *testing.T) {
	h := newExampleHub(t)
	l := NewLight(LightConfig{})
	require.NoError(t, l.Attach(h))

	t.Run("WrongChannel", func(t *testing.T) {
		err := l.Send(context.Background(), "light-state", value.Bool(true))
		assert.ErrorIs(t, err, api.ErrNoSuchSetter)
	})

	t.Run("WrongType", func(t *testing.T) {
		err := l.Send(context.Background(), "light-switch", value.String("on"))
		require.ErrorIs(t, err, value.ErrTypeMismatch)
		var te *api.TypeError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, value.TypeBool, te.Expected)
		assert.Equal(t, value.TypeString, te.Got)
	})
}

func TestThermostatAttach(t *testing.T) {
	h := newExampleHub(t)
	th := NewThermostat(ThermostatConfig{Initial: 18, Target: 21})
	require.NoError(t, th.Attach(h))

	getters := h.GetGetterChannels([]selector.GetterSelector{anyGetter})
	require.Len(t, getters, 1)
	assert.Equal(t, model.ActualTemperature, getters[0].Kind())

	setters := h.GetSetterChannels([]selector.SetterSelector{anySetter})
	require.Len(t, setters, 2)
	assert.Equal(t, model.Thermostat, setters[0].Kind())
	assert.Equal(t, model.OnOff, setters[1].Kind())
}

func TestThermostatFetch(t *testing.T) {
	h := newExampleHub(t)
	th := NewThermostat(ThermostatConfig{Initial: 18.5})
	require.NoError(t, th.Attach(h))

	got := h.GetChannelValues(context.Background(),
		[]selector.GetterSelector{anyGetter.WithID("thermostat-actual")})
	require.Len(t, got, 1)
	require.NoError(t, got[0].Err)
	temp, ok := got[0].Value.(value.Temperature)
	require.True(t, ok)
	assert.InDelta(t, 18.5, temp.AsCelsius(), 1e-9)
}

func TestThermostatSend(t *testing.T) {
	h := newExampleHub(t)
	th := NewThermostat(ThermostatConfig{Initial: 18})
	require.NoError(t, th.Attach(h))

	t.Run("Target", func(t *testing.T) {
		results := h.PutChannelValues(context.Background(),
			[]selector.SetterSelector{anySetter.WithID("thermostat-target")},
			value.Fahrenheit(68))
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err)
		assert.InDelta(t, 20, th.Target(), 1e-9)
	})

	t.Run("Power", func(t *testing.T) {
		require.NoError(t,
			th.Send(context.Background(), "thermostat-power", value.Bool(true)))
	})

	t.Run("WrongTargetType", func(t *testing.T) {
		err := th.Send(context.Background(), "thermostat-target", value.Bool(true))
		var te *api.TypeError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, value.TypeTemperature, te.Expected)
	})

	t.Run("WrongPowerType", func(t *testing.T) {
		err := th.Send(context.Background(), "thermostat-power", value.Celsius(20))
		var te *api.TypeError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, value.TypeBool, te.Expected)
	})

	t.Run("UnknownChannel", func(t *testing.T) {
		err := th.Send(context.Background(), "thermostat-display", value.Bool(true))
		assert.ErrorIs(t, err, api.ErrNoSuchSetter)
	})
}

func TestThermostatDrift(t *testing.T) {
	th := NewThermostat(ThermostatConfig{Initial: 10, Target: 20})

	// Off: drifts toward ambient, away from the target.
	first := th.tick()
	assert.Greater(t, first, 10.0)
	assert.Less(t, first, 15.0)

	// On: closes in on the target, monotonically from below.
	require.NoError(t, th.Send(context.Background(), th.powerID, value.Bool(true)))
	prev := th.Temperature()
	for range 20 {
		cur := th.tick()
		assert.GreaterOrEqual(t, cur, prev)
		assert.LessOrEqual(t, cur, 20.0)
		prev = cur
	}
	assert.InDelta(t, 20, prev, 0.5)
}

func TestThermostatRun(t *testing.T) {
	h := newExampleHub(t)
	th := NewThermostat(ThermostatConfig{
		Initial:      10,
		Target:       20,
		TickInterval: 5 * time.Millisecond,
	})
	require.NoError(t, th.Attach(h))
	require.NoError(t,
		th.Send(context.Background(), "thermostat-power", value.Bool(true)))

	events := make(chan api.WatchEvent, 64)
	opts := []api.WatchOptions{
		api.NewWatchOptions().
			WithGetters(anyGetter.WithKind(model.ActualTemperature)).
			WithWatchValues(true),
	}
	guard, err := h.Watch(opts, func(ev api.WatchEvent) { events <- ev })
	require.NoError(t, err)
	t.Cleanup(guard.Release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- th.Run(ctx) }()

	select {
	case ev := <-events:
		require.Equal(t, api.EventValue, ev.Kind)
		temp, ok := ev.Value.(value.Temperature)
		require.True(t, ok)
		assert.Greater(t, temp.AsCelsius(), 10.0)
	case <-time.After(2 * time.Second):
		t.Fatal("no reading pushed by the thermostat loop")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("thermostat loop did not stop")
	}
}
