package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/value"
)

func TestGetterMechanism(t *testing.T) {
	g := NewGetter(OnOff)

	if g.Kind() != OnOff {
		t.Errorf("expected kind OnOff, got %s", g.Kind())
	}
	if _, ok := g.Poll(); ok {
		t.Error("expected no poll interval by default")
	}
	if _, ok := g.Trigger(); ok {
		t.Error("expected no trigger interval by default")
	}
	if g.Updated().IsZero() {
		t.Error("expected updated timestamp to be set")
	}

	g = g.WithPoll(value.Duration(5 * time.Second)).WithTrigger(value.Duration(time.Second))
	if poll, ok := g.Poll(); !ok || poll.Std() != 5*time.Second {
		t.Errorf("expected poll 5s, got %v ok=%v", poll, ok)
	}
	if trigger, ok := g.Trigger(); !ok || trigger.Std() != time.Second {
		t.Errorf("expected trigger 1s, got %v ok=%v", trigger, ok)
	}
}

func TestSetterMechanism(t *testing.T) {
	s := NewSetter(Thermostat)

	if s.Kind() != Thermostat {
		t.Errorf("expected kind Thermostat, got %s", s.Kind())
	}
	if _, ok := s.Push(); ok {
		t.Error("expected no push interval by default")
	}

	s = s.WithPush(value.Duration(time.Minute))
	if push, ok := s.Push(); !ok || push.Std() != time.Minute {
		t.Errorf("expected push 1m, got %v ok=%v", push, ok)
	}
}

func TestChannelBasics(t *testing.T) {
	node := NewNodeID()
	id := NewChannelID()
	ch := NewChannel(id, node, NewGetter(ActualTemperature))

	if ch.ID() != id {
		t.Errorf("expected id %s, got %s", id, ch.ID())
	}
	if ch.Node() != node {
		t.Errorf("expected node %s, got %s", node, ch.Node())
	}
	if ch.Kind() != ActualTemperature {
		t.Errorf("expected kind ActualTemperature, got %s", ch.Kind())
	}
	if ch.LastSeen().IsZero() {
		t.Error("expected last seen to be set")
	}
}

func TestChannelTags(t *testing.T) {
	ch := NewChannel(NewChannelID(), NewNodeID(), NewGetter(OnOff))

	if !ch.AddTag("livingroom") {
		t.Error("expected first AddTag to change the set")
	}
	if ch.AddTag("livingroom") {
		t.Error("expected duplicate AddTag to be a no-op")
	}
	ch.AddTag("light")

	if !ch.HasTags([]string{"livingroom", "light"}) {
		t.Error("expected channel to carry both tags")
	}
	if ch.HasTags([]string{"livingroom", "kitchen"}) {
		t.Error("expected missing tag to fail HasTags")
	}
	if !ch.HasTags(nil) {
		t.Error("expected empty tag query to match")
	}

	if !ch.RemoveTag("light") {
		t.Error("expected RemoveTag to change the set")
	}
	if ch.RemoveTag("light") {
		t.Error("expected repeated RemoveTag to be a no-op")
	}
	if ch.HasTags([]string{"light"}) {
		t.Error("expected tag to be gone")
	}
}

func TestChannelMarkUpdated(t *testing.T) {
	ch := NewChannel(NewChannelID(), NewNodeID(), NewGetter(OnOff))
	ts := value.NewTimeStamp(time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC))

	ch.MarkUpdated(ts)

	if !ch.Mechanism().Updated().Time().Equal(ts.Time()) {
		t.Errorf("expected mechanism updated %s, got %s", ts, ch.Mechanism().Updated())
	}
	if !ch.LastSeen().Time().Equal(ts.Time()) {
		t.Errorf("expected last seen %s, got %s", ts, ch.LastSeen())
	}
}

func TestChannelClone(t *testing.T) {
	ch := NewChannel(NewChannelID(), NewNodeID(), NewGetter(OnOff).WithPoll(value.Duration(time.Second)))
	ch.AddTag("original")

	clone := ch.Clone()

	ch.AddTag("extra")
	if clone.HasTags([]string{"extra"}) {
		t.Error("expected clone tags to be independent")
	}
	if !clone.HasTags([]string{"original"}) {
		t.Error("expected clone to keep existing tags")
	}

	clone.MarkUpdated(value.Now())
	if poll, ok := clone.Mechanism().Poll(); !ok || poll.Std() != time.Second {
		t.Errorf("expected clone to keep poll interval, got %v ok=%v", poll, ok)
	}
	if ch.ID() != clone.ID() || ch.Node() != clone.Node() {
		t.Error("expected clone to keep identity")
	}
}

func TestChannelJSON(t *testing.T) {
	ch := NewChannel(NewChannelID(), NewNodeID(), NewGetter(OnOff).WithPoll(value.Duration(time.Second)))

	data, err := json.Marshal(ch)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		Tags      []string                   `json:"tags"`
		ID        ChannelID                  `json:"id"`
		Node      NodeID                     `json:"node"`
		Mechanism map[string]json.RawMessage `json:"mechanism"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Tags == nil {
		t.Error("expected tags to encode as [], not null")
	}
	if decoded.ID != ch.ID() {
		t.Errorf("expected id %s, got %s", ch.ID(), decoded.ID)
	}
	if len(decoded.Mechanism) != 1 {
		t.Fatalf("expected one-key mechanism envelope, got %d keys", len(decoded.Mechanism))
	}
	if _, ok := decoded.Mechanism["Getter"]; !ok {
		t.Error("expected mechanism envelope tagged Getter")
	}

	setter := NewChannel(NewChannelID(), NewNodeID(), NewSetter(OnOff))
	data, err = json.Marshal(setter)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := decoded.Mechanism["Setter"]; !ok {
		t.Error("expected mechanism envelope tagged Setter")
	}
}
