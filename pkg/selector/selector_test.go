package selector

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

func dur(d time.Duration) value.Duration {
	return value.Duration(d)
}

func durPtr(d time.Duration) *value.Duration {
	v := value.Duration(d)
	return &v
}

func TestPeriodContains(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		d      value.Duration
		want   bool
	}{
		{"ZeroMatchesAll", Period{}, dur(time.Hour), true},
		{"MinInclusive", Period{Min: durPtr(time.Second)}, dur(time.Second), true},
		{"BelowMin", Period{Min: durPtr(time.Second)}, dur(time.Millisecond), false},
		{"MaxInclusive", Period{Max: durPtr(time.Minute)}, dur(time.Minute), true},
		{"AboveMax", Period{Max: durPtr(time.Minute)}, dur(time.Hour), false},
		{"Between", Period{Min: durPtr(time.Second), Max: durPtr(time.Minute)}, dur(30 * time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Contains(tt.d); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestPeriodAnd(t *testing.T) {
	a := Period{Min: durPtr(time.Second), Max: durPtr(time.Hour)}
	b := Period{Min: durPtr(time.Minute), Max: durPtr(30 * time.Minute)}

	out := a.And(b)
	if out.Min == nil || *out.Min != dur(time.Minute) {
		t.Errorf("expected min 1m, got %v", out.Min)
	}
	if out.Max == nil || *out.Max != dur(30*time.Minute) {
		t.Errorf("expected max 30m, got %v", out.Max)
	}

	open := Period{}.And(Period{Max: durPtr(time.Second)})
	if open.Min != nil {
		t.Error("expected min to stay open")
	}
	if open.Max == nil || *open.Max != dur(time.Second) {
		t.Errorf("expected max 1s, got %v", open.Max)
	}
}

func testGetter(t *testing.T, node model.NodeID, kind model.ServiceKind, tags ...string) *model.Channel[model.Getter] {
	t.Helper()
	ch := model.NewChannel(model.NewChannelID(), node, model.NewGetter(kind))
	for _, tag := range tags {
		ch.AddTag(tag)
	}
	return ch
}

func TestGetterSelectorMatches(t *testing.T) {
	node := model.NewNodeID()
	ch := testGetter(t, node, model.OnOff, "livingroom", "light")

	t.Run("ZeroMatchesAll", func(t *testing.T) {
		if !(GetterSelector{}).Matches(ch) {
			t.Error("expected zero selector to match")
		}
	})

	t.Run("ID", func(t *testing.T) {
		if !(GetterSelector{}).WithID(ch.ID()).Matches(ch) {
			t.Error("expected matching id to match")
		}
		if (GetterSelector{}).WithID(model.NewChannelID()).Matches(ch) {
			t.Error("expected other id to reject")
		}
	})

	t.Run("Parent", func(t *testing.T) {
		if !(GetterSelector{}).WithParent(node).Matches(ch) {
			t.Error("expected owning node to match")
		}
		if (GetterSelector{}).WithParent(model.NewNodeID()).Matches(ch) {
			t.Error("expected other node to reject")
		}
	})

	t.Run("TagsAllOf", func(t *testing.T) {
		if !(GetterSelector{}).WithTags("livingroom", "light").Matches(ch) {
			t.Error("expected full tag set to match")
		}
		if (GetterSelector{}).WithTags("livingroom", "kitchen").Matches(ch) {
			t.Error("expected missing tag to reject")
		}
	})

	t.Run("Kind", func(t *testing.T) {
		if !(GetterSelector{}).WithKind(model.OnOff).Matches(ch) {
			t.Error("expected matching kind to match")
		}
		if (GetterSelector{}).WithKind(model.OpenClosed).Matches(ch) {
			t.Error("expected other kind to reject")
		}
	})

	t.Run("PollRequiresCapability", func(t *testing.T) {
		sel := GetterSelector{}.WithPoll(Period{Max: durPtr(time.Minute)})
		if sel.Matches(ch) {
			t.Error("expected channel without poll support to reject")
		}

		polling := model.NewChannel(model.NewChannelID(), node,
			model.NewGetter(model.OnOff).WithPoll(dur(time.Second)))
		if !sel.Matches(polling) {
			t.Error("expected poll interval within period to match")
		}

		slow := model.NewChannel(model.NewChannelID(), node,
			model.NewGetter(model.OnOff).WithPoll(dur(time.Hour)))
		if sel.Matches(slow) {
			t.Error("expected poll interval outside period to reject")
		}
	})
}

func TestSetterSelectorMatches(t *testing.T) {
	node := model.NewNodeID()
	ch := model.NewChannel(model.NewChannelID(), node,
		model.NewSetter(model.OnOff).WithPush(dur(5*time.Second)))
	ch.AddTag("door")

	if !(SetterSelector{}).Matches(ch) {
		t.Error("expected zero selector to match")
	}
	if !(SetterSelector{}).WithKind(model.OnOff).WithTags("door").Matches(ch) {
		t.Error("expected kind+tag selector to match")
	}
	if (SetterSelector{}).WithPush(Period{Max: durPtr(time.Second)}).Matches(ch) {
		t.Error("expected push interval outside period to reject")
	}
	if !(SetterSelector{}).WithPush(Period{Max: durPtr(time.Minute)}).Matches(ch) {
		t.Error("expected push interval within period to match")
	}
}

func TestNodeSelectorMatches(t *testing.T) {
	node := model.NewNode(model.NewNodeID())
	node.AddTag("entrance")
	node.AddTag("door")

	getter := testGetter(t, node.ID(), model.OpenClosed)
	if err := node.AddGetter(getter); err != nil {
		t.Fatalf("AddGetter failed: %v", err)
	}

	t.Run("ZeroMatchesAll", func(t *testing.T) {
		if !(NodeSelector{}).Matches(node) {
			t.Error("expected zero selector to match")
		}
	})

	t.Run("TagsAllOf", func(t *testing.T) {
		if !(NodeSelector{}).WithTags("entrance", "door").Matches(node) {
			t.Error("expected full tag set to match")
		}
		if (NodeSelector{}).WithTags("entrance", "garage").Matches(node) {
			t.Error("expected missing tag to reject")
		}
	})

	t.Run("ChannelSubSelector", func(t *testing.T) {
		if !(NodeSelector{}).WithGetter(GetterSelector{}.WithKind(model.OpenClosed)).Matches(node) {
			t.Error("expected node with matching getter to match")
		}
		if (NodeSelector{}).WithGetter(GetterSelector{}.WithKind(model.OnOff)).Matches(node) {
			t.Error("expected node without matching getter to reject")
		}
		if (NodeSelector{}).WithSetter(SetterSelector{}).Matches(node) {
			t.Error("expected setter sub-selector to reject a node with no setters")
		}
	})
}

func TestAnyEmptyListMatchesNothing(t *testing.T) {
	node := model.NewNode(model.NewNodeID())
	getter := testGetter(t, node.ID(), model.OnOff)
	setter := model.NewChannel(model.NewChannelID(), node.ID(), model.NewSetter(model.OnOff))

	if AnyNode(nil, node) {
		t.Error("expected empty node selector list to match nothing")
	}
	if AnyGetter(nil, getter) {
		t.Error("expected empty getter selector list to match nothing")
	}
	if AnySetter(nil, setter) {
		t.Error("expected empty setter selector list to match nothing")
	}

	if !AnyNode([]NodeSelector{{}}, node) {
		t.Error("expected zero selector in list to match")
	}
	miss := GetterSelector{}.WithKind(model.OpenClosed)
	if !AnyGetter([]GetterSelector{miss, {}}, getter) {
		t.Error("expected OR semantics across the list")
	}
}

func TestGetterSelectorAnd(t *testing.T) {
	node := model.NewNodeID()
	a := GetterSelector{}.WithParent(node).WithTags("a")
	b := GetterSelector{}.WithKind(model.OnOff).WithTags("b")

	combined := a.And(b)
	ch := testGetter(t, node, model.OnOff, "a", "b")
	if !combined.Matches(ch) {
		t.Error("expected combined selector to match channel satisfying both")
	}

	partial := testGetter(t, node, model.OnOff, "a")
	if combined.Matches(partial) {
		t.Error("expected combined selector to reject channel missing a tag")
	}

	conflict := a.WithID("x").And(GetterSelector{}.WithID("y"))
	if !conflict.ID.IsNever() {
		t.Error("expected conflicting ids to yield Never")
	}
}

func TestSelectorJSON(t *testing.T) {
	sel := NodeSelector{}.
		WithTags("entrance", "door").
		WithGetter(GetterSelector{}.WithKind(model.OpenClosed))

	data, err := json.Marshal(sel)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded NodeSelector
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	node := model.NewNode(model.NewNodeID())
	node.AddTag("entrance")
	node.AddTag("door")
	getter := testGetter(t, node.ID(), model.OpenClosed)
	if err := node.AddGetter(getter); err != nil {
		t.Fatalf("AddGetter failed: %v", err)
	}

	if !decoded.Matches(node) {
		t.Error("expected decoded selector to keep matching behavior")
	}

	other := model.NewNode(model.NewNodeID())
	other.AddTag("entrance")
	if decoded.Matches(other) {
		t.Error("expected decoded selector to keep rejecting behavior")
	}
}
