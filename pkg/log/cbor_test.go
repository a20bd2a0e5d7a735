package log

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Seq:       42,
		Timestamp: ts,
		Category:  CategoryTag,
		Op:        "add_getter_tags",
		NodeID:    "node-001",
		ChannelID: "chan-001",
		Adapter:   "clock",
		Count:     3,
		Detail:    "livingroom",
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Seq != original.Seq {
		t.Errorf("Seq: got %d, want %d", decoded.Seq, original.Seq)
	}
	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.Category != original.Category {
		t.Errorf("Category: got %v, want %v", decoded.Category, original.Category)
	}
	if decoded.Op != original.Op {
		t.Errorf("Op: got %q, want %q", decoded.Op, original.Op)
	}
	if decoded.NodeID != original.NodeID {
		t.Errorf("NodeID: got %q, want %q", decoded.NodeID, original.NodeID)
	}
	if decoded.ChannelID != original.ChannelID {
		t.Errorf("ChannelID: got %q, want %q", decoded.ChannelID, original.ChannelID)
	}
	if decoded.Adapter != original.Adapter {
		t.Errorf("Adapter: got %q, want %q", decoded.Adapter, original.Adapter)
	}
	if decoded.Count != original.Count {
		t.Errorf("Count: got %d, want %d", decoded.Count, original.Count)
	}
	if decoded.Detail != original.Detail {
		t.Errorf("Detail: got %q, want %q", decoded.Detail, original.Detail)
	}
}

func TestEventCBOROmitsEmptyFields(t *testing.T) {
	sparse := Event{
		Timestamp: time.Now(),
		Category:  CategoryWatch,
		Op:        "subscribe",
	}
	full := Event{
		Timestamp: sparse.Timestamp,
		Category:  CategoryWatch,
		Op:        "subscribe",
		NodeID:    "node-001",
		ChannelID: "chan-001",
		Detail:    "values+topology",
		Error:     "queue overflow",
	}

	sparseData, err := EncodeEvent(sparse)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	fullData, err := EncodeEvent(full)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	if len(sparseData) >= len(fullData) {
		t.Errorf("sparse event (%d bytes) should encode smaller than full event (%d bytes)",
			len(sparseData), len(fullData))
	}
}
