package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/log"
)

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: ts, Category: log.CategoryTopology, Op: "add_node"},
		{Seq: 2, Timestamp: ts, Category: log.CategoryTopology, Op: "add_getter"},
		{Seq: 3, Timestamp: ts, Category: log.CategoryTag, Op: "add_node_tags"},
		{Seq: 4, Timestamp: ts, Category: log.CategoryValue, Op: "send"},
		{Seq: 5, Timestamp: ts, Category: log.CategoryWatch, Op: "subscribe"},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check category counts
	if !strings.Contains(output, "TOPOLOGY:") {
		t.Error("expected TOPOLOGY category in output")
	}
	if !strings.Contains(output, "TAG:") {
		t.Error("expected TAG category in output")
	}
	if !strings.Contains(output, "VALUE:") {
		t.Error("expected VALUE category in output")
	}
	if !strings.Contains(output, "WATCH:") {
		t.Error("expected WATCH category in output")
	}
}

func TestStatsCountsByOp(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: ts, Category: log.CategoryValue, Op: "send"},
		{Seq: 2, Timestamp: ts, Category: log.CategoryValue, Op: "send"},
		{Seq: 3, Timestamp: ts, Category: log.CategoryValue, Op: "fetch"},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "send:") {
		t.Error("expected send op in output")
	}
	if !strings.Contains(output, "fetch:") {
		t.Error("expected fetch op in output")
	}
}

func TestStatsCountsNodes(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: ts, Category: log.CategoryTopology, Op: "add_node", NodeID: "porch", Adapter: "light-porch"},
		{Seq: 2, Timestamp: ts.Add(time.Second), Category: log.CategoryValue, Op: "send", NodeID: "porch", ChannelID: "porch-switch"},
		{Seq: 3, Timestamp: ts, Category: log.CategoryTopology, Op: "add_node", NodeID: "kitchen"},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check node count
	if !strings.Contains(output, "Nodes: 2") {
		t.Errorf("expected 2 nodes in output, got:\n%s", output)
	}

	// Check node details
	if !strings.Contains(output, "[porch]") {
		t.Error("expected porch node details")
	}
	if !strings.Contains(output, "Adapter: light-porch") {
		t.Error("expected adapter name in node details")
	}
	if !strings.Contains(output, "Channels: 1") {
		t.Error("expected channel count in node details")
	}
}

func TestStatsTotalEvents(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: ts, Category: log.CategoryValue, Op: "send"},
		{Seq: 2, Timestamp: ts, Category: log.CategoryValue, Op: "send"},
		{Seq: 3, Timestamp: ts, Category: log.CategoryValue, Op: "send"},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Total Events: 3") {
		t.Errorf("expected 3 total events in output, got:\n%s", output)
	}
}

func TestStatsTimeRange(t *testing.T) {
	start := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 11, 11, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: start, Category: log.CategoryValue, Op: "send"},
		{Seq: 2, Timestamp: end, Category: log.CategoryValue, Op: "send"},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Duration:") {
		t.Error("expected Duration in output")
	}
	if !strings.Contains(output, "1h0m0s") {
		t.Errorf("expected 1h0m0s duration in output, got:\n%s", output)
	}
}

func TestStatsErrorCount(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: ts, Category: log.CategoryValue, Op: "send"},
		{Seq: 2, Timestamp: ts, Category: log.CategoryValue, Op: "send", Error: "no such setter"},
		{Seq: 3, Timestamp: ts, Category: log.CategoryValue, Op: "fetch", Error: "no such getter"},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Errors: 2") {
		t.Errorf("expected 2 errors in output, got:\n%s", output)
	}
}

func TestStatsDroppedWatchEvents(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: ts, Category: log.CategoryWatch, Op: "subscribe"},
		{Seq: 2, Timestamp: ts, Category: log.CategoryWatch, Op: "overflow", Count: 7},
		{Seq: 3, Timestamp: ts, Category: log.CategoryWatch, Op: "overflow", Count: 3},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Dropped watch events: 10") {
		t.Errorf("expected 10 dropped events in output, got:\n%s", output)
	}
}
