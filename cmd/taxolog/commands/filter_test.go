package commands

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/log"
)

func TestFilterCommandByNode(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: ts, Category: log.CategoryValue, Op: "send", NodeID: "porch"},
		{Seq: 2, Timestamp: ts, Category: log.CategoryValue, Op: "send", NodeID: "kitchen"},
		{Seq: 3, Timestamp: ts, Category: log.CategoryValue, Op: "fetch", NodeID: "porch"},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.tlog")

	err := RunFilter(path, FilterOptions{
		Output: outPath,
		NodeID: "porch",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	// Verify output
	reader, err := log.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		if event.NodeID != "porch" {
			t.Errorf("expected porch, got %s", event.NodeID)
		}
		count++
	}

	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}
}

func TestFilterCommandByTimeRange(t *testing.T) {
	base := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: base, Category: log.CategoryValue, Op: "send"},
		{Seq: 2, Timestamp: base.Add(time.Hour), Category: log.CategoryValue, Op: "send"},
		{Seq: 3, Timestamp: base.Add(2 * time.Hour), Category: log.CategoryValue, Op: "send"},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.tlog")

	err := RunFilter(path, FilterOptions{
		Output:    outPath,
		TimeStart: base.Add(30 * time.Minute).Format(time.RFC3339),
		TimeEnd:   base.Add(90 * time.Minute).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	// Only the middle event falls inside the window
	reader, err := log.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		if event.Seq != 2 {
			t.Errorf("expected seq 2, got %d", event.Seq)
		}
		count++
	}

	if count != 1 {
		t.Errorf("expected 1 event, got %d", count)
	}
}

func TestFilterCommandByCategory(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: ts, Category: log.CategoryTopology, Op: "add_node"},
		{Seq: 2, Timestamp: ts, Category: log.CategoryWatch, Op: "subscribe"},
		{Seq: 3, Timestamp: ts, Category: log.CategoryValue, Op: "send"},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.tlog")

	err := RunFilter(path, FilterOptions{
		Output:   outPath,
		Category: "watch",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	reader, err := log.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		if event.Category != log.CategoryWatch {
			t.Errorf("expected watch category, got %v", event.Category)
		}
		count++
	}

	if count != 1 {
		t.Errorf("expected 1 event, got %d", count)
	}
}

func TestFilterPreservesSequenceNumbers(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 10, Timestamp: ts, Category: log.CategoryValue, Op: "send", NodeID: "porch"},
		{Seq: 11, Timestamp: ts, Category: log.CategoryValue, Op: "send", NodeID: "kitchen"},
		{Seq: 12, Timestamp: ts, Category: log.CategoryValue, Op: "send", NodeID: "porch"},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.tlog")

	err := RunFilter(path, FilterOptions{
		Output: outPath,
		NodeID: "porch",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	reader, err := log.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	var seqs []uint64
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		seqs = append(seqs, event.Seq)
	}

	if len(seqs) != 2 || seqs[0] != 10 || seqs[1] != 12 {
		t.Errorf("expected original seqs [10 12], got %v", seqs)
	}
}

func TestFilterInvalidTimeFormat(t *testing.T) {
	ts := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Seq: 1, Timestamp: ts, Category: log.CategoryValue, Op: "send"},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.tlog")

	err := RunFilter(path, FilterOptions{
		Output:    outPath,
		TimeStart: "yesterday",
	})
	if err == nil {
		t.Error("expected error for invalid time format")
	}
}
