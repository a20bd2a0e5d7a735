package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsByOp       map[string]int
	Nodes            map[string]*NodeStats
	Errors           int
	Dropped          int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// NodeStats holds statistics for a single node.
type NodeStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Adapter   string
	Channels  map[string]struct{}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsByOp:       make(map[string]int),
		Nodes:            make(map[string]*NodeStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.EventsByOp[event.Op]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track per-node stats
		if event.NodeID != "" {
			node, ok := stats.Nodes[event.NodeID]
			if !ok {
				node = &NodeStats{
					FirstSeen: event.Timestamp,
					LastSeen:  event.Timestamp,
					Channels:  make(map[string]struct{}),
				}
				stats.Nodes[event.NodeID] = node
			}
			node.Events++
			if event.Timestamp.After(node.LastSeen) {
				node.LastSeen = event.Timestamp
			}
			if event.Adapter != "" && node.Adapter == "" {
				node.Adapter = event.Adapter
			}
			if event.ChannelID != "" {
				node.Channels[event.ChannelID] = struct{}{}
			}
		}

		// Sum watch queue overflows
		if event.Op == "overflow" {
			stats.Dropped += event.Count
		}

		// Count errors
		if event.Error != "" {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Hub Activity Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by category
	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryTopology, log.CategoryTag, log.CategoryValue, log.CategoryWatch, log.CategoryAdapter} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by operation, alphabetical
	fmt.Fprintln(w, "Events by Operation:")
	ops := make([]string, 0, len(stats.EventsByOp))
	for op := range stats.EventsByOp {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Fprintf(w, "  %-20s %d\n", op+":", stats.EventsByOp[op])
	}
	fmt.Fprintln(w)

	// Nodes
	fmt.Fprintf(w, "Nodes: %d\n", len(stats.Nodes))
	if len(stats.Nodes) > 0 {
		// Sort by first seen time
		type nodeInfo struct {
			id    string
			stats *NodeStats
		}
		nodes := make([]nodeInfo, 0, len(stats.Nodes))
		for id, ns := range stats.Nodes {
			nodes = append(nodes, nodeInfo{id, ns})
		}
		sort.Slice(nodes, func(i, j int) bool {
			return nodes[i].stats.FirstSeen.Before(nodes[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, n := range nodes {
			duration := n.stats.LastSeen.Sub(n.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", n.id, n.stats.Events, duration)
			if n.stats.Adapter != "" {
				fmt.Fprintf(w, "           Adapter: %s\n", n.stats.Adapter)
			}
			if len(n.stats.Channels) > 0 {
				fmt.Fprintf(w, "           Channels: %d\n", len(n.stats.Channels))
			}
		}
	}

	// Dropped watch events
	if stats.Dropped > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Dropped watch events: %d\n", stats.Dropped)
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
