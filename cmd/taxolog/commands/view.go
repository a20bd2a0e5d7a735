// Package commands implements the taxolog CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fabricedesre/taxonomy/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Category   *log.Category
	Op         string
	ErrorsOnly bool
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp #seq CATEGORY operation
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s #%-5d %-8s %s\n", ts, event.Seq, event.Category.String(), event.Op)

	if event.NodeID != "" {
		fmt.Fprintf(w, "  Node: %s\n", event.NodeID)
	}
	if event.ChannelID != "" {
		fmt.Fprintf(w, "  Channel: %s\n", event.ChannelID)
	}
	if event.Adapter != "" {
		fmt.Fprintf(w, "  Adapter: %s\n", event.Adapter)
	}
	if event.Count != 0 {
		fmt.Fprintf(w, "  Count: %d\n", event.Count)
	}
	if event.Detail != "" {
		fmt.Fprintf(w, "  Detail: %s\n", event.Detail)
	}
	if event.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// filterEvents returns events matching the filter criteria.
func filterEvents(events []log.Event, filter ViewFilter) []log.Event {
	var result []log.Event
	for _, e := range events {
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.Op != "" && e.Op != filter.Op {
			continue
		}
		if filter.ErrorsOnly && e.Error == "" {
			continue
		}
		result = append(result, e)
	}
	return result
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "topology":
		return log.CategoryTopology, nil
	case "tag":
		return log.CategoryTag, nil
	case "value":
		return log.CategoryValue, nil
	case "watch":
		return log.CategoryWatch, nil
	case "adapter":
		return log.CategoryAdapter, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be topology, tag, value, watch, or adapter)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		// Apply filter
		if filter.Category != nil && event.Category != *filter.Category {
			continue
		}
		if filter.Op != "" && event.Op != filter.Op {
			continue
		}
		if filter.ErrorsOnly && event.Error == "" {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}
