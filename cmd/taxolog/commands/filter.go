package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output     string
	Category   string
	Op         string
	NodeID     string
	ChannelID  string
	TimeStart  string
	TimeEnd    string
	ErrorsOnly bool
}

// RunFilter filters the log file and writes matching events to a new file.
// Events keep their original sequence numbers.
func RunFilter(path string, opts FilterOptions) error {
	// Build filter
	filter := log.Filter{
		Op:         opts.Op,
		NodeID:     opts.NodeID,
		ChannelID:  opts.ChannelID,
		ErrorsOnly: opts.ErrorsOnly,
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if opts.Category != "" {
		c, err := parseCategory(opts.Category)
		if err != nil {
			return err
		}
		filter.Category = &c
	}

	// Open input
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Create file logger to write filtered events
	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Close()
			return fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}

	if err := logger.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
	return nil
}
