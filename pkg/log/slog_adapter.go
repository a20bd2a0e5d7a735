package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes hub events to an slog.Logger.
// Useful for development when you want to see hub activity in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.Uint64("seq", event.Seq),
		slog.String("category", event.Category.String()),
		slog.String("op", event.Op),
	}

	if event.NodeID != "" {
		attrs = append(attrs, slog.String("node", event.NodeID))
	}
	if event.ChannelID != "" {
		attrs = append(attrs, slog.String("channel", event.ChannelID))
	}
	if event.Adapter != "" {
		attrs = append(attrs, slog.String("adapter", event.Adapter))
	}
	if event.Count != 0 {
		attrs = append(attrs, slog.Int("count", event.Count))
	}
	if event.Detail != "" {
		attrs = append(attrs, slog.String("detail", event.Detail))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "hub", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
