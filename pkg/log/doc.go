// Package log provides structured activity logging for the hub.
//
// This package defines the Logger interface and Event type for capturing
// hub-level activity: topology changes, tag operations, value exchange and
// watch lifecycle. It is separate from operational logging (slog) - the
// event stream provides a complete machine-readable trace for debugging
// and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	logger, _ := log.NewFileLogger("/var/log/taxo/hub.tlog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Shape
//
// Each event carries a category (topology, tag, value, watch, adapter),
// an operation name, the node or channel concerned, and for bulk
// operations the number of entities affected. Failure events carry the
// error message.
//
// # File Format
//
// Log files use CBOR encoding with integer keys and the .tlog extension.
// The Reader type streams events back, optionally filtered.
package log
