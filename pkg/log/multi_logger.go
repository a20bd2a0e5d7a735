package log

import (
	"errors"
	"io"
)

// MultiLogger fans events out to several destinations, typically a
// console mirror via SlogAdapter plus a FileLogger for the durable
// trace. Nil destinations are dropped at construction.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger builds a fan-out over the non-nil destinations.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	kept := make([]Logger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			kept = append(kept, l)
		}
	}
	return &MultiLogger{loggers: kept}
}

// Len returns the number of destinations.
func (m *MultiLogger) Len() int {
	return len(m.loggers)
}

// Log sends the event to every destination in order.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Close closes every destination that supports closing and joins the
// errors. Destinations without a Close method are left alone.
func (m *MultiLogger) Close() error {
	var errs []error
	for _, l := range m.loggers {
		if c, ok := l.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*MultiLogger)(nil)
