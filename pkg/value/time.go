package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Duration is a length of time. It encodes as a JSON number counting
// whole milliseconds; sub-millisecond precision is truncated on encode.
type Duration time.Duration

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Milliseconds returns the duration truncated to whole milliseconds.
func (d Duration) Milliseconds() int64 { return time.Duration(d).Milliseconds() }

// String formats the duration like time.Duration.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalJSON encodes the duration as a number of milliseconds.
func (d Duration) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, d.Milliseconds(), 10), nil
}

// UnmarshalJSON decodes a number of milliseconds, reconstructing whole
// seconds plus the fractional remainder.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("%w: duration must be a number of milliseconds", ErrSyntax)
	}
	if ms, err := num.Int64(); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	ms, err := num.Float64()
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return fmt.Errorf("%w: duration must be a number of milliseconds", ErrSyntax)
	}
	secs := math.Trunc(ms / 1000)
	rem := ms - secs*1000
	*d = Duration(time.Duration(secs)*time.Second + time.Duration(rem*float64(time.Millisecond)))
	return nil
}

// TimeStamp is a precise instant, held in UTC. It encodes as an
// RFC 3339 string; parsing any other string fails with ErrSyntax.
type TimeStamp struct {
	t time.Time
}

// NewTimeStamp wraps an instant, normalizing it to UTC.
func NewTimeStamp(t time.Time) TimeStamp {
	return TimeStamp{t: t.UTC()}
}

// Now returns the current instant as a TimeStamp.
func Now() TimeStamp {
	return NewTimeStamp(time.Now())
}

// Time returns the wrapped instant.
func (ts TimeStamp) Time() time.Time { return ts.t }

// IsZero reports whether the timestamp is the zero instant.
func (ts TimeStamp) IsZero() bool { return ts.t.IsZero() }

// String formats the instant as RFC 3339.
func (ts TimeStamp) String() string { return ts.t.Format(time.RFC3339Nano) }

// MarshalJSON encodes the instant as an RFC 3339 string.
func (ts TimeStamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.t.Format(time.RFC3339Nano))
}

// UnmarshalJSON parses an RFC 3339 string.
func (ts *TimeStamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: timestamp must be an RFC 3339 string", ErrSyntax)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrSyntax, s)
	}
	*ts = NewTimeStamp(t)
	return nil
}
