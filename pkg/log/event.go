package log

import "time"

// Event represents one hub activity record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Seq is a monotonic sequence number assigned by the hub.
	Seq uint64 `cbor:"1,keyasint,omitempty"`

	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"2,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"3,keyasint"`

	// Op names the operation that produced the event.
	Op string `cbor:"4,keyasint"`

	// NodeID identifies the node concerned, when any.
	NodeID string `cbor:"5,keyasint,omitempty"`

	// ChannelID identifies the channel concerned, when any.
	ChannelID string `cbor:"6,keyasint,omitempty"`

	// Adapter names the adapter concerned, when any.
	Adapter string `cbor:"7,keyasint,omitempty"`

	// Count is the number of entities affected by a bulk operation.
	Count int `cbor:"8,keyasint,omitempty"`

	// Detail carries free-form context (tag names, value types).
	Detail string `cbor:"9,keyasint,omitempty"`

	// Error is the error message for failure events.
	Error string `cbor:"10,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryTopology indicates a node or channel appearing or disappearing.
	CategoryTopology Category = 0
	// CategoryTag indicates a bulk tag operation.
	CategoryTag Category = 1
	// CategoryValue indicates a value fetch, send or push.
	CategoryValue Category = 2
	// CategoryWatch indicates watch subscription lifecycle or overflow.
	CategoryWatch Category = 3
	// CategoryAdapter indicates adapter registration.
	CategoryAdapter Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTopology:
		return "TOPOLOGY"
	case CategoryTag:
		return "TAG"
	case CategoryValue:
		return "VALUE"
	case CategoryWatch:
		return "WATCH"
	case CategoryAdapter:
		return "ADAPTER"
	default:
		return "UNKNOWN"
	}
}
