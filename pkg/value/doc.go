// Package value implements the typed value algebra exchanged with service
// channels.
//
// # Types and Values
//
// Every value carries exactly one payload matching one Type. The set of
// types is closed:
//
//	Unit, Bool, Duration, TimeStamp, Temperature, String,
//	Color, Json, Binary, ExtNumeric
//
// Type is totally ordered (by its numeric tag) so channel types can be
// sorted and deduplicated. Values themselves are only partially ordered:
// two values of different types are never ordered and never equal, and
// some same-type comparisons are undefined (Json against Json, Binary
// with mismatched mimetypes, ExtNumeric with mismatched vendor or kind).
//
// # Comparison
//
// Compare returns (ordering, ok). ok == false means "incomparable",
// which is a defined outcome, not an error. Callers such as Range treat
// incomparable as a plain false. Equal is structural: it compares the
// exact representation, so a Fahrenheit temperature is never Equal to a
// Celsius one even when Compare orders them as equal.
//
// # Serialization
//
// Two encodings are contractual and round-trip exactly:
//
//   - Duration encodes as a JSON number of milliseconds.
//   - TimeStamp encodes as an RFC 3339 string. Parsing any other string
//     fails with ErrSyntax.
//
// Whole values encode as one-key envelopes tagged with the type name,
// for example {"Bool":true} or {"Temperature":{"C":21.5}}. MarshalValue
// and UnmarshalValue implement the envelope; Payload wraps a Value for
// embedding in structs that go through encoding/json.
//
// # Immutability
//
// Values are immutable. String, Json and Binary keep their payload in
// immutable shared storage, so copying a value never copies the payload
// and never exposes mutable aliasing.
package value
