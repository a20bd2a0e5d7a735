package value

import (
	"encoding/json"
	"fmt"
)

type rangeOp uint8

const (
	rangeLeq rangeOp = iota + 1
	rangeGeq
	rangeBetweenEq
	rangeOutOfStrict
	rangeEq
)

// Range is a one- or two-bound predicate over values of a single type.
//
// Bounds take part in the partial order of Compare; a comparison that
// comes back incomparable makes Contains return false, never an error.
// The zero Range contains nothing and has no type.
type Range struct {
	op  rangeOp
	min Value
	max Value
}

// Leq accepts any value v such that v <= max.
func Leq(max Value) Range {
	return Range{op: rangeLeq, max: max}
}

// Geq accepts any value v such that v >= min.
func Geq(min Value) Range {
	return Range{op: rangeGeq, min: min}
}

// BetweenEq accepts any value v such that min <= v and v <= max.
// If max < min it never accepts anything.
func BetweenEq(min, max Value) Range {
	return Range{op: rangeBetweenEq, min: min, max: max}
}

// OutOfStrict accepts any value v such that v < min or max < v.
func OutOfStrict(min, max Value) Range {
	return Range{op: rangeOutOfStrict, min: min, max: max}
}

// Eq accepts any value v structurally equal to want, per Equal.
func Eq(want Value) Range {
	return Range{op: rangeEq, min: want}
}

// Contains reports whether the range accepts v.
func (r Range) Contains(v Value) bool {
	switch r.op {
	case rangeLeq:
		return leq(v, r.max)
	case rangeGeq:
		return leq(r.min, v)
	case rangeBetweenEq:
		return leq(r.min, v) && leq(v, r.max)
	case rangeOutOfStrict:
		return lt(v, r.min) || lt(r.max, v)
	case rangeEq:
		return v != nil && Equal(v, r.min)
	default:
		return false
	}
}

// Type returns the type this range selects on. A two-bound range whose
// bounds differ in type fails with ErrTypeMismatch.
func (r Range) Type() (Type, error) {
	switch r.op {
	case rangeLeq:
		if r.max == nil {
			break
		}
		return r.max.Type(), nil
	case rangeGeq, rangeEq:
		if r.min == nil {
			break
		}
		return r.min.Type(), nil
	case rangeBetweenEq, rangeOutOfStrict:
		if r.min == nil || r.max == nil {
			break
		}
		minType, maxType := r.min.Type(), r.max.Type()
		if minType != maxType {
			return 0, fmt.Errorf("%w: range bounds %s and %s", ErrTypeMismatch, minType, maxType)
		}
		return minType, nil
	}
	return 0, fmt.Errorf("%w: range has no bounds", ErrTypeMismatch)
}

func leq(a, b Value) bool {
	c, ok := Compare(a, b)
	return ok && c <= 0
}

func lt(a, b Value) bool {
	c, ok := Compare(a, b)
	return ok && c < 0
}

func (r Range) String() string {
	switch r.op {
	case rangeLeq:
		return fmt.Sprintf("<= %v", r.max)
	case rangeGeq:
		return fmt.Sprintf(">= %v", r.min)
	case rangeBetweenEq:
		return fmt.Sprintf("[%v, %v]", r.min, r.max)
	case rangeOutOfStrict:
		return fmt.Sprintf("outside (%v, %v)", r.min, r.max)
	case rangeEq:
		return fmt.Sprintf("== %v", r.min)
	default:
		return "empty range"
	}
}

type rangePairJSON struct {
	Min Payload `json:"min"`
	Max Payload `json:"max"`
}

// MarshalJSON encodes the range as a one-key envelope tagged with its
// variant, mirroring the value envelope: {"Leq":{"Duration":1500}} or
// {"BetweenEq":{"min":...,"max":...}}.
func (r Range) MarshalJSON() ([]byte, error) {
	switch r.op {
	case rangeLeq:
		return tagJSON("Leq", Payload{Value: r.max})
	case rangeGeq:
		return tagJSON("Geq", Payload{Value: r.min})
	case rangeBetweenEq:
		return tagJSON("BetweenEq", rangePairJSON{Min: Payload{Value: r.min}, Max: Payload{Value: r.max}})
	case rangeOutOfStrict:
		return tagJSON("OutOfStrict", rangePairJSON{Min: Payload{Value: r.min}, Max: Payload{Value: r.max}})
	case rangeEq:
		return tagJSON("Eq", Payload{Value: r.min})
	default:
		return nil, fmt.Errorf("%w: cannot encode empty range", ErrSyntax)
	}
}

// UnmarshalJSON decodes a range envelope.
func (r *Range) UnmarshalJSON(data []byte) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: range envelope: %v", ErrSyntax, err)
	}
	if len(envelope) != 1 {
		return fmt.Errorf("%w: range envelope must have exactly one tag", ErrSyntax)
	}
	for tag, raw := range envelope {
		switch tag {
		case "Leq", "Geq", "Eq":
			var bound Payload
			if err := json.Unmarshal(raw, &bound); err != nil {
				return err
			}
			switch tag {
			case "Leq":
				*r = Leq(bound.Value)
			case "Geq":
				*r = Geq(bound.Value)
			case "Eq":
				*r = Eq(bound.Value)
			}
		case "BetweenEq", "OutOfStrict":
			var pair rangePairJSON
			if err := json.Unmarshal(raw, &pair); err != nil {
				return err
			}
			if tag == "BetweenEq" {
				*r = BetweenEq(pair.Min.Value, pair.Max.Value)
			} else {
				*r = OutOfStrict(pair.Min.Value, pair.Max.Value)
			}
		default:
			return fmt.Errorf("%w: unknown range tag %q", ErrSyntax, tag)
		}
		return nil
	}
	return fmt.Errorf("%w: empty range envelope", ErrSyntax)
}

func tagJSON(tag string, payload any) ([]byte, error) {
	inner, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	name, err := json.Marshal(tag)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(name)+len(inner)+2)
	out = append(out, '{')
	out = append(out, name...)
	out = append(out, ':')
	out = append(out, inner...)
	out = append(out, '}')
	return out, nil
}
