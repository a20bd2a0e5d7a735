package selector

import (
	"encoding/json"
	"fmt"

	"github.com/fabricedesre/taxonomy/pkg/value"
)

type exactlyState uint8

const (
	exactlyAny exactlyState = iota
	exactlyIs
	exactlyNever
)

// Exactly is a three-state constraint on a single selector field. The
// zero value matches anything, Is pins the field to one value, and
// Never matches nothing. Never arises when two different Is constraints
// are combined; it keeps refinement monotonic instead of letting a
// later constraint override an earlier one.
type Exactly[T comparable] struct {
	state exactlyState
	value T
}

// Is returns a constraint matching exactly v.
func Is[T comparable](v T) Exactly[T] {
	return Exactly[T]{state: exactlyIs, value: v}
}

// Never returns a constraint matching nothing.
func Never[T comparable]() Exactly[T] {
	return Exactly[T]{state: exactlyNever}
}

// Matches reports whether v satisfies the constraint.
func (e Exactly[T]) Matches(v T) bool {
	switch e.state {
	case exactlyIs:
		return e.value == v
	case exactlyNever:
		return false
	default:
		return true
	}
}

// Value returns the pinned value, if the constraint pins one.
func (e Exactly[T]) Value() (T, bool) {
	if e.state != exactlyIs {
		var zero T
		return zero, false
	}
	return e.value, true
}

// IsNever reports whether the constraint matches nothing.
func (e Exactly[T]) IsNever() bool { return e.state == exactlyNever }

// And combines two constraints conjunctively. Two different pinned
// values conflict and yield Never.
func (e Exactly[T]) And(other Exactly[T]) Exactly[T] {
	switch {
	case e.state == exactlyNever || other.state == exactlyNever:
		return Never[T]()
	case e.state == exactlyAny:
		return other
	case other.state == exactlyAny:
		return e
	case e.value == other.value:
		return e
	default:
		return Never[T]()
	}
}

// MarshalJSON encodes the any state as null, a pinned value as an
// {"Exactly":v} envelope and the conflict state as "Conflict".
func (e Exactly[T]) MarshalJSON() ([]byte, error) {
	switch e.state {
	case exactlyIs:
		return json.Marshal(map[string]T{"Exactly": e.value})
	case exactlyNever:
		return json.Marshal("Conflict")
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes the forms produced by MarshalJSON.
func (e *Exactly[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = Exactly[T]{}
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name != "Conflict" {
			return fmt.Errorf("%w: unknown constraint %q", value.ErrSyntax, name)
		}
		*e = Never[T]()
		return nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: constraint: %v", value.ErrSyntax, err)
	}
	raw, ok := envelope["Exactly"]
	if !ok || len(envelope) != 1 {
		return fmt.Errorf("%w: constraint envelope must be {\"Exactly\":...}", value.ErrSyntax)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: constraint value: %v", value.ErrSyntax, err)
	}
	*e = Is(v)
	return nil
}
