package value

import (
	"encoding/json"
	"fmt"
)

// Type identifies the kind of payload a Value carries.
//
// The numeric tags form a total order so types can be sorted and
// deduplicated, independent of any particular value.
type Type uint8

const (
	// TypeUnit is the empty value, used for instance to signal that a
	// countdown has reached zero or that a device is ready.
	TypeUnit Type = iota

	// TypeBool is a boolean, used for on/off switches, presence
	// detectors and the like.
	TypeBool

	// TypeDuration is a length of time, used for instance in countdowns.
	TypeDuration

	// TypeTimeStamp is a precise instant, used for instance to record
	// when an event took place.
	TypeTimeStamp

	// TypeTemperature is a temperature with an explicit unit.
	TypeTemperature

	// TypeString is shared immutable text.
	TypeString

	// TypeColor is an opaque 5-component color.
	TypeColor

	// TypeJson is a raw JSON document.
	TypeJson

	// TypeBinary is an immutable byte payload with a mimetype.
	TypeBinary

	// TypeExtNumeric is a numeric value of a kind that has not been
	// standardized, namespaced by vendor.
	TypeExtNumeric
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeUnit:
		return "Unit"
	case TypeBool:
		return "Bool"
	case TypeDuration:
		return "Duration"
	case TypeTimeStamp:
		return "TimeStamp"
	case TypeTemperature:
		return "Temperature"
	case TypeString:
		return "String"
	case TypeColor:
		return "Color"
	case TypeJson:
		return "Json"
	case TypeBinary:
		return "Binary"
	case TypeExtNumeric:
		return "ExtNumeric"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType resolves a type name to its Type.
func ParseType(name string) (Type, error) {
	for t := TypeUnit; t <= TypeExtNumeric; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown type %q", ErrSyntax, name)
}

// MarshalJSON encodes the type as its name string.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a type name string.
func (t *Type) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	parsed, err := ParseType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
