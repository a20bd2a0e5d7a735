package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalValue encodes a value as a one-key envelope tagged with its
// type name, for example {"Duration":1500} or {"Temperature":{"C":0}}.
// Unit encodes as {"Unit":null}.
func MarshalValue(v Value) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: cannot encode nil value", ErrSyntax)
	}
	var payload []byte
	if _, ok := v.(Unit); ok {
		payload = []byte("null")
	} else {
		var err error
		payload, err = json.Marshal(v)
		if err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	tag, err := json.Marshal(v.Type().String())
	if err != nil {
		return nil, err
	}
	buf.Write(tag)
	buf.WriteByte(':')
	buf.Write(payload)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalValue decodes a one-key envelope produced by MarshalValue.
// Unknown tags, multi-key objects and malformed payloads fail with
// ErrSyntax.
func UnmarshalValue(data []byte) (Value, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: value envelope: %v", ErrSyntax, err)
	}
	if len(envelope) != 1 {
		return nil, fmt.Errorf("%w: value envelope must have exactly one tag", ErrSyntax)
	}
	for tag, raw := range envelope {
		typ, err := ParseType(tag)
		if err != nil {
			return nil, err
		}
		return unmarshalPayload(typ, raw)
	}
	return nil, fmt.Errorf("%w: empty value envelope", ErrSyntax)
}

func unmarshalPayload(typ Type, raw json.RawMessage) (Value, error) {
	switch typ {
	case TypeUnit:
		if len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: unit carries no payload", ErrSyntax)
		}
		return Unit{}, nil
	case TypeBool:
		var v Bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: bool payload: %v", ErrSyntax, err)
		}
		return v, nil
	case TypeDuration:
		var v Duration
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeTimeStamp:
		var v TimeStamp
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeTemperature:
		var v Temperature
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeString:
		var v String
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: string payload: %v", ErrSyntax, err)
		}
		return v, nil
	case TypeColor:
		var v Color
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: color payload: %v", ErrSyntax, err)
		}
		return v, nil
	case TypeJson:
		var v Json
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeBinary:
		var v Binary
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeExtNumeric:
		var v ExtNumeric
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: extnumeric payload: %v", ErrSyntax, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: unknown type tag %q", ErrSyntax, typ)
	}
}

// Payload wraps a Value so it can live in a struct that goes through
// encoding/json, using the envelope form on the wire.
type Payload struct {
	Value Value
}

// MarshalJSON encodes the wrapped value as an envelope.
func (p Payload) MarshalJSON() ([]byte, error) {
	return MarshalValue(p.Value)
}

// UnmarshalJSON decodes an envelope into the wrapped value.
func (p *Payload) UnmarshalJSON(data []byte) error {
	v, err := UnmarshalValue(data)
	if err != nil {
		return err
	}
	p.Value = v
	return nil
}
