package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors for the value layer.
var (
	// ErrSyntax reports a malformed encoding (bad timestamp string,
	// unknown envelope tag, truncated payload).
	ErrSyntax = errors.New("syntax error")

	// ErrTypeMismatch reports a value whose type conflicts with what the
	// operation expects, for instance mixed bounds in a Range.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Value is a single typed payload exchanged with a service channel.
//
// The set of implementations is closed: Unit, Bool, Duration, TimeStamp,
// Temperature, String, Color, Json, Binary and ExtNumeric. Values are
// immutable once constructed.
type Value interface {
	// Type returns the type tag of this value. It is total and stable.
	Type() Type

	isValue()
}

// Unit is the empty value.
type Unit struct{}

// Bool is a boolean value. False orders before true.
type Bool bool

// String is shared immutable text, ordered lexicographically.
type String string

// TemperatureUnit tags the unit a Temperature was measured in.
type TemperatureUnit uint8

const (
	// UnitFahrenheit marks degrees Fahrenheit.
	UnitFahrenheit TemperatureUnit = iota

	// UnitCelsius marks degrees Celsius.
	UnitCelsius
)

// String returns the unit tag used in encodings ("F" or "C").
func (u TemperatureUnit) String() string {
	switch u {
	case UnitFahrenheit:
		return "F"
	case UnitCelsius:
		return "C"
	default:
		return fmt.Sprintf("TemperatureUnit(%d)", uint8(u))
	}
}

// Temperature is a temperature magnitude with an explicit unit.
// Adapters are expected to convert to whatever their device needs;
// comparison always goes through Celsius.
type Temperature struct {
	unit    TemperatureUnit
	degrees float64
}

// Fahrenheit returns a temperature measured in degrees Fahrenheit.
func Fahrenheit(degrees float64) Temperature {
	return Temperature{unit: UnitFahrenheit, degrees: degrees}
}

// Celsius returns a temperature measured in degrees Celsius.
func Celsius(degrees float64) Temperature {
	return Temperature{unit: UnitCelsius, degrees: degrees}
}

// Unit returns the unit the temperature was measured in.
func (t Temperature) Unit() TemperatureUnit { return t.unit }

// Degrees returns the stored magnitude in the stored unit.
func (t Temperature) Degrees() float64 { return t.degrees }

// AsCelsius converts the temperature to degrees Celsius.
func (t Temperature) AsCelsius() float64 {
	if t.unit == UnitCelsius {
		return t.degrees
	}
	return (t.degrees - 32) * 5 / 9
}

// AsFahrenheit converts the temperature to degrees Fahrenheit.
func (t Temperature) AsFahrenheit() float64 {
	if t.unit == UnitFahrenheit {
		return t.degrees
	}
	return t.degrees*9/5 + 32
}

// MarshalJSON encodes the temperature as a one-key object tagged by its
// unit, for example {"C":21.5}.
func (t Temperature) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]float64{t.unit.String(): t.degrees})
}

// UnmarshalJSON decodes a unit-tagged temperature object.
func (t *Temperature) UnmarshalJSON(data []byte) error {
	var tagged map[string]float64
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("%w: temperature must have exactly one unit tag", ErrSyntax)
	}
	for tag, degrees := range tagged {
		switch tag {
		case "F":
			*t = Fahrenheit(degrees)
		case "C":
			*t = Celsius(degrees)
		default:
			return fmt.Errorf("%w: unknown temperature unit %q", ErrSyntax, tag)
		}
	}
	return nil
}

// Color is an opaque 5-component color. Components are not validated;
// adapters convert to whatever representation their device expects.
type Color struct {
	RGBA [5]float64 `json:"RGBA"`
}

// RGBA builds a color from its five components.
func RGBA(c0, c1, c2, c3, c4 float64) Color {
	return Color{RGBA: [5]float64{c0, c1, c2, c3, c4}}
}

// Json is a raw JSON document kept in immutable shared storage so that
// copying the value never copies the document.
type Json struct {
	raw string
}

// NewJson validates raw as JSON and wraps it. The bytes are copied once;
// later copies of the value share the same storage.
func NewJson(raw []byte) (Json, error) {
	if !json.Valid(raw) {
		return Json{}, fmt.Errorf("%w: invalid JSON document", ErrSyntax)
	}
	return Json{raw: string(raw)}, nil
}

// Raw returns a copy of the encoded document.
func (j Json) Raw() json.RawMessage {
	return json.RawMessage(j.raw)
}

// MarshalJSON emits the document verbatim.
func (j Json) MarshalJSON() ([]byte, error) {
	if j.raw == "" {
		return []byte("null"), nil
	}
	return []byte(j.raw), nil
}

// UnmarshalJSON stores the document verbatim after validation.
func (j *Json) UnmarshalJSON(data []byte) error {
	parsed, err := NewJson(data)
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

// Binary is an immutable byte payload with a mimetype.
type Binary struct {
	data     string
	mimetype string
}

// NewBinary copies data into immutable storage and tags it with mimetype.
func NewBinary(data []byte, mimetype string) Binary {
	return Binary{data: string(data), mimetype: mimetype}
}

// Data returns a copy of the payload bytes.
func (b Binary) Data() []byte { return []byte(b.data) }

// MimeType returns the payload's mimetype.
func (b Binary) MimeType() string { return b.mimetype }

type binaryJSON struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimetype"`
}

// MarshalJSON encodes the payload as base64 alongside its mimetype.
func (b Binary) MarshalJSON() ([]byte, error) {
	return json.Marshal(binaryJSON{Data: []byte(b.data), MimeType: b.mimetype})
}

// UnmarshalJSON decodes the base64 payload and mimetype.
func (b *Binary) UnmarshalJSON(data []byte) error {
	var raw binaryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	*b = NewBinary(raw.Data, raw.MimeType)
	return nil
}

// ExtNumeric is a numeric value of a kind that has not been standardized.
type ExtNumeric struct {
	Value float64 `json:"value"`

	// Vendor namespaces the extension so that two incompatible
	// extensions with similar names cannot be confused,
	// for instance "foxlink@mozilla.com".
	Vendor string `json:"vendor"`

	// Adapter identifies the adapter that introduced the value, to aid
	// tracing and debugging.
	Adapter string `json:"adapter"`

	// Kind describes the nature of the value, to aid type checking,
	// for instance "GroundHumidity".
	Kind string `json:"kind"`
}

// Type implementations. Each variant maps to exactly one Type.

func (Unit) Type() Type        { return TypeUnit }
func (Bool) Type() Type        { return TypeBool }
func (Duration) Type() Type    { return TypeDuration }
func (TimeStamp) Type() Type   { return TypeTimeStamp }
func (Temperature) Type() Type { return TypeTemperature }
func (String) Type() Type      { return TypeString }
func (Color) Type() Type       { return TypeColor }
func (Json) Type() Type        { return TypeJson }
func (Binary) Type() Type      { return TypeBinary }
func (ExtNumeric) Type() Type  { return TypeExtNumeric }

func (Unit) isValue()        {}
func (Bool) isValue()        {}
func (Duration) isValue()    {}
func (TimeStamp) isValue()   {}
func (Temperature) isValue() {}
func (String) isValue()      {}
func (Color) isValue()       {}
func (Json) isValue()        {}
func (Binary) isValue()      {}
func (ExtNumeric) isValue()  {}

var (
	_ Value = Unit{}
	_ Value = Bool(false)
	_ Value = Duration(0)
	_ Value = TimeStamp{}
	_ Value = Temperature{}
	_ Value = String("")
	_ Value = Color{}
	_ Value = Json{}
	_ Value = Binary{}
	_ Value = ExtNumeric{}
)

// Compare orders two values. The result is (ordering, ok) where ordering
// is negative, zero or positive and ok reports whether the two values are
// comparable at all.
//
// Values of different types are never comparable. Within one type:
//
//   - Unit values are always equal.
//   - Bool, Duration, TimeStamp, String and Color use their natural
//     scalar or lexicographic order.
//   - Temperature compares by Celsius-converted magnitude regardless of
//     the stored unit.
//   - Json values are never comparable, even to each other.
//   - Binary values compare by payload only when mimetypes match.
//   - ExtNumeric values compare by magnitude only when vendor and kind
//     both match.
//
// NaN magnitudes are incomparable. Incomparable is a defined outcome,
// not an error.
func Compare(a, b Value) (int, bool) {
	switch av := a.(type) {
	case Unit:
		if _, ok := b.(Unit); ok {
			return 0, true
		}
	case Bool:
		if bv, ok := b.(Bool); ok {
			switch {
			case bool(av) == bool(bv):
				return 0, true
			case !bool(av):
				return -1, true
			default:
				return 1, true
			}
		}
	case Duration:
		if bv, ok := b.(Duration); ok {
			return cmpOrdered(int64(av), int64(bv)), true
		}
	case TimeStamp:
		if bv, ok := b.(TimeStamp); ok {
			switch {
			case av.t.Before(bv.t):
				return -1, true
			case av.t.After(bv.t):
				return 1, true
			default:
				return 0, true
			}
		}
	case Temperature:
		if bv, ok := b.(Temperature); ok {
			return cmpFloat(av.AsCelsius(), bv.AsCelsius())
		}
	case String:
		if bv, ok := b.(String); ok {
			return strings.Compare(string(av), string(bv)), true
		}
	case Color:
		if bv, ok := b.(Color); ok {
			for i := range av.RGBA {
				if c, ok := cmpFloat(av.RGBA[i], bv.RGBA[i]); !ok {
					return 0, false
				} else if c != 0 {
					return c, true
				}
			}
			return 0, true
		}
	case Json:
		// JSON structural ordering is not defined at this layer.
		return 0, false
	case Binary:
		if bv, ok := b.(Binary); ok && av.mimetype == bv.mimetype {
			return strings.Compare(av.data, bv.data), true
		}
	case ExtNumeric:
		if bv, ok := b.(ExtNumeric); ok && av.Vendor == bv.Vendor && av.Kind == bv.Kind {
			return cmpFloat(av.Value, bv.Value)
		}
	}
	return 0, false
}

// Equal reports structural equality: the exact stored representation
// must match. In particular Fahrenheit(32) is not Equal to Celsius(0)
// even though Compare orders them as equal, and two Json values are
// Equal when their decoded documents match.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Duration:
		bv, ok := b.(Duration)
		return ok && av == bv
	case TimeStamp:
		bv, ok := b.(TimeStamp)
		return ok && av.t.Equal(bv.t)
	case Temperature:
		bv, ok := b.(Temperature)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Color:
		bv, ok := b.(Color)
		return ok && av == bv
	case Json:
		bv, ok := b.(Json)
		return ok && jsonEqual(av, bv)
	case Binary:
		bv, ok := b.(Binary)
		return ok && av == bv
	case ExtNumeric:
		bv, ok := b.(ExtNumeric)
		return ok && av == bv
	}
	return false
}

func jsonEqual(a, b Json) bool {
	if a.raw == b.raw {
		return true
	}
	var da, db any
	if err := json.Unmarshal([]byte(a.raw), &da); err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(b.raw), &db); err != nil {
		return false
	}
	return reflect.DeepEqual(da, db)
}

func cmpOrdered(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) (int, bool) {
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	case a == b:
		return 0, true
	default:
		// At least one operand is NaN.
		return 0, false
	}
}

// String representations for diagnostics and the interactive CLI.

func (Unit) String() string { return "()" }

func (t Temperature) String() string {
	return fmt.Sprintf("%g°%s", t.degrees, t.unit)
}

func (c Color) String() string {
	parts := make([]string, len(c.RGBA))
	for i, comp := range c.RGBA {
		parts[i] = fmt.Sprintf("%g", comp)
	}
	return "RGBA(" + strings.Join(parts, ",") + ")"
}

func (j Json) String() string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(j.raw)); err != nil {
		return j.raw
	}
	return buf.String()
}

func (b Binary) String() string {
	return fmt.Sprintf("binary[%s, %d bytes]", b.mimetype, len(b.data))
}

func (e ExtNumeric) String() string {
	return fmt.Sprintf("%g (%s/%s)", e.Value, e.Vendor, e.Kind)
}
