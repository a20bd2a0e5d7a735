package value

import (
	"math"
	"testing"
	"time"
)

func allValues() []Value {
	return []Value{
		Unit{},
		Bool(true),
		Duration(1500 * time.Millisecond),
		NewTimeStamp(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		Celsius(21.5),
		String("hello"),
		RGBA(0.1, 0.2, 0.3, 0.4, 0.5),
		mustJson(`{"a":1}`),
		NewBinary([]byte{1, 2, 3}, "application/octet-stream"),
		ExtNumeric{Value: 1, Vendor: "v", Adapter: "a", Kind: "k"},
	}
}

func mustJson(raw string) Json {
	j, err := NewJson([]byte(raw))
	if err != nil {
		panic(err)
	}
	return j
}

func TestTypeIsStable(t *testing.T) {
	want := []Type{
		TypeUnit, TypeBool, TypeDuration, TypeTimeStamp, TypeTemperature,
		TypeString, TypeColor, TypeJson, TypeBinary, TypeExtNumeric,
	}
	for i, v := range allValues() {
		if v.Type() != want[i] {
			t.Errorf("value %v: Type() = %v, want %v", v, v.Type(), want[i])
		}
		if v.Type() != v.Type() {
			t.Errorf("value %v: Type() not deterministic", v)
		}
	}
}

func TestTypeOrdering(t *testing.T) {
	// The numeric tags give a stable total order over types.
	types := []Type{
		TypeUnit, TypeBool, TypeDuration, TypeTimeStamp, TypeTemperature,
		TypeString, TypeColor, TypeJson, TypeBinary, TypeExtNumeric,
	}
	for i := 1; i < len(types); i++ {
		if types[i-1] >= types[i] {
			t.Errorf("type order broken: %v >= %v", types[i-1], types[i])
		}
	}
}

func TestCrossTypeNeverComparable(t *testing.T) {
	values := allValues()
	for i, a := range values {
		for j, b := range values {
			if i == j {
				continue
			}
			if _, ok := Compare(a, b); ok {
				t.Errorf("Compare(%v, %v) = comparable, want incomparable", a, b)
			}
			if Equal(a, b) {
				t.Errorf("Equal(%v, %v) = true, want false", a, b)
			}
		}
	}
}

func TestCompareSameType(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Value
		cmp    int
		wantOK bool
	}{
		{"unit equal", Unit{}, Unit{}, 0, true},
		{"bool false < true", Bool(false), Bool(true), -1, true},
		{"bool equal", Bool(true), Bool(true), 0, true},
		{"duration", Duration(time.Second), Duration(2 * time.Second), -1, true},
		{
			"timestamp",
			NewTimeStamp(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
			NewTimeStamp(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)),
			-1, true,
		},
		{"temperature F32 equals C0", Fahrenheit(32), Celsius(0), 0, true},
		{"temperature across units", Celsius(100), Fahrenheit(100), 1, true},
		{"string lexicographic", String("abc"), String("abd"), -1, true},
		{"color lexicographic", RGBA(0, 0, 0, 0, 1), RGBA(0, 0, 0, 1, 0), -1, true},
		{"color equal", RGBA(1, 2, 3, 4, 5), RGBA(1, 2, 3, 4, 5), 0, true},
		{"json never ordered", mustJson(`1`), mustJson(`1`), 0, false},
		{
			"binary same mimetype",
			NewBinary([]byte{1}, "text/plain"),
			NewBinary([]byte{2}, "text/plain"),
			-1, true,
		},
		{
			"binary mimetype mismatch",
			NewBinary([]byte{1}, "text/plain"),
			NewBinary([]byte{1}, "image/png"),
			0, false,
		},
		{
			"extnumeric same vendor and kind",
			ExtNumeric{Value: 1, Vendor: "v", Kind: "k"},
			ExtNumeric{Value: 2, Vendor: "v", Kind: "k"},
			-1, true,
		},
		{
			"extnumeric kind mismatch",
			ExtNumeric{Value: 1, Vendor: "v", Kind: "k"},
			ExtNumeric{Value: 2, Vendor: "v", Kind: "other"},
			0, false,
		},
		{
			"extnumeric vendor mismatch",
			ExtNumeric{Value: 1, Vendor: "v", Kind: "k"},
			ExtNumeric{Value: 1, Vendor: "w", Kind: "k"},
			0, false,
		},
		{
			"extnumeric ignores adapter for ordering",
			ExtNumeric{Value: 1, Vendor: "v", Adapter: "one", Kind: "k"},
			ExtNumeric{Value: 1, Vendor: "v", Adapter: "two", Kind: "k"},
			0, true,
		},
		{"nan temperature", Celsius(math.NaN()), Celsius(0), 0, false},
		{"nan color", RGBA(math.NaN(), 0, 0, 0, 0), RGBA(0, 0, 0, 0, 0), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, ok := Compare(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("Compare(%v, %v) ok = %v, want %v", tt.a, tt.b, ok, tt.wantOK)
			}
			if ok && sign(cmp) != tt.cmp {
				t.Errorf("Compare(%v, %v) = %d, want sign %d", tt.a, tt.b, cmp, tt.cmp)
			}
		})
	}
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}

func TestEqualIsStructural(t *testing.T) {
	// Fahrenheit(32) and Celsius(0) order as equal but are different
	// representations, so Equal rejects them.
	if cmp, ok := Compare(Fahrenheit(32), Celsius(0)); !ok || cmp != 0 {
		t.Fatalf("Compare(F32, C0) = %d, %v, want 0, true", cmp, ok)
	}
	if Equal(Fahrenheit(32), Celsius(0)) {
		t.Error("Equal(F32, C0) = true, want false")
	}
	if !Equal(Fahrenheit(32), Fahrenheit(32)) {
		t.Error("Equal(F32, F32) = false, want true")
	}

	// Adapter takes part in structural equality even though ordering
	// ignores it.
	a := ExtNumeric{Value: 1, Vendor: "v", Adapter: "one", Kind: "k"}
	b := ExtNumeric{Value: 1, Vendor: "v", Adapter: "two", Kind: "k"}
	if Equal(a, b) {
		t.Error("Equal with different adapters = true, want false")
	}

	// Json equality compares the decoded documents.
	if !Equal(mustJson(`{"a":1,"b":2}`), mustJson(`{"b":2,"a":1}`)) {
		t.Error("Equal(json with reordered keys) = false, want true")
	}
	if Equal(mustJson(`{"a":1}`), mustJson(`{"a":2}`)) {
		t.Error("Equal(different json docs) = true, want false")
	}

	// Timestamps are equal on the same instant regardless of zone.
	utc := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("CET", 3600))
	if !Equal(NewTimeStamp(utc), NewTimeStamp(offset)) {
		t.Error("Equal(same instant, different zone) = false, want true")
	}
}

func TestTemperatureConversion(t *testing.T) {
	tests := []struct {
		temp  Temperature
		wantC float64
		wantF float64
	}{
		{Fahrenheit(32), 0, 32},
		{Celsius(0), 0, 32},
		{Celsius(100), 100, 212},
		{Fahrenheit(-40), -40, -40},
	}
	for _, tt := range tests {
		if got := tt.temp.AsCelsius(); got != tt.wantC {
			t.Errorf("%v AsCelsius() = %g, want %g", tt.temp, got, tt.wantC)
		}
		if got := tt.temp.AsFahrenheit(); got != tt.wantF {
			t.Errorf("%v AsFahrenheit() = %g, want %g", tt.temp, got, tt.wantF)
		}
	}
}

func TestBinaryImmutability(t *testing.T) {
	src := []byte{1, 2, 3}
	bin := NewBinary(src, "application/octet-stream")
	src[0] = 9
	if got := bin.Data(); got[0] != 1 {
		t.Errorf("Binary captured caller mutation: data[0] = %d, want 1", got[0])
	}

	out := bin.Data()
	out[1] = 9
	if got := bin.Data(); got[1] != 2 {
		t.Errorf("Binary exposed mutable aliasing: data[1] = %d, want 2", got[1])
	}
}

func TestNewJsonRejectsInvalid(t *testing.T) {
	if _, err := NewJson([]byte(`{"unterminated":`)); err == nil {
		t.Error("NewJson accepted invalid document")
	}
}
