package value

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDurationRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		d    Duration
		want string
	}{
		{"1500ms", Duration(1500 * time.Millisecond), "1500"},
		{"zero", Duration(0), "0"},
		{"one hour", Duration(time.Hour), "3600000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.d)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.want {
				t.Fatalf("Marshal = %s, want %s", data, tt.want)
			}

			var back Duration
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if back != tt.d {
				t.Errorf("round trip = %v, want %v", back, tt.d)
			}
		})
	}
}

func TestDurationEncodeTruncatesToMilliseconds(t *testing.T) {
	d := Duration(1500*time.Millisecond + 400*time.Microsecond)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "1500" {
		t.Errorf("Marshal = %s, want 1500", data)
	}
}

func TestDurationDecodeFractionalMilliseconds(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte("1500.5"), &d); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := Duration(1500*time.Millisecond + 500*time.Microsecond)
	if d != want {
		t.Errorf("Unmarshal(1500.5) = %v, want %v", d, want)
	}
}

func TestDurationDecodeRejectsNonNumbers(t *testing.T) {
	for _, bad := range []string{`"1500"`, `true`, `{}`, `[1500]`} {
		var d Duration
		err := json.Unmarshal([]byte(bad), &d)
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("Unmarshal(%s) error = %v, want ErrSyntax", bad, err)
		}
	}
}

func TestTimeStampRoundTrip(t *testing.T) {
	ts := NewTimeStamp(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2020-01-01T00:00:00Z"` {
		t.Fatalf("Marshal = %s, want \"2020-01-01T00:00:00Z\"", data)
	}

	var back TimeStamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !back.Time().Equal(ts.Time()) {
		t.Errorf("round trip = %v, want %v", back, ts)
	}
}

func TestTimeStampDecodeNormalizesToUTC(t *testing.T) {
	var ts TimeStamp
	if err := json.Unmarshal([]byte(`"2020-06-01T14:30:00+02:00"`), &ts); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := time.Date(2020, 6, 1, 12, 30, 0, 0, time.UTC)
	if !ts.Time().Equal(want) {
		t.Errorf("instant = %v, want %v", ts.Time(), want)
	}
	if ts.Time().Location() != time.UTC {
		t.Errorf("location = %v, want UTC", ts.Time().Location())
	}
}

func TestTimeStampDecodeRejectsBadDates(t *testing.T) {
	for _, bad := range []string{`"not-a-date"`, `"2020-13-01T00:00:00Z"`, `1577836800`, `""`} {
		var ts TimeStamp
		err := json.Unmarshal([]byte(bad), &ts)
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("Unmarshal(%s) error = %v, want ErrSyntax", bad, err)
		}
	}
}
