package ical

import (
	"testing"
	"time"
)

func TestParseFormatDateTime(t *testing.T) {
	tests := []struct {
		in      string
		hasTime bool
	}{
		{"20230615", false},
		{"20230615T143000", true},
		{"20230615T143000Z", true},
	}
	for _, tc := range tests {
		d, err := ParseDateTime(tc.in)
		if err != nil {
			t.Fatalf("ParseDateTime(%q): %v", tc.in, err)
		}
		if d.HasTime != tc.hasTime {
			t.Errorf("ParseDateTime(%q).HasTime = %v, want %v", tc.in, d.HasTime, tc.hasTime)
		}
		if got := FormatDateTime(d); got != tc.in {
			t.Errorf("FormatDateTime(ParseDateTime(%q)) = %q", tc.in, got)
		}
	}
}

func TestParseDateTimeInvalid(t *testing.T) {
	for _, s := range []string{"", "2023", "20230615T1430", "20230615T143000X"} {
		if _, err := ParseDateTime(s); err == nil {
			t.Errorf("ParseDateTime(%q) expected an error", s)
		}
	}
}

func TestDateTimeBeforeAfter(t *testing.T) {
	a := DateTimeValue{Time: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), HasTime: true}
	b := DateTimeValue{Time: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), HasTime: true}
	if !a.Before(b) || a.After(b) {
		t.Fatalf("expected a before b")
	}
	if !b.After(a) || b.Before(a) {
		t.Fatalf("expected b after a")
	}
}

func TestParseFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"P1W", 7 * 24 * time.Hour},
		{"P1D", 24 * time.Hour},
		{"PT1H", time.Hour},
		{"PT30M", 30 * time.Minute},
		{"PT15S", 15 * time.Second},
		{"P1DT1H30M", 24*time.Hour + time.Hour + 30*time.Minute},
		{"-PT1H", -time.Hour},
	}
	for _, tc := range tests {
		d, err := ParseDuration(tc.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", tc.in, err)
		}
		if d != tc.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tc.in, d, tc.want)
		}
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, s := range []string{"", "1H", "PT", "PX1H"} {
		if _, err := ParseDuration(s); err == nil {
			t.Errorf("ParseDuration(%q) expected an error", s)
		}
	}
}

func TestFormatDurationRoundTrip(t *testing.T) {
	d := 25*time.Hour + 30*time.Minute + 5*time.Second
	s := FormatDuration(d)
	got, err := ParseDuration(s)
	if err != nil {
		t.Fatalf("ParseDuration(%q): %v", s, err)
	}
	if got != d {
		t.Fatalf("round trip mismatch: %v != %v (via %q)", got, d, s)
	}
}

func TestParseFormatGeo(t *testing.T) {
	g, err := ParseGeo("37.386013;-122.082932")
	if err != nil {
		t.Fatalf("ParseGeo: %v", err)
	}
	if g.Lat != 37.386013 || g.Long != -122.082932 {
		t.Fatalf("got %+v", g)
	}
	if got := FormatGeo(g); got != "37.386013;-122.082932" {
		t.Errorf("FormatGeo = %q", got)
	}
}

func TestParseGeoInvalid(t *testing.T) {
	for _, s := range []string{"37.386013", "abc;123", "1;2;3"} {
		if _, err := ParseGeo(s); err == nil {
			t.Errorf("ParseGeo(%q) expected an error", s)
		}
	}
}

func TestParseFormatRecur(t *testing.T) {
	r, err := ParseRecur("FREQ=WEEKLY;BYDAY=MO,WE,FR;COUNT=10")
	if err != nil {
		t.Fatalf("ParseRecur: %v", err)
	}
	if v, ok := r.Get("freq"); !ok || len(v) != 1 || v[0] != "WEEKLY" {
		t.Errorf("FREQ = %v, ok=%v", v, ok)
	}
	if v, ok := r.Get("BYDAY"); !ok || len(v) != 3 || v[1] != "WE" {
		t.Errorf("BYDAY = %v, ok=%v", v, ok)
	}
	if _, ok := r.Get("BYHOUR"); ok {
		t.Errorf("BYHOUR should be absent")
	}
	if got := FormatRecur(r); got != "FREQ=WEEKLY;BYDAY=MO,WE,FR;COUNT=10" {
		t.Errorf("FormatRecur round trip = %q", got)
	}
}

func TestParseRecurInvalid(t *testing.T) {
	if _, err := ParseRecur("FREQ"); err == nil {
		t.Errorf("expected an error for a token with no '='")
	}
}
