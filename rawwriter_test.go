package ical

import (
	"bytes"
	"strings"
	"testing"
)

func TestRawWriterExactLimitNoFold(t *testing.T) {
	// 75 octets total must stay on one physical line (no continuation).
	value := strings.Repeat("x", 75-len("X:"))
	var buf bytes.Buffer
	rw := NewRawWriter(&buf, DefaultRawWriterOptions())
	if err := rw.WriteProperty("X", nil, value); err != nil {
		t.Fatalf("WriteProperty: %v", err)
	}
	want := "X:" + value + "\r\n"
	if buf.String() != want {
		t.Fatalf("got %d bytes, want %d bytes with no continuation", buf.Len(), len(want))
	}

	// One octet over the limit must fold exactly once.
	buf.Reset()
	if err := rw.WriteProperty("X", nil, value+"y"); err != nil {
		t.Fatalf("WriteProperty: %v", err)
	}
	if n := strings.Count(buf.String(), "\r\n"); n != 2 {
		t.Fatalf("expected exactly one continuation (2 CRLFs), got %d", n)
	}
}

func TestRawWriterQuotingAndDecodeRoundTrip(t *testing.T) {
	params := NewParameters()
	params.Set("X-ADDR", "a;b:c,d\"e\nf")

	var buf bytes.Buffer
	rw := NewRawWriter(&buf, DefaultRawWriterOptions())
	if err := rw.WriteProperty("GEO", params, "40.0;80.0"); err != nil {
		t.Fatalf("WriteProperty: %v", err)
	}

	fr := NewFoldReader(&buf)
	unfolded, err := fr.NextLine()
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}

	parsed, ok := parseContentLine(unfolded, true)
	if !ok {
		t.Fatalf("parseContentLine failed on %q", unfolded)
	}
	got, ok := parsed.params.Get("X-ADDR")
	if !ok || len(got) != 1 || got[0] != "a;b:c,d\"e\nf" {
		t.Fatalf("round trip mismatch: got %q", got)
	}
	if parsed.value != "40.0;80.0" {
		t.Fatalf("value round trip mismatch: got %q", parsed.value)
	}
}

func TestRawWriterValuelessParameterRoundTrip(t *testing.T) {
	params := NewParameters()
	params.Set("BOGUS")

	var buf bytes.Buffer
	rw := NewRawWriter(&buf, DefaultRawWriterOptions())
	if err := rw.WriteProperty("X-FOO", params, "val"); err != nil {
		t.Fatalf("WriteProperty: %v", err)
	}
	if buf.String() != "X-FOO;BOGUS:val\r\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestEncodeParamValueCircumflexDisabled(t *testing.T) {
	got := encodeParamValue("a^b\"c", false)
	want := `"a^b\"c"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeParamValueCircumflexEnabled(t *testing.T) {
	got := encodeParamValue("a^b\"c", true)
	want := `"a^^b^'c"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNeedsQuoting(t *testing.T) {
	cases := map[string]bool{
		"plain":   false,
		"a;b":     true,
		"a:b":     true,
		"a,b":     true,
		"a b":     true,
		"a\tb":    true,
		"nospace": false,
	}
	for v, want := range cases {
		if got := needsQuoting(v); got != want {
			t.Errorf("needsQuoting(%q) = %v, want %v", v, got, want)
		}
	}
}
