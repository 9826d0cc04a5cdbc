package dumps_test

import (
	"testing"

	"github.com/kootenpv/dumps"
)

func TestParseBytesMode(t *testing.T) {
	cases := map[string]dumps.BytesMode{
		"reject": dumps.BytesReject,
		"raise":  dumps.BytesReject,
		"UTF-8":  dumps.BytesUTF8,
		"utf8":   dumps.BytesUTF8,
		"b64":    dumps.BytesBase64,
		"base64": dumps.BytesBase64,
	}
	for in, want := range cases {
		got, ok := dumps.ParseBytesMode(in)
		if !ok || got != want {
			t.Fatalf("%q: got %v %v want %v", in, got, ok, want)
		}
	}
	if _, ok := dumps.ParseBytesMode("hex"); ok {
		t.Fatalf("hex should not parse")
	}
}

func TestParseDatetimeMode(t *testing.T) {
	for _, in := range []string{"reject", "raise", "RAISE"} {
		m, ok := dumps.ParseDatetimeMode(in)
		if !ok || m.String() != "reject" {
			t.Fatalf("%q: got %v %v", in, m, ok)
		}
	}
	if m, ok := dumps.ParseDatetimeMode("iso"); !ok || m.String() != "iso8601" {
		t.Fatalf("iso: got %v %v", m, ok)
	}
	m, ok := dumps.ParseDatetimeMode("%-d.%-m.%Y")
	if p, isPattern := m.Pattern(); !ok || !isPattern || p != "%-d.%-m.%Y" {
		t.Fatalf("pattern: got %v %v", m, ok)
	}
	if _, ok := dumps.ParseDatetimeMode("epoch"); ok {
		t.Fatalf("epoch should not parse")
	}
}
