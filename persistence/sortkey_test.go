package persistence

import (
	"bytes"
	"sort"
	"testing"
)

func TestEncodeKeyOrdering(t *testing.T) {
	// Component-wise order of the keys, as listed.
	keys := []Key{
		{},
		{""},
		{"", "a"},
		{"a"},
		{"a", "a"},
		{"a", "b"},
		{"a\x00b"},
		{"a\x01b"},
		{"ab"},
		{"b"},
	}
	encoded := make([][]byte, len(keys))
	for i, k := range keys {
		encoded[i] = EncodeKey(k)
	}
	if !sort.SliceIsSorted(encoded, func(i, j int) bool {
		return bytes.Compare(encoded[i], encoded[j]) < 0
	}) {
		for i, e := range encoded {
			t.Logf("%v -> %x", keys[i], e)
		}
		t.Fatal("encoded keys are not in component-wise order")
	}
}

func TestKeyRoundTrip(t *testing.T) {
	tests := []Key{
		{"users", "42", "profile"},
		{"with\x00separator"},
		{"with\x01escape"},
		{"\x00", "\x01", "\x00\x01\x00"},
		{""},
		{"", ""},
	}
	for _, k := range tests {
		got, err := DecodeKey(EncodeKey(k))
		if err != nil {
			t.Errorf("round trip of %v: %v", k, err)
			continue
		}
		if len(got) != len(k) {
			t.Errorf("round trip of %v = %v", k, got)
			continue
		}
		for i := range k {
			if got[i] != k[i] {
				t.Errorf("round trip of %v = %v", k, got)
			}
		}
	}
}

func TestEncodeKeyInjective(t *testing.T) {
	// A single empty component and the empty key are distinct keys and
	// must stay distinct records.
	empty := EncodeKey(Key{})
	oneEmpty := EncodeKey(Key{""})
	if bytes.Equal(empty, oneEmpty) {
		t.Fatalf("Key{} and Key{\"\"} share the encoding %x", empty)
	}
	got, err := DecodeKey(oneEmpty)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0] != "" {
		t.Fatalf("DecodeKey(EncodeKey(Key{\"\"})) = %v, want a 1-component key", got)
	}
	got, err = DecodeKey(empty)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("DecodeKey(EncodeKey(Key{})) = %v, want the empty key", got)
	}
}

func TestDecodeKeyMalformed(t *testing.T) {
	if _, err := DecodeKey([]byte{'a', 0x01}); err == nil {
		t.Error("truncated escape: want error")
	}
	if _, err := DecodeKey([]byte{0x01, 0x07, 0x00}); err == nil {
		t.Error("invalid escape: want error")
	}
	if _, err := DecodeKey([]byte{'a'}); err == nil {
		t.Error("unterminated component: want error")
	}
}

func TestPrefixRange(t *testing.T) {
	lower, upper := PrefixRange(Key{"a"})

	in := [][]byte{EncodeKey(Key{"a"}), EncodeKey(Key{"a", "b"}), EncodeKey(Key{"a", "b", "c"})}
	for _, e := range in {
		if bytes.Compare(e, lower) < 0 || bytes.Compare(e, upper) >= 0 {
			t.Errorf("%x should be inside the range of prefix [a]", e)
		}
	}
	out := [][]byte{EncodeKey(Key{"ab"}), EncodeKey(Key{"b"}), EncodeKey(Key{"a\x00"}), EncodeKey(Key{})}
	for _, e := range out {
		if bytes.Compare(e, lower) >= 0 && (upper == nil || bytes.Compare(e, upper) < 0) {
			t.Errorf("%x should be outside the range of prefix [a]", e)
		}
	}

	if lower, upper := PrefixRange(Key{}); lower != nil || upper != nil {
		t.Error("empty prefix must yield an unbounded range")
	}
}

func TestKeyChild(t *testing.T) {
	base := Key{"users"}
	child := base.Child("42", "profile")
	if len(child) != 3 || child[2] != "profile" {
		t.Fatalf("child = %v", child)
	}
	if len(base) != 1 {
		t.Fatalf("base mutated: %v", base)
	}
}
