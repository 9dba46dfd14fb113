package canonical

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTaggedJSON_RoundTrip(t *testing.T) {
	when := time.Date(2026, 5, 17, 12, 0, 0, 0, time.UTC)

	values := []struct {
		name string
		v    Canonical
	}{
		{"none", None()},
		{"typed none", NoneAs("nothing")},
		{"bool", BoolAs(true, "flag")},
		{"int", IntAs(-1234, "count")},
		{"float", FloatAs(3.14159, "ratio")},
		{"float scientific", Float(1.5e-10)},
		{"string", StringAs("Jantje", "name", "first-name")},
		{"string with annotation lookalike", String("weird (x s) literal")},
		{"empty string", String("")},
		{"moment", MomentAs(when, "timestamp")},
		{"binary", BinaryAs([]byte{0, 1, 2, 255}, "blob")},
		{"empty binary", Binary(nil)},
		{"sequence", FromSlice([]Canonical{Int(1), String("two")}, "things")},
		{"empty sequence", FromSlice(nil, "things")},
		{
			"mapping",
			FromEntries([]Entry{
				{"first-name", StringAs("Jantje", "name", "first-name")},
				{"age", IntAs(12, "age")},
			}, "person"),
		},
		{"empty mapping", FromMap(nil)},
		{
			"nested",
			FromEntries([]Entry{
				{"rows", FromSlice([]Canonical{
					FromEntries([]Entry{{"ok", Bool(false)}}),
				})},
			}, "report"),
		},
	}

	for _, tt := range values {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeTagged(tt.v)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			back, err := DecodeTagged(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if back.PhysicalType() != tt.v.PhysicalType() {
				t.Errorf("physical type: got %s, want %s", back.PhysicalType(), tt.v.PhysicalType())
			}
			if !SameChain(back.LogicalTypes(), tt.v.LogicalTypes()) {
				t.Errorf("logical types: got %v, want %v", back.LogicalTypes(), tt.v.LogicalTypes())
			}
			if !Equal(back, tt.v) {
				t.Errorf("round trip not value-equal: %s", data)
			}
		})
	}
}

func TestTaggedJSON_LeafFormat(t *testing.T) {
	data, err := EncodeTagged(StringAs("Jantje", "name", "first-name"))
	if err != nil {
		t.Fatal(err)
	}
	var leaf string
	if err := json.Unmarshal(data, &leaf); err != nil {
		t.Fatal(err)
	}
	if leaf != "Jantje (name.first-name s)" {
		t.Errorf("leaf = %q", leaf)
	}

	data, err = EncodeTagged(Int(7))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &leaf); err != nil {
		t.Fatal(err)
	}
	if leaf != "7 (- i)" {
		t.Errorf("untyped leaf = %q", leaf)
	}
}

func TestTaggedJSON_MappingShape(t *testing.T) {
	m := FromEntries([]Entry{{"a", Int(1)}}, "thing")
	data, err := EncodeTagged(m)
	if err != nil {
		t.Fatal(err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatal(err)
	}
	if obj["type"] != "thing" {
		t.Errorf(`type key = %v, want "thing"`, obj["type"])
	}
	if _, ok := obj[":a"]; !ok {
		t.Errorf("mapping keys must be prefixed with ':': %v", obj)
	}
}

func TestTaggedJSON_SequenceShape(t *testing.T) {
	data, err := EncodeTagged(FromSlice([]Canonical{Int(1)}, "nums"))
	if err != nil {
		t.Fatal(err)
	}
	var arr []any
	if err := json.Unmarshal(data, &arr); err != nil {
		t.Fatal(err)
	}
	if len(arr) != 2 || arr[0] != "nums" {
		t.Errorf("sequence header: %v", arr)
	}
}

func TestTaggedJSON_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"bare number", `42`},
		{"bare bool", `true`},
		{"leaf without annotation", `"hello"`},
		{"leaf without closing paren", `"hello (x s"`},
		{"leaf with unknown tag", `"hello (x q)"`},
		{"leaf with multi-char tag", `"hello (x ss)"`},
		{"bad int literal", `"abc (- i)"`},
		{"bad float literal", `"abc (- f)"`},
		{"bad bool literal", `"yes (- b)"`},
		{"bad moment literal", `"abc (- m)"`},
		{"bad base64", `"!!! (- 6)"`},
		{"none with literal", `"x (- -)"`},
		{"empty chain header", `"x ( s)"`},
		{"chain with empty component", `"x (a..b s)"`},
		{"sequence missing header", `[]`},
		{"sequence non-string header", `[42]`},
		{"mapping missing type key", `{":a": "1 (- i)"}`},
		{"mapping unprefixed key", `{"type": "-", "a": "1 (- i)"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTagged([]byte(tt.input))
			if err == nil {
				t.Fatalf("expected error for %s", tt.input)
			}
			if !strings.Contains(err.Error(), "malformed encoding") {
				t.Errorf("expected EncodingError, got: %v", err)
			}
		})
	}
}

func TestTaggedJSON_MomentMillisecondPrecision(t *testing.T) {
	when := time.Date(2026, 5, 17, 12, 0, 0, 123_000_000, time.UTC)
	data, err := EncodeTagged(Moment(when))
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeTagged(data)
	if err != nil {
		t.Fatal(err)
	}
	got, err := back.MomentValue()
	if err != nil {
		t.Fatal(err)
	}
	if got.UnixMilli() != when.UnixMilli() {
		t.Errorf("moment = %v, want %v", got, when)
	}
}
