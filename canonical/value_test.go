package canonical

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPhysicalType_Accessors(t *testing.T) {
	when := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	b, err := Bool(true).BoolValue()
	if err != nil || b != true {
		t.Fatalf("BoolValue: got (%v, %v)", b, err)
	}
	n, err := Int(-42).IntValue()
	if err != nil || n != -42 {
		t.Fatalf("IntValue: got (%v, %v)", n, err)
	}
	f, err := Float(2.5).FloatValue()
	if err != nil || f != 2.5 {
		t.Fatalf("FloatValue: got (%v, %v)", f, err)
	}
	s, err := String("hello").StringValue()
	if err != nil || s != "hello" {
		t.Fatalf("StringValue: got (%q, %v)", s, err)
	}
	m, err := Moment(when).MomentValue()
	if err != nil || !m.Equal(when) {
		t.Fatalf("MomentValue: got (%v, %v)", m, err)
	}
	raw, err := Binary([]byte{1, 2, 3}).BinaryValue()
	if err != nil || len(raw) != 3 {
		t.Fatalf("BinaryValue: got (%v, %v)", raw, err)
	}
	if err := None().NoneValue(); err != nil {
		t.Fatalf("NoneValue: %v", err)
	}
}

func TestPhysicalType_Mismatch(t *testing.T) {
	v := StringAs("x", "name", "first-name")

	_, err := v.IntValue()
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	var pte *PhysicalTypeError
	if !errors.As(err, &pte) {
		t.Fatalf("expected *PhysicalTypeError, got %T", err)
	}
	if pte.Requested != TypeInt || pte.Actual != TypeString {
		t.Errorf("wrong types in error: %+v", pte)
	}
	msg := err.Error()
	if !strings.Contains(msg, "int") || !strings.Contains(msg, "string") ||
		!strings.Contains(msg, "name.first-name") {
		t.Errorf("error message should name both types and the chain: %s", msg)
	}
}

func TestIsBaseOf(t *testing.T) {
	tests := []struct {
		name  string
		base  []string
		types []string
		want  bool
	}{
		{"reflexive", []string{"a", "b"}, []string{"a", "b"}, true},
		{"proper prefix", []string{"a"}, []string{"a", "b"}, true},
		{"empty base of anything", nil, []string{"a", "b"}, true},
		{"empty base of empty", nil, nil, true},
		{"nonempty base of empty", []string{"a"}, nil, false},
		{"longer than chain", []string{"a", "b", "c"}, []string{"a", "b"}, false},
		{"tail differs", []string{"a", "x"}, []string{"a", "b", "c"}, false},
		{"head differs", []string{"x", "b"}, []string{"a", "b", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBaseOf(tt.base, tt.types); got != tt.want {
				t.Errorf("IsBaseOf(%v, %v) = %v, want %v", tt.base, tt.types, got, tt.want)
			}
		})
	}
}

func TestIs_Transitivity(t *testing.T) {
	a := []string{"x", "y", "z"}
	b := []string{"x", "y"}
	c := []string{"x"}

	av := IntAs(1, a...)
	if !av.Is(b) || !IsBaseOf(c, b) || !av.Is(c) {
		t.Error("transitivity violated: a is b, b is c, but not a is c")
	}
}

func TestEqual(t *testing.T) {
	when := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		a, b Canonical
		want bool
	}{
		{"ints equal", Int(5), Int(5), true},
		{"ints differ", Int(5), Int(6), false},
		{"int vs float", Int(5), Float(5), false},
		{"strings equal", String("a"), String("a"), true},
		{"chain differs", IntAs(5, "count"), Int(5), false},
		{"chains equal", IntAs(5, "count"), IntAs(5, "count"), true},
		{"chain prefix is not equality", IntAs(5, "count", "page-count"), IntAs(5, "count"), false},
		{"moments equal", Moment(when), Moment(when), true},
		{"binary equal", Binary([]byte{1, 2}), Binary([]byte{1, 2}), true},
		{"binary differ", Binary([]byte{1, 2}), Binary([]byte{1, 3}), false},
		{"none equal", None(), None(), true},
		{
			"sequences ordered",
			FromSlice([]Canonical{Int(1), Int(2)}),
			FromSlice([]Canonical{Int(2), Int(1)}),
			false,
		},
		{
			"sequences equal",
			FromSlice([]Canonical{Int(1), Int(2)}),
			FromSlice([]Canonical{Int(1), Int(2)}),
			true,
		},
		{
			"sequence lengths differ",
			FromSlice([]Canonical{Int(1)}),
			FromSlice([]Canonical{Int(1), Int(2)}),
			false,
		},
		{
			"mappings unordered",
			FromEntries([]Entry{{"a", Int(1)}, {"b", Int(2)}}),
			FromEntries([]Entry{{"b", Int(2)}, {"a", Int(1)}}),
			true,
		},
		{
			"mapping values differ",
			FromEntries([]Entry{{"a", Int(1)}}),
			FromEntries([]Entry{{"a", Int(2)}}),
			false,
		},
		{
			"mapping sizes differ",
			FromEntries([]Entry{{"a", Int(1)}}),
			FromEntries([]Entry{{"a", Int(1)}, {"b", Int(2)}}),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.a.Equals(tt.b); got != tt.want {
				t.Errorf("Equals = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapping_RandomAccess(t *testing.T) {
	m := FromMap(map[string]Canonical{
		"x": Int(1),
		"y": String("two"),
	}, "point")

	v, err := m.MappingValue("x")
	if err != nil {
		t.Fatalf("MappingValue: %v", err)
	}
	if n, _ := v.IntValue(); n != 1 {
		t.Errorf("x = %d, want 1", n)
	}

	missing, err := m.MappingValue("z")
	if err != nil || missing != nil {
		t.Errorf("missing key should yield (nil, nil), got (%v, %v)", missing, err)
	}

	if n, known := m.Size(); !known || n != 2 {
		t.Errorf("Size = (%d, %v), want (2, true)", n, known)
	}
}

func TestSequence_RandomAccess(t *testing.T) {
	seq := FromSlice([]Canonical{Int(10), Int(20)})

	v, err := seq.SequenceItem(1)
	if err != nil {
		t.Fatalf("SequenceItem: %v", err)
	}
	if n, _ := v.IntValue(); n != 20 {
		t.Errorf("item 1 = %d, want 20", n)
	}

	if _, err := seq.SequenceItem(2); err == nil {
		t.Error("out-of-bounds index should fail")
	}
	if _, err := seq.SequenceItem(-1); err == nil {
		t.Error("negative index should fail")
	}
}

func TestFromEntries_DuplicateKeysKeepLast(t *testing.T) {
	m := FromEntries([]Entry{{"a", Int(1)}, {"a", Int(2)}})
	if n, known := m.Size(); !known || n != 1 {
		t.Fatalf("Size = (%d, %v), want (1, true)", n, known)
	}
	v, _ := m.MappingValue("a")
	if n, _ := v.IntValue(); n != 2 {
		t.Errorf("a = %d, want 2 (last entry wins)", n)
	}
}

func TestWithTypes(t *testing.T) {
	base := String("Jantje")
	typed := WithTypes(base, "name", "first-name")

	if got := typed.LogicalTypes(); len(got) != 2 || got[0] != "name" || got[1] != "first-name" {
		t.Fatalf("LogicalTypes = %v", got)
	}
	if s, err := typed.StringValue(); err != nil || s != "Jantje" {
		t.Errorf("payload lost: %q, %v", s, err)
	}
	if !typed.Is([]string{"name"}) {
		t.Error("Is(name) = false")
	}
	if typed.Is([]string{"address"}) {
		t.Error("Is(address) = true")
	}
	// The original is untouched.
	if len(base.LogicalTypes()) != 0 {
		t.Errorf("base chain mutated: %v", base.LogicalTypes())
	}
	if !Equal(typed, StringAs("Jantje", "name", "first-name")) {
		t.Error("retyped view not equal to an equivalent materialized value")
	}
	if Equal(typed, base) {
		t.Error("retyped view equal to the untyped original")
	}
}
