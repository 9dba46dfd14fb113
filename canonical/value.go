package canonical

import (
	"fmt"
	"sort"
	"time"
)

// value is the materialized canonical implementation. Exactly one payload
// slot is valid based on typ. Values are immutable after construction.
type value struct {
	typ   PhysicalType
	types []string

	boolVal   bool
	intVal    int64
	floatVal  float64
	strVal    string
	binVal    []byte
	momentVal time.Time

	items   []Canonical
	entries []Entry
	index   map[string]int
}

// ============================================================
// Constructors
// ============================================================

// None creates an untyped none value.
func None() Canonical {
	return NoneAs()
}

// NoneAs creates a none value with a logical type chain.
func NoneAs(types ...string) Canonical {
	return &value{typ: TypeNone, types: types}
}

// Bool creates an untyped boolean value.
func Bool(v bool) Canonical {
	return BoolAs(v)
}

// BoolAs creates a boolean value with a logical type chain.
func BoolAs(v bool, types ...string) Canonical {
	return &value{typ: TypeBool, types: types, boolVal: v}
}

// Int creates an untyped integer value.
func Int(v int64) Canonical {
	return IntAs(v)
}

// IntAs creates an integer value with a logical type chain.
func IntAs(v int64, types ...string) Canonical {
	return &value{typ: TypeInt, types: types, intVal: v}
}

// Float creates an untyped float value.
func Float(v float64) Canonical {
	return FloatAs(v)
}

// FloatAs creates a float value with a logical type chain.
func FloatAs(v float64, types ...string) Canonical {
	return &value{typ: TypeFloat, types: types, floatVal: v}
}

// String creates an untyped string value.
func String(v string) Canonical {
	return StringAs(v)
}

// StringAs creates a string value with a logical type chain.
func StringAs(v string, types ...string) Canonical {
	return &value{typ: TypeString, types: types, strVal: v}
}

// Moment creates an untyped moment (timestamp) value. Moments carry
// millisecond precision on the wire.
func Moment(v time.Time) Canonical {
	return MomentAs(v)
}

// MomentAs creates a moment value with a logical type chain.
func MomentAs(v time.Time, types ...string) Canonical {
	return &value{typ: TypeMoment, types: types, momentVal: v}
}

// Binary creates an untyped binary value. The byte slice is not copied;
// callers must not mutate it afterwards.
func Binary(v []byte) Canonical {
	return BinaryAs(v)
}

// BinaryAs creates a binary value with a logical type chain.
func BinaryAs(v []byte, types ...string) Canonical {
	return &value{typ: TypeBinary, types: types, binVal: v}
}

// FromSlice creates a sequence value backed by a slice. The backing source
// is materialized: cursors restart and random access is O(1).
func FromSlice(items []Canonical, types ...string) Canonical {
	return &value{typ: TypeSequence, types: types, items: items}
}

// FromEntries creates a mapping value that iterates in the given entry
// order. Duplicate keys keep the last entry.
func FromEntries(entries []Entry, types ...string) Canonical {
	index := make(map[string]int, len(entries))
	deduped := entries[:0:0]
	for _, e := range entries {
		if i, ok := index[e.Key]; ok {
			deduped[i].Value = e.Value
			continue
		}
		index[e.Key] = len(deduped)
		deduped = append(deduped, e)
	}
	return &value{typ: TypeMapping, types: types, entries: deduped, index: index}
}

// FromMap creates a mapping value from a native map. Entry order is not
// significant for mappings; iteration runs in sorted key order so the
// result is deterministic.
func FromMap(m map[string]Canonical, types ...string) Canonical {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]Entry, 0, len(m))
	index := make(map[string]int, len(m))
	for _, k := range keys {
		index[k] = len(entries)
		entries = append(entries, Entry{Key: k, Value: m[k]})
	}
	return &value{typ: TypeMapping, types: types, entries: entries, index: index}
}

// WithTypes returns a view of c carrying the given logical type chain
// instead of its own. The payload is shared, not copied.
func WithTypes(c Canonical, types ...string) Canonical {
	return &retyped{Canonical: c, types: types}
}

type retyped struct {
	Canonical
	types []string
}

func (r *retyped) LogicalTypes() []string { return r.types }

func (r *retyped) Is(base []string) bool { return IsBaseOf(base, r.types) }

func (r *retyped) Equals(other Canonical) bool { return Equal(r, other) }

// ============================================================
// Accessors
// ============================================================

func (v *value) PhysicalType() PhysicalType { return v.typ }

func (v *value) LogicalTypes() []string { return v.types }

func (v *value) NoneValue() error {
	if v.typ != TypeNone {
		return mismatch(TypeNone, v)
	}
	return nil
}

func (v *value) BoolValue() (bool, error) {
	if v.typ != TypeBool {
		return false, mismatch(TypeBool, v)
	}
	return v.boolVal, nil
}

func (v *value) IntValue() (int64, error) {
	if v.typ != TypeInt {
		return 0, mismatch(TypeInt, v)
	}
	return v.intVal, nil
}

func (v *value) FloatValue() (float64, error) {
	if v.typ != TypeFloat {
		return 0, mismatch(TypeFloat, v)
	}
	return v.floatVal, nil
}

func (v *value) StringValue() (string, error) {
	if v.typ != TypeString {
		return "", mismatch(TypeString, v)
	}
	return v.strVal, nil
}

func (v *value) MomentValue() (time.Time, error) {
	if v.typ != TypeMoment {
		return time.Time{}, mismatch(TypeMoment, v)
	}
	return v.momentVal, nil
}

func (v *value) BinaryValue() ([]byte, error) {
	if v.typ != TypeBinary {
		return nil, mismatch(TypeBinary, v)
	}
	return v.binVal, nil
}

func (v *value) FirstSequenceItem() (SequenceItem, error) {
	if v.typ != TypeSequence {
		return nil, mismatch(TypeSequence, v)
	}
	if len(v.items) == 0 {
		return nil, nil
	}
	return &sliceItem{items: v.items}, nil
}

func (v *value) FirstMappingEntry() (MappingEntry, error) {
	if v.typ != TypeMapping {
		return nil, mismatch(TypeMapping, v)
	}
	if len(v.entries) == 0 {
		return nil, nil
	}
	return &entryCursor{entries: v.entries}, nil
}

func (v *value) SequenceItem(i int) (Canonical, error) {
	if v.typ != TypeSequence {
		return nil, mismatch(TypeSequence, v)
	}
	if i < 0 || i >= len(v.items) {
		return nil, fmt.Errorf("canonical: sequence index %d out of bounds (size %d)", i, len(v.items))
	}
	return v.items[i], nil
}

func (v *value) MappingValue(key string) (Canonical, error) {
	if v.typ != TypeMapping {
		return nil, mismatch(TypeMapping, v)
	}
	i, ok := v.index[key]
	if !ok {
		return nil, nil
	}
	return v.entries[i].Value, nil
}

func (v *value) Size() (int, bool) {
	switch v.typ {
	case TypeSequence:
		return len(v.items), true
	case TypeMapping:
		return len(v.entries), true
	default:
		return 0, false
	}
}

func (v *value) Is(base []string) bool {
	return IsBaseOf(base, v.types)
}

func (v *value) Equals(other Canonical) bool {
	return Equal(v, other)
}
