package canonical

import (
	"fmt"
	"time"
)

// ============================================================
// Materialized cursors
// ============================================================

type sliceItem struct {
	items []Canonical
	pos   int
}

func (it *sliceItem) Value() Canonical { return it.items[it.pos] }

func (it *sliceItem) Next() SequenceItem {
	if it.pos+1 >= len(it.items) {
		return nil
	}
	return &sliceItem{items: it.items, pos: it.pos + 1}
}

type entryCursor struct {
	entries []Entry
	pos     int
}

func (it *entryCursor) Key() string      { return it.entries[it.pos].Key }
func (it *entryCursor) Value() Canonical { return it.entries[it.pos].Value }

func (it *entryCursor) Next() MappingEntry {
	if it.pos+1 >= len(it.entries) {
		return nil
	}
	return &entryCursor{entries: it.entries, pos: it.pos + 1}
}

// ============================================================
// Generator-backed sequence
// ============================================================

// streamSequence wraps a one-shot generator. The source is not restartable:
// only the first FirstSequenceItem call succeeds, Size is unknown, and
// random access is not supported.
type streamSequence struct {
	types    []string
	next     func() (Canonical, bool)
	consumed bool
}

// FromSequenceFunc creates a sequence canonical over a pull generator. The
// generator returns (item, true) per element and (_, false) at the end.
// The resulting canonical is single-pass.
func FromSequenceFunc(next func() (Canonical, bool), types ...string) Canonical {
	return &streamSequence{types: types, next: next}
}

func (v *streamSequence) PhysicalType() PhysicalType { return TypeSequence }
func (v *streamSequence) LogicalTypes() []string     { return v.types }

func (v *streamSequence) NoneValue() error { return mismatch(TypeNone, v) }
func (v *streamSequence) BoolValue() (bool, error) {
	return false, mismatch(TypeBool, v)
}
func (v *streamSequence) IntValue() (int64, error) {
	return 0, mismatch(TypeInt, v)
}
func (v *streamSequence) FloatValue() (float64, error) {
	return 0, mismatch(TypeFloat, v)
}
func (v *streamSequence) StringValue() (string, error) {
	return "", mismatch(TypeString, v)
}
func (v *streamSequence) MomentValue() (time.Time, error) {
	return time.Time{}, mismatch(TypeMoment, v)
}
func (v *streamSequence) BinaryValue() ([]byte, error) {
	return nil, mismatch(TypeBinary, v)
}

func (v *streamSequence) FirstSequenceItem() (SequenceItem, error) {
	if v.consumed {
		return nil, fmt.Errorf("canonical: generator-backed sequence already consumed; source is not restartable")
	}
	v.consumed = true
	first, ok := v.next()
	if !ok {
		return nil, nil
	}
	return &streamItem{value: first, next: v.next}, nil
}

func (v *streamSequence) FirstMappingEntry() (MappingEntry, error) {
	return nil, mismatch(TypeMapping, v)
}

func (v *streamSequence) SequenceItem(i int) (Canonical, error) {
	return nil, fmt.Errorf("canonical: generator-backed sequence does not support random access")
}

func (v *streamSequence) MappingValue(key string) (Canonical, error) {
	return nil, mismatch(TypeMapping, v)
}

func (v *streamSequence) Size() (int, bool) { return 0, false }

func (v *streamSequence) Is(base []string) bool { return IsBaseOf(base, v.types) }

func (v *streamSequence) Equals(other Canonical) bool { return Equal(v, other) }

type streamItem struct {
	value Canonical
	next  func() (Canonical, bool)
}

func (it *streamItem) Value() Canonical { return it.value }

func (it *streamItem) Next() SequenceItem {
	v, ok := it.next()
	if !ok {
		return nil
	}
	return &streamItem{value: v, next: it.next}
}

// ============================================================
// Generator-backed mapping
// ============================================================

// streamMapping wraps a one-shot entry generator with the same single-pass
// semantics as streamSequence.
type streamMapping struct {
	types    []string
	next     func() (string, Canonical, bool)
	consumed bool
}

// FromMappingFunc creates a mapping canonical over a pull generator. The
// resulting canonical is single-pass and does not support keyed lookup.
func FromMappingFunc(next func() (string, Canonical, bool), types ...string) Canonical {
	return &streamMapping{types: types, next: next}
}

func (v *streamMapping) PhysicalType() PhysicalType { return TypeMapping }
func (v *streamMapping) LogicalTypes() []string     { return v.types }

func (v *streamMapping) NoneValue() error { return mismatch(TypeNone, v) }
func (v *streamMapping) BoolValue() (bool, error) {
	return false, mismatch(TypeBool, v)
}
func (v *streamMapping) IntValue() (int64, error) {
	return 0, mismatch(TypeInt, v)
}
func (v *streamMapping) FloatValue() (float64, error) {
	return 0, mismatch(TypeFloat, v)
}
func (v *streamMapping) StringValue() (string, error) {
	return "", mismatch(TypeString, v)
}
func (v *streamMapping) MomentValue() (time.Time, error) {
	return time.Time{}, mismatch(TypeMoment, v)
}
func (v *streamMapping) BinaryValue() ([]byte, error) {
	return nil, mismatch(TypeBinary, v)
}

func (v *streamMapping) FirstSequenceItem() (SequenceItem, error) {
	return nil, mismatch(TypeSequence, v)
}

func (v *streamMapping) FirstMappingEntry() (MappingEntry, error) {
	if v.consumed {
		return nil, fmt.Errorf("canonical: generator-backed mapping already consumed; source is not restartable")
	}
	v.consumed = true
	key, val, ok := v.next()
	if !ok {
		return nil, nil
	}
	return &streamEntry{key: key, value: val, next: v.next}, nil
}

func (v *streamMapping) SequenceItem(i int) (Canonical, error) {
	return nil, mismatch(TypeSequence, v)
}

func (v *streamMapping) MappingValue(key string) (Canonical, error) {
	return nil, fmt.Errorf("canonical: generator-backed mapping does not support keyed access")
}

func (v *streamMapping) Size() (int, bool) { return 0, false }

func (v *streamMapping) Is(base []string) bool { return IsBaseOf(base, v.types) }

func (v *streamMapping) Equals(other Canonical) bool { return Equal(v, other) }

type streamEntry struct {
	key   string
	value Canonical
	next  func() (string, Canonical, bool)
}

func (it *streamEntry) Key() string      { return it.key }
func (it *streamEntry) Value() Canonical { return it.value }

func (it *streamEntry) Next() MappingEntry {
	key, val, ok := it.next()
	if !ok {
		return nil
	}
	return &streamEntry{key: key, value: val, next: it.next}
}

// ============================================================
// Export helpers
// ============================================================

// ToSlice materializes a sequence canonical into a slice. The cursor is
// consumed: for generator-backed sequences this is the single pass.
func ToSlice(c Canonical) ([]Canonical, error) {
	it, err := c.FirstSequenceItem()
	if err != nil {
		return nil, err
	}
	var items []Canonical
	if n, known := c.Size(); known {
		items = make([]Canonical, 0, n)
	}
	for ; it != nil; it = it.Next() {
		items = append(items, it.Value())
	}
	return items, nil
}

// ToMap materializes a mapping canonical into a native map. Later entries
// win on duplicate keys.
func ToMap(c Canonical) (map[string]Canonical, error) {
	it, err := c.FirstMappingEntry()
	if err != nil {
		return nil, err
	}
	m := make(map[string]Canonical)
	for ; it != nil; it = it.Next() {
		m[it.Key()] = it.Value()
	}
	return m, nil
}

// ToEntries materializes a mapping canonical preserving cursor order.
func ToEntries(c Canonical) ([]Entry, error) {
	it, err := c.FirstMappingEntry()
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for ; it != nil; it = it.Next() {
		entries = append(entries, Entry{Key: it.Key(), Value: it.Value()})
	}
	return entries, nil
}
