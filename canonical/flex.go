package canonical

import (
	"encoding/base64"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Flex is a type-inferring canonical wrapping untyped data, typically the
// result of decoding plain JSON. Each getter coerces the raw value to the
// requested physical type on a best-effort basis and fails only when no
// plausible coercion exists.
//
// A Flex value carries no logical type information: LogicalTypes is always
// empty and Is always returns true. This is deliberate policy, not a gap:
// it lets untyped data be adapted into any typed schema, deferring all
// correctness checking to the physical coercions performed when the data is
// finally consumed as a typed value.
type Flex struct {
	raw any
}

// NewFlex wraps a raw value. Accepted shapes are the ones produced by
// encoding/json (nil, bool, float64, string, []any, map[string]any) plus
// time.Time and []byte for programmatic use. Nested values are wrapped
// lazily on access.
func NewFlex(raw any) *Flex {
	return &Flex{raw: raw}
}

// PhysicalType returns the natural physical type of the raw value, before
// any coercion.
func (f *Flex) PhysicalType() PhysicalType {
	switch f.raw.(type) {
	case nil:
		return TypeNone
	case bool:
		return TypeBool
	case float64:
		return TypeFloat
	case string:
		return TypeString
	case time.Time:
		return TypeMoment
	case []byte:
		return TypeBinary
	case []any:
		return TypeSequence
	case map[string]any:
		return TypeMapping
	default:
		return TypeNone
	}
}

// LogicalTypes always returns the empty chain for Flex values.
func (f *Flex) LogicalTypes() []string { return nil }

// Is always returns true: a Flex value carries no type information to
// refute compatibility with anything.
func (f *Flex) Is(base []string) bool { return true }

func (f *Flex) Equals(other Canonical) bool { return Equal(f, other) }

func (f *Flex) coercionError(requested PhysicalType) *PhysicalTypeError {
	return &PhysicalTypeError{
		Requested: requested,
		Actual:    f.PhysicalType(),
		Detail:    fmt.Sprintf("no plausible coercion from %T", f.raw),
	}
}

func (f *Flex) NoneValue() error {
	if f.raw == nil {
		return nil
	}
	return f.coercionError(TypeNone)
}

func (f *Flex) BoolValue() (bool, error) {
	switch v := f.raw.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, f.coercionError(TypeBool)
}

func (f *Flex) IntValue() (int64, error) {
	switch v := f.raw.(type) {
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), nil
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, nil
		}
		if x, err := strconv.ParseFloat(v, 64); err == nil && x == math.Trunc(x) {
			return int64(x), nil
		}
	}
	return 0, f.coercionError(TypeInt)
}

func (f *Flex) FloatValue() (float64, error) {
	switch v := f.raw.(type) {
	case float64:
		return v, nil
	case string:
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			return x, nil
		}
	}
	return 0, f.coercionError(TypeFloat)
}

func (f *Flex) StringValue() (string, error) {
	if v, ok := f.raw.(string); ok {
		return v, nil
	}
	return "", f.coercionError(TypeString)
}

func (f *Flex) MomentValue() (time.Time, error) {
	switch v := f.raw.(type) {
	case time.Time:
		return v, nil
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case string:
		if ms, err := strconv.ParseFloat(v, 64); err == nil {
			return time.UnixMilli(int64(ms)).UTC(), nil
		}
	}
	return time.Time{}, f.coercionError(TypeMoment)
}

func (f *Flex) BinaryValue() ([]byte, error) {
	switch v := f.raw.(type) {
	case []byte:
		return v, nil
	case string:
		if data, err := base64.StdEncoding.DecodeString(v); err == nil {
			return data, nil
		}
	}
	return nil, f.coercionError(TypeBinary)
}

func (f *Flex) FirstSequenceItem() (SequenceItem, error) {
	items, ok := f.raw.([]any)
	if !ok {
		return nil, f.coercionError(TypeSequence)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &flexItem{items: items}, nil
}

func (f *Flex) FirstMappingEntry() (MappingEntry, error) {
	obj, ok := f.raw.(map[string]any)
	if !ok {
		return nil, f.coercionError(TypeMapping)
	}
	if len(obj) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &flexEntry{obj: obj, keys: keys}, nil
}

func (f *Flex) SequenceItem(i int) (Canonical, error) {
	items, ok := f.raw.([]any)
	if !ok {
		return nil, f.coercionError(TypeSequence)
	}
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("canonical: sequence index %d out of bounds (size %d)", i, len(items))
	}
	return NewFlex(items[i]), nil
}

func (f *Flex) MappingValue(key string) (Canonical, error) {
	obj, ok := f.raw.(map[string]any)
	if !ok {
		return nil, f.coercionError(TypeMapping)
	}
	v, ok := obj[key]
	if !ok {
		return nil, nil
	}
	return NewFlex(v), nil
}

func (f *Flex) Size() (int, bool) {
	switch v := f.raw.(type) {
	case []any:
		return len(v), true
	case map[string]any:
		return len(v), true
	default:
		return 0, false
	}
}

type flexItem struct {
	items []any
	pos   int
}

func (it *flexItem) Value() Canonical { return NewFlex(it.items[it.pos]) }

func (it *flexItem) Next() SequenceItem {
	if it.pos+1 >= len(it.items) {
		return nil
	}
	return &flexItem{items: it.items, pos: it.pos + 1}
}

type flexEntry struct {
	obj  map[string]any
	keys []string
	pos  int
}

func (it *flexEntry) Key() string      { return it.keys[it.pos] }
func (it *flexEntry) Value() Canonical { return NewFlex(it.obj[it.keys[it.pos]]) }

func (it *flexEntry) Next() MappingEntry {
	if it.pos+1 >= len(it.keys) {
		return nil
	}
	return &flexEntry{obj: it.obj, keys: it.keys, pos: it.pos + 1}
}
