package canonical

import (
	"time"
)

// PhysicalType represents how a canonical value is stored.
type PhysicalType uint8

const (
	TypeNone PhysicalType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeMoment
	TypeBinary
	TypeSequence
	TypeMapping
)

// String returns the physical type name.
func (t PhysicalType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeMoment:
		return "moment"
	case TypeBinary:
		return "binary"
	case TypeSequence:
		return "sequence"
	case TypeMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Canonical is the immutable, physically and logically typed variant value
// at the center of the model.
//
// Exactly one payload getter matches PhysicalType; invoking any other getter
// fails with a *PhysicalTypeError naming both the requested and the actual
// physical type.
type Canonical interface {
	// PhysicalType returns the storage kind of the value.
	PhysicalType() PhysicalType

	// LogicalTypes returns the logical type chain, most general first.
	// An empty chain means "untyped". Callers must not mutate the result.
	LogicalTypes() []string

	// NoneValue returns nil when the value is none.
	NoneValue() error
	BoolValue() (bool, error)
	IntValue() (int64, error)
	FloatValue() (float64, error)
	StringValue() (string, error)
	MomentValue() (time.Time, error)
	BinaryValue() ([]byte, error)

	// FirstSequenceItem returns a cursor on the first element, or nil when
	// the sequence is empty. Whether this call can be repeated depends on
	// the backing source: materialized sources restart, generator sources
	// are single-pass and fail on the second request.
	FirstSequenceItem() (SequenceItem, error)

	// FirstMappingEntry returns a cursor on the first entry, or nil when
	// the mapping is empty. Restartability follows the backing source.
	FirstMappingEntry() (MappingEntry, error)

	// SequenceItem returns the i-th element where random access is
	// feasible. Generator-backed sequences do not support it.
	SequenceItem(i int) (Canonical, error)

	// MappingValue returns the value for key, or nil when absent.
	MappingValue(key string) (Canonical, error)

	// Size returns the number of children of a sequence or mapping. The
	// second result is false when the count is unknown (live generators)
	// or the value is a scalar. An unknown size is not an error.
	Size() (int, bool)

	// Is reports whether base is a base chain of this value's chain.
	Is(base []string) bool

	// Equals reports value equality: same physical type, equal logical
	// type chains, and value-equal payload. Sequences compare ordered,
	// mappings unordered.
	Equals(other Canonical) bool
}

// SequenceItem is a forward-only cursor over a sequence. Next advances and
// returns the next cursor, or nil at the end of the sequence, terminally.
// Cursors are single-pass; request a fresh cursor from the owning canonical
// to re-iterate.
type SequenceItem interface {
	Value() Canonical
	Next() SequenceItem
}

// MappingEntry is a forward-only cursor over a mapping, with the same
// termination semantics as SequenceItem.
type MappingEntry interface {
	Key() string
	Value() Canonical
	Next() MappingEntry
}

// Source is implemented by any object that can yield its canonical
// representation. The framework never mutates the returned canonical.
type Source interface {
	PeekCanonical() Canonical
}

// Entry is a key-value pair used to build mapping canonicals with a
// deterministic entry order.
type Entry struct {
	Key   string
	Value Canonical
}

// IsBaseOf reports whether chain base is a base of chain types: base must be
// a component-wise prefix of types. The comparison runs from the tail of the
// prefix region because the most specific components are the ones most
// likely to differ. An empty base is a base of everything.
func IsBaseOf(base, types []string) bool {
	if len(base) > len(types) {
		return false
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] != types[i] {
			return false
		}
	}
	return true
}

// SameChain reports component-wise equality of two logical type chains.
func SameChain(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FromSource resolves an input that is either a Canonical already or a
// Source that can produce one.
func FromSource(v any) (Canonical, bool) {
	switch x := v.(type) {
	case Canonical:
		return x, true
	case Source:
		return x.PeekCanonical(), true
	default:
		return nil, false
	}
}
