package valueobject

import (
	"sort"
	"sync"
	"time"

	"github.com/darlean-io/canonical/canonical"
)

// Value is the marker interface implemented by every value-object kind.
// Values are immutable after construction and yield their canonical
// representation through the canonical.Source contract; the representation
// is derived at most once per instance and cached.
type Value interface {
	canonical.Source
	Def() *Def
	valueObject()
}

// ============================================================
// Primitive
// ============================================================

// PrimitiveValue wraps a validated scalar payload.
type PrimitiveValue struct {
	def    *Def
	native any // nil, bool, int64, float64, string, time.Time or []byte

	once  sync.Once
	canon canonical.Canonical
}

func (p *PrimitiveValue) valueObject() {}

// Def returns the schema descriptor.
func (p *PrimitiveValue) Def() *Def { return p.def }

// Native returns the raw payload.
func (p *PrimitiveValue) Native() any { return p.native }

// AsBool returns the boolean payload, or false for other primitive kinds.
func (p *PrimitiveValue) AsBool() bool {
	v, _ := p.native.(bool)
	return v
}

// AsInt returns the integer payload, or 0 for other primitive kinds.
func (p *PrimitiveValue) AsInt() int64 {
	v, _ := p.native.(int64)
	return v
}

// AsFloat returns the float payload, or 0 for other primitive kinds.
func (p *PrimitiveValue) AsFloat() float64 {
	v, _ := p.native.(float64)
	return v
}

// AsString returns the string payload, or "" for other primitive kinds.
func (p *PrimitiveValue) AsString() string {
	v, _ := p.native.(string)
	return v
}

// AsMoment returns the moment payload, or the zero time for other kinds.
func (p *PrimitiveValue) AsMoment() time.Time {
	v, _ := p.native.(time.Time)
	return v
}

// AsBinary returns the binary payload, or nil for other primitive kinds.
func (p *PrimitiveValue) AsBinary() []byte {
	v, _ := p.native.([]byte)
	return v
}

// PeekCanonical returns the cached canonical representation.
func (p *PrimitiveValue) PeekCanonical() canonical.Canonical {
	p.once.Do(func() {
		types := p.def.types
		switch p.def.physical {
		case canonical.TypeNone:
			p.canon = canonical.NoneAs(types...)
		case canonical.TypeBool:
			p.canon = canonical.BoolAs(p.native.(bool), types...)
		case canonical.TypeInt:
			p.canon = canonical.IntAs(p.native.(int64), types...)
		case canonical.TypeFloat:
			p.canon = canonical.FloatAs(p.native.(float64), types...)
		case canonical.TypeString:
			p.canon = canonical.StringAs(p.native.(string), types...)
		case canonical.TypeMoment:
			p.canon = canonical.MomentAs(p.native.(time.Time), types...)
		case canonical.TypeBinary:
			p.canon = canonical.BinaryAs(p.native.([]byte), types...)
		}
	})
	return p.canon
}

// ============================================================
// Struct
// ============================================================

// StructValue wraps a validated fixed-field record. Field lookup uses
// canonicalized names.
type StructValue struct {
	def    *Def
	slots  map[string]Value
	extras map[string]canonical.Canonical // unknown fields under UnknownKeep

	once  sync.Once
	canon canonical.Canonical
}

func (s *StructValue) valueObject() {}

// Def returns the schema descriptor.
func (s *StructValue) Def() *Def { return s.def }

// Get returns the value of a declared field, canonicalizing the name. A
// missing optional field yields nil.
func (s *StructValue) Get(name string) Value {
	return s.slots[CanonicalName(name)]
}

// Has reports whether a field is present.
func (s *StructValue) Has(name string) bool {
	_, ok := s.slots[CanonicalName(name)]
	return ok
}

// GetString returns the string payload of a primitive field, or "" when the
// field is absent or not a string primitive.
func (s *StructValue) GetString(name string) string {
	if p, ok := s.Get(name).(*PrimitiveValue); ok {
		return p.AsString()
	}
	return ""
}

// GetInt returns the integer payload of a primitive field, or 0.
func (s *StructValue) GetInt(name string) int64 {
	if p, ok := s.Get(name).(*PrimitiveValue); ok {
		return p.AsInt()
	}
	return 0
}

// FieldNames returns the names of the present fields in sorted order.
func (s *StructValue) FieldNames() []string {
	names := make([]string, 0, len(s.slots))
	for name := range s.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extra returns the raw canonical of an unknown field kept under the
// UnknownKeep policy, or nil.
func (s *StructValue) Extra(name string) canonical.Canonical {
	return s.extras[name]
}

// PeekCanonical returns the cached canonical representation: a mapping of
// canonical field names to field canonicals, carrying the type chain.
func (s *StructValue) PeekCanonical() canonical.Canonical {
	s.once.Do(func() {
		m := make(map[string]canonical.Canonical, len(s.slots)+len(s.extras))
		for name, v := range s.slots {
			m[name] = v.PeekCanonical()
		}
		for name, c := range s.extras {
			m[name] = c
		}
		s.canon = canonical.FromMap(m, s.def.types...)
	})
	return s.canon
}

// ============================================================
// Mapping
// ============================================================

// MappingValue wraps a validated open string-keyed map. Keys are arbitrary;
// the charset is unrestricted and keys are never canonicalized.
type MappingValue struct {
	def   *Def
	slots map[string]Value

	once  sync.Once
	canon canonical.Canonical
}

func (m *MappingValue) valueObject() {}

// Def returns the schema descriptor.
func (m *MappingValue) Def() *Def { return m.def }

// Get returns the value for key, or nil when absent.
func (m *MappingValue) Get(key string) Value { return m.slots[key] }

// Has reports whether a key is present.
func (m *MappingValue) Has(key string) bool {
	_, ok := m.slots[key]
	return ok
}

// Len returns the number of entries.
func (m *MappingValue) Len() int { return len(m.slots) }

// Keys returns the keys in sorted order.
func (m *MappingValue) Keys() []string {
	keys := make([]string, 0, len(m.slots))
	for k := range m.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PeekCanonical returns the cached canonical representation.
func (m *MappingValue) PeekCanonical() canonical.Canonical {
	m.once.Do(func() {
		entries := make(map[string]canonical.Canonical, len(m.slots))
		for k, v := range m.slots {
			entries[k] = v.PeekCanonical()
		}
		m.canon = canonical.FromMap(entries, m.def.types...)
	})
	return m.canon
}
