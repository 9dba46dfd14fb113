package valueobject

import (
	"fmt"
	"sort"
	"sync"

	"github.com/darlean-io/canonical/canonical"
)

// Kind distinguishes the four value-object kinds.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindStruct
	KindSequence
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindStruct:
		return "struct"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// UnknownFieldPolicy controls what struct construction does with input
// fields that are not declared in the schema.
type UnknownFieldPolicy uint8

const (
	// UnknownIgnore silently drops unknown fields (the default).
	UnknownIgnore UnknownFieldPolicy = iota
	// UnknownKeep carries unknown fields along as raw canonicals.
	UnknownKeep
	// UnknownError rejects the construction.
	UnknownError
)

// FieldDef describes one declared struct field.
type FieldDef struct {
	Name     string // canonical field name
	Def      *Def
	Required bool
}

// Validator signatures. Primitive validators operate on the raw native
// payload, struct and mapping validators on the assembled slot collection,
// sequence validators on the assembled item collection. A non-nil result is
// a validation failure.
type (
	PrimitiveValidator func(native any) error
	SlotsValidator     func(slots *Slots) error
	ItemsValidator     func(items *Items) error
)

// Def is the schema descriptor of a value-object type: its logical type
// chain, its kind, and the declarations needed to validate and construct
// instances. A Def is built once and never mutated afterwards.
type Def struct {
	kind     Kind
	physical canonical.PhysicalType // for KindPrimitive
	types    []string

	fields     map[string]FieldDef // canonical field name -> descriptor
	fieldOrder []string            // declaration order, base fields first
	required   []string
	unknown    UnknownFieldPolicy

	elem *Def // sequence element / mapping value descriptor

	primValidators  []PrimitiveValidator
	slotsValidators []SlotsValidator
	itemsValidators []ItemsValidator
}

// Kind returns the value-object kind.
func (d *Def) Kind() Kind { return d.kind }

// Physical returns the physical type of a primitive Def.
func (d *Def) Physical() canonical.PhysicalType { return d.physical }

// LogicalTypes returns the logical type chain, most general first. Callers
// must not mutate the result.
func (d *Def) LogicalTypes() []string { return d.types }

// TypeName returns the most specific component of the chain.
func (d *Def) TypeName() string {
	if len(d.types) == 0 {
		return ""
	}
	return d.types[len(d.types)-1]
}

// Elem returns the element descriptor of a sequence Def or the value
// descriptor of a mapping Def.
func (d *Def) Elem() *Def { return d.elem }

// Field returns the descriptor for a declared field, looked up by
// canonicalized name.
func (d *Def) Field(name string) (FieldDef, bool) {
	fd, ok := d.fields[CanonicalName(name)]
	return fd, ok
}

// FieldNames returns the declared canonical field names, base fields first.
func (d *Def) FieldNames() []string {
	out := make([]string, len(d.fieldOrder))
	copy(out, d.fieldOrder)
	return out
}

// Is reports whether base describes a base type of this Def: base's chain
// must be a prefix of this Def's chain.
func (d *Def) Is(base *Def) bool {
	return canonical.IsBaseOf(base.types, d.types)
}

// ============================================================
// Builder
// ============================================================

// Builder assembles a Def. Errors are collected and reported by Build so
// declarations can be chained.
type Builder struct {
	def     *Def
	ownName string
	base    *Def
	errs    []error
}

func newBuilder(kind Kind, physical canonical.PhysicalType, name string) *Builder {
	b := &Builder{
		def: &Def{
			kind:     kind,
			physical: physical,
			fields:   map[string]FieldDef{},
		},
		ownName: CanonicalName(name),
	}
	if b.ownName == "" {
		b.errs = append(b.errs, fmt.Errorf("type name must not be empty"))
	}
	return b
}

// NewNoneDef declares a primitive none type.
func NewNoneDef(name string) *Builder {
	return newBuilder(KindPrimitive, canonical.TypeNone, name)
}

// NewBoolDef declares a primitive boolean type.
func NewBoolDef(name string) *Builder {
	return newBuilder(KindPrimitive, canonical.TypeBool, name)
}

// NewIntDef declares a primitive integer type.
func NewIntDef(name string) *Builder {
	return newBuilder(KindPrimitive, canonical.TypeInt, name)
}

// NewFloatDef declares a primitive float type.
func NewFloatDef(name string) *Builder {
	return newBuilder(KindPrimitive, canonical.TypeFloat, name)
}

// NewStringDef declares a primitive string type.
func NewStringDef(name string) *Builder {
	return newBuilder(KindPrimitive, canonical.TypeString, name)
}

// NewMomentDef declares a primitive moment (timestamp) type.
func NewMomentDef(name string) *Builder {
	return newBuilder(KindPrimitive, canonical.TypeMoment, name)
}

// NewBinaryDef declares a primitive binary type.
func NewBinaryDef(name string) *Builder {
	return newBuilder(KindPrimitive, canonical.TypeBinary, name)
}

// NewStructDef declares a struct type with fixed, declared fields.
func NewStructDef(name string) *Builder {
	return newBuilder(KindStruct, canonical.TypeMapping, name)
}

// NewSequenceDef declares a sequence type whose elements satisfy elem. A
// nil elem is only valid together with ExtendedFrom, which inherits the
// element descriptor of the base.
func NewSequenceDef(name string, elem *Def) *Builder {
	b := newBuilder(KindSequence, canonical.TypeSequence, name)
	b.def.elem = elem
	return b
}

// NewMappingDef declares a mapping type whose values satisfy valueDef. Keys
// are arbitrary strings; the key charset is unrestricted. A nil valueDef is
// only valid together with ExtendedFrom.
func NewMappingDef(name string, valueDef *Def) *Builder {
	b := newBuilder(KindMapping, canonical.TypeMapping, name)
	b.def.elem = valueDef
	return b
}

// ExtendedFrom declares base as the base type: the resulting chain is the
// base chain followed by this type's own name, and fields, validators, and
// policies are inherited. Base validators run before own validators.
func (b *Builder) ExtendedFrom(base *Def) *Builder {
	if base == nil {
		b.errs = append(b.errs, fmt.Errorf("base def must not be nil"))
		return b
	}
	if base.kind != b.def.kind {
		b.errs = append(b.errs, fmt.Errorf("cannot extend %s def from %s def", b.def.kind, base.kind))
		return b
	}
	b.base = base
	return b
}

// Required declares a required struct field. The name is canonicalized.
func (b *Builder) Required(name string, def *Def) *Builder {
	return b.field(name, def, true)
}

// Optional declares an optional struct field. The name is canonicalized.
func (b *Builder) Optional(name string, def *Def) *Builder {
	return b.field(name, def, false)
}

func (b *Builder) field(name string, def *Def, required bool) *Builder {
	if b.def.kind != KindStruct {
		b.errs = append(b.errs, fmt.Errorf("fields can only be declared on struct defs"))
		return b
	}
	if def == nil {
		b.errs = append(b.errs, fmt.Errorf("field %q needs a descriptor", name))
		return b
	}
	cname := CanonicalName(name)
	if _, dup := b.def.fields[cname]; dup {
		b.errs = append(b.errs, fmt.Errorf("field %q declared twice", cname))
		return b
	}
	b.def.fields[cname] = FieldDef{Name: cname, Def: def, Required: required}
	b.def.fieldOrder = append(b.def.fieldOrder, cname)
	if required {
		b.def.required = append(b.def.required, cname)
	}
	return b
}

// UnknownFields sets the policy for input fields not declared in the schema.
func (b *Builder) UnknownFields(p UnknownFieldPolicy) *Builder {
	b.def.unknown = p
	return b
}

// ValidateValue attaches a validator to a primitive def. The validator
// receives the raw native payload.
func (b *Builder) ValidateValue(fn PrimitiveValidator) *Builder {
	if b.def.kind != KindPrimitive {
		b.errs = append(b.errs, fmt.Errorf("ValidateValue applies to primitive defs only"))
		return b
	}
	b.def.primValidators = append(b.def.primValidators, fn)
	return b
}

// ValidateSlots attaches a validator to a struct or mapping def. The
// validator receives the assembled slot collection.
func (b *Builder) ValidateSlots(fn SlotsValidator) *Builder {
	if b.def.kind != KindStruct && b.def.kind != KindMapping {
		b.errs = append(b.errs, fmt.Errorf("ValidateSlots applies to struct and mapping defs only"))
		return b
	}
	b.def.slotsValidators = append(b.def.slotsValidators, fn)
	return b
}

// ValidateItems attaches a validator to a sequence def. The validator
// receives the assembled item collection.
func (b *Builder) ValidateItems(fn ItemsValidator) *Builder {
	if b.def.kind != KindSequence {
		b.errs = append(b.errs, fmt.Errorf("ValidateItems applies to sequence defs only"))
		return b
	}
	b.def.itemsValidators = append(b.def.itemsValidators, fn)
	return b
}

// Build finalizes the Def.
func (b *Builder) Build() (*Def, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("valueobject: invalid def %q: %v", b.ownName, b.errs[0])
	}
	d := b.def

	if b.base != nil {
		base := b.base
		d.types = append(append([]string{}, base.types...), b.ownName)
		d.unknown = maxPolicy(base.unknown, d.unknown)

		merged := make(map[string]FieldDef, len(base.fields)+len(d.fields))
		order := make([]string, 0, len(base.fieldOrder)+len(d.fieldOrder))
		required := append([]string{}, base.required...)
		for _, name := range base.fieldOrder {
			merged[name] = base.fields[name]
			order = append(order, name)
		}
		for _, name := range d.fieldOrder {
			if _, dup := merged[name]; dup {
				return nil, fmt.Errorf("valueobject: invalid def %q: field %q already declared by base", b.ownName, name)
			}
			merged[name] = d.fields[name]
			order = append(order, name)
		}
		required = append(required, d.required...)
		d.fields, d.fieldOrder, d.required = merged, order, required

		d.primValidators = append(append([]PrimitiveValidator{}, base.primValidators...), d.primValidators...)
		d.slotsValidators = append(append([]SlotsValidator{}, base.slotsValidators...), d.slotsValidators...)
		d.itemsValidators = append(append([]ItemsValidator{}, base.itemsValidators...), d.itemsValidators...)

		if d.elem == nil {
			d.elem = base.elem
		}
	} else {
		d.types = []string{b.ownName}
	}

	if (d.kind == KindSequence || d.kind == KindMapping) && d.elem == nil {
		return nil, fmt.Errorf("valueobject: invalid def %q: %s needs an element descriptor", b.ownName, d.kind)
	}

	sort.Strings(d.required)
	return d, nil
}

// MustBuild is Build, panicking on a misdeclared schema. Schemas are
// declared at package initialization, where a bad declaration is a
// programming error.
func (b *Builder) MustBuild() *Def {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func maxPolicy(a, b UnknownFieldPolicy) UnknownFieldPolicy {
	if b > a {
		return b
	}
	return a
}

// ============================================================
// Registry
// ============================================================

var registry = struct {
	sync.RWMutex
	byName map[string]*Def
}{byName: map[string]*Def{}}

// Register records a Def under its most specific type name. Each type is
// registered exactly once; a duplicate name is a programming error.
func Register(d *Def) error {
	registry.Lock()
	defer registry.Unlock()
	name := d.TypeName()
	if _, dup := registry.byName[name]; dup {
		return fmt.Errorf("valueobject: type %q registered twice", name)
	}
	registry.byName[name] = d
	return nil
}

// MustRegister registers a Def and returns it, panicking on duplicates, for
// use in package-level declarations.
func MustRegister(d *Def) *Def {
	if err := Register(d); err != nil {
		panic(err)
	}
	return d
}

// Lookup returns the Def registered under the given type name, or nil.
func Lookup(name string) *Def {
	registry.RLock()
	defer registry.RUnlock()
	return registry.byName[CanonicalName(name)]
}
