package valueobject

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/darlean-io/canonical/canonical"
)

// From constructs a value object from any supported input: an existing
// value object of a compatible type (returned unchanged), a canonical, a
// canonical source, or a native Go value.
func (d *Def) From(input any) (Value, error) {
	switch v := input.(type) {
	case Value:
		return d.fromValue(v)
	case canonical.Canonical:
		return d.FromCanonical(v)
	case canonical.Source:
		return d.FromCanonical(v.PeekCanonical())
	default:
		return d.fromNative(input)
	}
}

// fromValue is the identity short-circuit: a value object whose type chain
// has the target chain as a prefix is structurally compatible and passes
// through unchanged, even across distinct Def instances.
func (d *Def) fromValue(v Value) (Value, error) {
	if v.Def() == d || v.Def().Is(d) {
		return v, nil
	}
	return nil, &canonical.LogicalTypeError{Expected: d.types, Actual: v.Def().types}
}

// FromCanonical validates a canonical against the target chain and
// constructs a fresh instance whose children are recursively re-derived.
// Type-inferring (Flex) canonicals pass the chain check by design and are
// checked physically on access.
func (d *Def) FromCanonical(c canonical.Canonical) (Value, error) {
	if c == nil {
		c = canonical.None()
	}
	if !c.Is(d.types) {
		return nil, &canonical.LogicalTypeError{Expected: d.types, Actual: c.LogicalTypes()}
	}
	switch d.kind {
	case KindPrimitive:
		return d.primitiveFromCanonical(c)
	case KindStruct:
		return d.structFromCanonical(c)
	case KindSequence:
		return d.sequenceFromCanonical(c)
	case KindMapping:
		return d.mappingFromCanonical(c)
	default:
		return nil, fmt.Errorf("valueobject: unsupported kind %s", d.kind)
	}
}

func (d *Def) fromNative(input any) (Value, error) {
	switch d.kind {
	case KindPrimitive:
		return d.primitiveFromNative(input)
	case KindStruct:
		return d.structFromNative(input)
	case KindSequence:
		return d.sequenceFromNative(input)
	case KindMapping:
		return d.mappingFromNative(input)
	default:
		return nil, fmt.Errorf("valueobject: unsupported kind %s", d.kind)
	}
}

func (d *Def) validationError(vs []Violation) *ValidationError {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Path < vs[j].Path })
	return &ValidationError{Types: d.types, Violations: vs}
}

// appendChildViolations folds a child construction error into the parent's
// violation list under the child's path.
func appendChildViolations(vs []Violation, path string, err error) []Violation {
	var ve *ValidationError
	if errors.As(err, &ve) {
		for _, v := range ve.Violations {
			p := path
			if v.Path != "" {
				p = path + "." + v.Path
			}
			vs = append(vs, Violation{Path: p, Code: v.Code, Message: v.Message})
		}
		return vs
	}
	return append(vs, Violation{Path: path, Code: CodeTypeIncompatible, Message: err.Error()})
}

// ============================================================
// Primitive construction
// ============================================================

func (d *Def) primitiveFromCanonical(c canonical.Canonical) (Value, error) {
	var native any
	var err error
	switch d.physical {
	case canonical.TypeNone:
		err = c.NoneValue()
	case canonical.TypeBool:
		native, err = c.BoolValue()
	case canonical.TypeInt:
		native, err = c.IntValue()
	case canonical.TypeFloat:
		native, err = c.FloatValue()
	case canonical.TypeString:
		native, err = c.StringValue()
	case canonical.TypeMoment:
		native, err = c.MomentValue()
	case canonical.TypeBinary:
		native, err = c.BinaryValue()
	}
	if err != nil {
		return nil, err
	}
	return d.finishPrimitive(native)
}

func (d *Def) primitiveFromNative(input any) (Value, error) {
	native, err := coercePrimitive(d.physical, input)
	if err != nil {
		return nil, d.validationError([]Violation{{Code: CodeTypeIncompatible, Message: err.Error()}})
	}
	return d.finishPrimitive(native)
}

func (d *Def) finishPrimitive(native any) (Value, error) {
	var vs []Violation
	for _, fn := range d.primValidators {
		if err := fn(native); err != nil {
			vs = append(vs, Violation{Code: CodeValidatorFailed, Message: err.Error()})
		}
	}
	if len(vs) > 0 {
		return nil, d.validationError(vs)
	}
	return &PrimitiveValue{def: d, native: native}, nil
}

func coercePrimitive(pt canonical.PhysicalType, input any) (any, error) {
	switch pt {
	case canonical.TypeNone:
		if input == nil {
			return nil, nil
		}

	case canonical.TypeBool:
		if v, ok := input.(bool); ok {
			return v, nil
		}

	case canonical.TypeInt:
		switch v := input.(type) {
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case uint:
			return int64(v), nil
		case uint8:
			return int64(v), nil
		case uint16:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		case float64:
			if v == float64(int64(v)) {
				return int64(v), nil
			}
		}

	case canonical.TypeFloat:
		switch v := input.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}

	case canonical.TypeString:
		if v, ok := input.(string); ok {
			return v, nil
		}

	case canonical.TypeMoment:
		if v, ok := input.(time.Time); ok {
			return v, nil
		}

	case canonical.TypeBinary:
		if v, ok := input.([]byte); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%T is not acceptable as %s", input, pt)
}

// ============================================================
// Struct construction
// ============================================================

func (d *Def) structFromCanonical(c canonical.Canonical) (Value, error) {
	it, err := c.FirstMappingEntry()
	if err != nil {
		return nil, err
	}
	slots := NewSlots()
	var extras map[string]canonical.Canonical
	var vs []Violation

	for ; it != nil; it = it.Next() {
		name := it.Key()
		fd, known := d.fields[name]
		if !known {
			switch d.unknown {
			case UnknownKeep:
				if extras == nil {
					extras = map[string]canonical.Canonical{}
				}
				extras[name] = it.Value()
			case UnknownError:
				vs = append(vs, Violation{Path: name, Code: CodeUnknownField, Message: "unknown field"})
			}
			continue
		}
		vs = d.assembleField(slots, fd, it.Value(), vs)
	}
	return d.finishStruct(slots, extras, vs)
}

func (d *Def) structFromNative(input any) (Value, error) {
	fields, err := nativeEntries(input)
	if err != nil {
		return nil, d.validationError([]Violation{{Code: CodeTypeIncompatible, Message: err.Error()}})
	}
	slots := NewSlots()
	var extras map[string]canonical.Canonical
	var vs []Violation

	for _, e := range fields {
		name := CanonicalName(e.key)
		fd, known := d.fields[name]
		if !known {
			switch d.unknown {
			case UnknownKeep:
				if extras == nil {
					extras = map[string]canonical.Canonical{}
				}
				extras[name] = looseCanonical(e.value)
			case UnknownError:
				vs = append(vs, Violation{Path: name, Code: CodeUnknownField, Message: "unknown field"})
			}
			continue
		}
		if e.value == nil {
			vs = append(vs, Violation{Path: name, Code: CodeNoneNotAllowed,
				Message: "a declared field must be absent rather than explicitly none"})
			continue
		}
		child, err := fd.Def.From(e.value)
		if err != nil {
			vs = appendChildViolations(vs, name, err)
			continue
		}
		_ = slots.Set(name, child)
	}
	return d.finishStruct(slots, extras, vs)
}

// assembleField validates one declared field supplied as a canonical.
func (d *Def) assembleField(slots *Slots, fd FieldDef, cv canonical.Canonical, vs []Violation) []Violation {
	if cv == nil || cv.PhysicalType() == canonical.TypeNone {
		return append(vs, Violation{Path: fd.Name, Code: CodeNoneNotAllowed,
			Message: "a declared field must be absent rather than explicitly none"})
	}
	child, err := fd.Def.From(cv)
	if err != nil {
		return appendChildViolations(vs, fd.Name, err)
	}
	_ = slots.Set(fd.Name, child)
	return vs
}

func (d *Def) finishStruct(slots *Slots, extras map[string]canonical.Canonical, vs []Violation) (Value, error) {
	for _, name := range d.required {
		present, err := slots.Has(name)
		if err != nil {
			return nil, err
		}
		if !present {
			vs = append(vs, Violation{Path: name, Code: CodeMissingRequiredField, Message: "required field is missing"})
		}
	}
	if len(vs) > 0 {
		return nil, d.validationError(vs)
	}

	for _, fn := range d.slotsValidators {
		if err := fn(slots); err != nil {
			vs = append(vs, Violation{Code: CodeValidatorFailed, Message: err.Error()})
		}
	}
	if len(vs) > 0 {
		return nil, d.validationError(vs)
	}

	m, err := slots.extract()
	if err != nil {
		return nil, err
	}
	return &StructValue{def: d, slots: m, extras: extras}, nil
}

// ============================================================
// Sequence construction
// ============================================================

func (d *Def) sequenceFromCanonical(c canonical.Canonical) (Value, error) {
	it, err := c.FirstSequenceItem()
	if err != nil {
		return nil, err
	}
	items := NewItems()
	var vs []Violation
	for i := 0; it != nil; it, i = it.Next(), i+1 {
		child, err := d.elem.From(it.Value())
		if err != nil {
			vs = appendChildViolations(vs, fmt.Sprintf("[%d]", i), err)
			continue
		}
		_ = items.Append(child)
	}
	return d.finishSequence(items, vs)
}

func (d *Def) sequenceFromNative(input any) (Value, error) {
	rv := reflect.ValueOf(input)
	if input == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, d.validationError([]Violation{{Code: CodeTypeIncompatible,
			Message: fmt.Sprintf("%T is not acceptable as a sequence", input)}})
	}
	items := NewItems()
	var vs []Violation
	for i := 0; i < rv.Len(); i++ {
		child, err := d.elem.From(rv.Index(i).Interface())
		if err != nil {
			vs = appendChildViolations(vs, fmt.Sprintf("[%d]", i), err)
			continue
		}
		_ = items.Append(child)
	}
	return d.finishSequence(items, vs)
}

func (d *Def) finishSequence(items *Items, vs []Violation) (Value, error) {
	if len(vs) > 0 {
		return nil, d.validationError(vs)
	}
	for _, fn := range d.itemsValidators {
		if err := fn(items); err != nil {
			vs = append(vs, Violation{Code: CodeValidatorFailed, Message: err.Error()})
		}
	}
	if len(vs) > 0 {
		return nil, d.validationError(vs)
	}
	list, err := items.extract()
	if err != nil {
		return nil, err
	}
	return &SequenceValue{def: d, items: list}, nil
}

// ============================================================
// Mapping construction
// ============================================================

func (d *Def) mappingFromCanonical(c canonical.Canonical) (Value, error) {
	it, err := c.FirstMappingEntry()
	if err != nil {
		return nil, err
	}
	slots := NewSlots()
	var vs []Violation
	for ; it != nil; it = it.Next() {
		child, err := d.elem.From(it.Value())
		if err != nil {
			vs = appendChildViolations(vs, it.Key(), err)
			continue
		}
		_ = slots.Set(it.Key(), child)
	}
	return d.finishMapping(slots, vs)
}

func (d *Def) mappingFromNative(input any) (Value, error) {
	entries, err := nativeEntries(input)
	if err != nil {
		return nil, d.validationError([]Violation{{Code: CodeTypeIncompatible, Message: err.Error()}})
	}
	slots := NewSlots()
	var vs []Violation
	for _, e := range entries {
		child, err := d.elem.From(e.value)
		if err != nil {
			vs = appendChildViolations(vs, e.key, err)
			continue
		}
		_ = slots.Set(e.key, child)
	}
	return d.finishMapping(slots, vs)
}

func (d *Def) finishMapping(slots *Slots, vs []Violation) (Value, error) {
	if len(vs) > 0 {
		return nil, d.validationError(vs)
	}
	for _, fn := range d.slotsValidators {
		if err := fn(slots); err != nil {
			vs = append(vs, Violation{Code: CodeValidatorFailed, Message: err.Error()})
		}
	}
	if len(vs) > 0 {
		return nil, d.validationError(vs)
	}
	m, err := slots.extract()
	if err != nil {
		return nil, err
	}
	return &MappingValue{def: d, slots: m}, nil
}

// ============================================================
// Native input helpers
// ============================================================

type nativeEntry struct {
	key   string
	value any
}

// nativeEntries normalizes map-shaped native input into a deterministic,
// key-sorted entry list.
func nativeEntries(input any) ([]nativeEntry, error) {
	rv := reflect.ValueOf(input)
	if input == nil || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%T is not acceptable as a string-keyed mapping", input)
	}
	entries := make([]nativeEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, nativeEntry{key: iter.Key().String(), value: iter.Value().Interface()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries, nil
}

// looseCanonical adapts an arbitrary native value into a canonical for the
// UnknownKeep policy: canonicals and sources pass through, anything else is
// wrapped as a type-inferring Flex.
func looseCanonical(v any) canonical.Canonical {
	if c, ok := canonical.FromSource(v); ok {
		return c
	}
	return canonical.NewFlex(v)
}
