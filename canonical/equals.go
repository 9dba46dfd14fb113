package canonical

import (
	"bytes"
)

// Equal reports value equality between two canonicals: same physical type,
// elementwise-equal logical type chains, and value-equal payload. Sequences
// compare ordered, mappings unordered. Comparing generator-backed values
// consumes their single pass.
func Equal(a, b Canonical) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.PhysicalType() != b.PhysicalType() {
		return false
	}
	if !SameChain(a.LogicalTypes(), b.LogicalTypes()) {
		return false
	}

	switch a.PhysicalType() {
	case TypeNone:
		return true

	case TypeBool:
		x, err1 := a.BoolValue()
		y, err2 := b.BoolValue()
		return err1 == nil && err2 == nil && x == y

	case TypeInt:
		x, err1 := a.IntValue()
		y, err2 := b.IntValue()
		return err1 == nil && err2 == nil && x == y

	case TypeFloat:
		x, err1 := a.FloatValue()
		y, err2 := b.FloatValue()
		return err1 == nil && err2 == nil && x == y

	case TypeString:
		x, err1 := a.StringValue()
		y, err2 := b.StringValue()
		return err1 == nil && err2 == nil && x == y

	case TypeMoment:
		x, err1 := a.MomentValue()
		y, err2 := b.MomentValue()
		return err1 == nil && err2 == nil && x.Equal(y)

	case TypeBinary:
		x, err1 := a.BinaryValue()
		y, err2 := b.BinaryValue()
		return err1 == nil && err2 == nil && bytes.Equal(x, y)

	case TypeSequence:
		return sequencesEqual(a, b)

	case TypeMapping:
		return mappingsEqual(a, b)

	default:
		return false
	}
}

func sequencesEqual(a, b Canonical) bool {
	if na, known := a.Size(); known {
		if nb, known2 := b.Size(); known2 && na != nb {
			return false
		}
	}
	ia, err := a.FirstSequenceItem()
	if err != nil {
		return false
	}
	ib, err := b.FirstSequenceItem()
	if err != nil {
		return false
	}
	for ia != nil && ib != nil {
		if !Equal(ia.Value(), ib.Value()) {
			return false
		}
		ia = ia.Next()
		ib = ib.Next()
	}
	return ia == nil && ib == nil
}

func mappingsEqual(a, b Canonical) bool {
	ma, err := ToMap(a)
	if err != nil {
		return false
	}
	mb, err := ToMap(b)
	if err != nil {
		return false
	}
	if len(ma) != len(mb) {
		return false
	}
	for k, va := range ma {
		vb, ok := mb[k]
		if !ok || !Equal(va, vb) {
			return false
		}
	}
	return true
}
