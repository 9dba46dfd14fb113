package valueobject

import (
	"fmt"
	"sort"
	"sync"

	"github.com/darlean-io/canonical/canonical"
)

// SequenceValue wraps a validated ordered list of elements. All derivation
// operators are non-mutating: they return fresh slices or fresh sequence
// values and never touch the receiver or the source.
type SequenceValue struct {
	def   *Def
	items []Value

	once  sync.Once
	canon canonical.Canonical
}

func (s *SequenceValue) valueObject() {}

// Def returns the schema descriptor.
func (s *SequenceValue) Def() *Def { return s.def }

// Len returns the number of elements.
func (s *SequenceValue) Len() int { return len(s.items) }

// At returns the i-th element, or nil when out of range.
func (s *SequenceValue) At(i int) Value {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// Values returns a copy of the elements in order.
func (s *SequenceValue) Values() []Value {
	out := make([]Value, len(s.items))
	copy(out, s.items)
	return out
}

// PeekCanonical returns the cached canonical representation.
func (s *SequenceValue) PeekCanonical() canonical.Canonical {
	s.once.Do(func() {
		items := make([]canonical.Canonical, len(s.items))
		for i, v := range s.items {
			items[i] = v.PeekCanonical()
		}
		s.canon = canonical.FromSlice(items, s.def.types...)
	})
	return s.canon
}

// ============================================================
// Derivation operators
// ============================================================

// Map applies fn to every element and returns the results.
func (s *SequenceValue) Map(fn func(Value) Value) []Value {
	out := make([]Value, len(s.items))
	for i, v := range s.items {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements for which pred holds.
func (s *SequenceValue) Filter(pred func(Value) bool) []Value {
	var out []Value
	for _, v := range s.items {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// Find returns the first element for which pred holds, or nil.
func (s *SequenceValue) Find(pred func(Value) bool) Value {
	for _, v := range s.items {
		if pred(v) {
			return v
		}
	}
	return nil
}

// FindIndex returns the index of the first element for which pred holds,
// or -1.
func (s *SequenceValue) FindIndex(pred func(Value) bool) int {
	for i, v := range s.items {
		if pred(v) {
			return i
		}
	}
	return -1
}

// IndexOf returns the index of the first element that is canonically equal
// to v, or -1.
func (s *SequenceValue) IndexOf(v Value) int {
	target := v.PeekCanonical()
	for i, item := range s.items {
		if canonical.Equal(item.PeekCanonical(), target) {
			return i
		}
	}
	return -1
}

// Includes reports whether any element is canonically equal to v.
func (s *SequenceValue) Includes(v Value) bool {
	return s.IndexOf(v) >= 0
}

// Reverse returns the elements in reverse order.
func (s *SequenceValue) Reverse() []Value {
	out := make([]Value, len(s.items))
	for i, v := range s.items {
		out[len(s.items)-1-i] = v
	}
	return out
}

// Slice returns a sub-range of the elements with Python-style semantics:
// Slice() copies everything, Slice(start) runs to the end, Slice(start,
// end) stops before end. Negative bounds count from the end; out-of-range
// bounds clamp, so an inverted range yields an empty result.
func (s *SequenceValue) Slice(bounds ...int) []Value {
	start, end := sliceBounds(len(s.items), bounds)
	out := make([]Value, end-start)
	copy(out, s.items[start:end])
	return out
}

// Reduce folds the elements left to right. A nil seed starts the fold at
// the first element; reducing an empty sequence without a seed yields nil.
func (s *SequenceValue) Reduce(fn func(acc, item Value) Value, seed Value) Value {
	acc := seed
	start := 0
	if acc == nil {
		if len(s.items) == 0 {
			return nil
		}
		acc = s.items[0]
		start = 1
	}
	for _, v := range s.items[start:] {
		acc = fn(acc, v)
	}
	return acc
}

func sliceBounds(n int, bounds []int) (int, int) {
	norm := func(i int) int {
		if i < 0 {
			i += n
		}
		if i < 0 {
			i = 0
		}
		if i > n {
			i = n
		}
		return i
	}
	start, end := 0, n
	if len(bounds) >= 1 {
		start = norm(bounds[0])
	}
	if len(bounds) >= 2 {
		end = norm(bounds[1])
	}
	if end < start {
		end = start
	}
	return start, end
}

// ============================================================
// Functional construction helpers
// ============================================================

// seqCheck guards the Def-level sequence helpers.
func (d *Def) seqCheck() error {
	if d.kind != KindSequence {
		return fmt.Errorf("valueobject: %s is not a sequence def", d.TypeName())
	}
	return nil
}

// derivedItems resolves a source (a compatible sequence value or any
// slice-shaped native input) into a fresh element slice.
func (d *Def) derivedItems(source any) ([]Value, error) {
	if err := d.seqCheck(); err != nil {
		return nil, err
	}
	v, err := d.From(source)
	if err != nil {
		return nil, err
	}
	sv, ok := v.(*SequenceValue)
	if !ok {
		return nil, fmt.Errorf("valueobject: %s did not yield a sequence value", d.TypeName())
	}
	return sv.Values(), nil
}

// fromItems builds a sequence value from pre-derived elements, re-running
// the sequence validators.
func (d *Def) fromItems(items []Value) (Value, error) {
	asm := NewItems()
	var vs []Violation
	for i, it := range items {
		child, err := d.elem.From(it)
		if err != nil {
			vs = appendChildViolations(vs, fmt.Sprintf("[%d]", i), err)
			continue
		}
		_ = asm.Append(child)
	}
	return d.finishSequence(asm, vs)
}

// FillFrom builds a sequence of n repetitions of template.
func (d *Def) FillFrom(template any, n int) (Value, error) {
	if err := d.seqCheck(); err != nil {
		return nil, err
	}
	elem, err := d.elem.From(template)
	if err != nil {
		return nil, err
	}
	items := make([]Value, n)
	for i := range items {
		items[i] = elem
	}
	return d.fromItems(items)
}

// ConcatenateFrom builds a sequence from the concatenated elements of the
// given parts. Each part may be a compatible sequence value or any
// slice-shaped native input.
func (d *Def) ConcatenateFrom(parts ...any) (Value, error) {
	if err := d.seqCheck(); err != nil {
		return nil, err
	}
	var items []Value
	for i, part := range parts {
		elems, err := d.derivedItems(part)
		if err != nil {
			return nil, fmt.Errorf("valueobject: part %d: %w", i, err)
		}
		items = append(items, elems...)
	}
	return d.fromItems(items)
}

// MapFrom builds a sequence by transforming every element of source. The
// result of fn is re-derived against the element descriptor.
func (d *Def) MapFrom(source *SequenceValue, fn func(Value) any) (Value, error) {
	if err := d.seqCheck(); err != nil {
		return nil, err
	}
	asm := NewItems()
	var vs []Violation
	for i, v := range source.items {
		child, err := d.elem.From(fn(v))
		if err != nil {
			vs = appendChildViolations(vs, fmt.Sprintf("[%d]", i), err)
			continue
		}
		_ = asm.Append(child)
	}
	return d.finishSequence(asm, vs)
}

// SortFrom builds a sequence holding the elements of source sorted by less.
// The source is never mutated.
func (d *Def) SortFrom(source any, less func(a, b Value) bool) (Value, error) {
	items, err := d.derivedItems(source)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
	return d.fromItems(items)
}

// FilterFrom builds a sequence holding the elements of source for which
// pred holds.
func (d *Def) FilterFrom(source any, pred func(Value) bool) (Value, error) {
	items, err := d.derivedItems(source)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, v := range items {
		if pred(v) {
			kept = append(kept, v)
		}
	}
	return d.fromItems(kept)
}

// SliceFrom builds a sequence holding a Python-style sub-range of source.
func (d *Def) SliceFrom(source any, bounds ...int) (Value, error) {
	items, err := d.derivedItems(source)
	if err != nil {
		return nil, err
	}
	start, end := sliceBounds(len(items), bounds)
	return d.fromItems(items[start:end])
}

// ReverseFrom builds a sequence holding the elements of source in reverse
// order.
func (d *Def) ReverseFrom(source any) (Value, error) {
	items, err := d.derivedItems(source)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return d.fromItems(items)
}
