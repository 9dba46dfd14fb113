package valueobject

import (
	"sort"
)

// Slots is the field collection assembled during struct or mapping
// construction and handed to slot validators. Construction extracts the
// collection into the finished value object; any access after extraction
// fails with *ExtractedError. Keys are stored verbatim; struct construction
// canonicalizes field names before storing them.
type Slots struct {
	m         map[string]Value
	extracted bool
}

// NewSlots creates an empty slot collection.
func NewSlots() *Slots {
	return &Slots{m: map[string]Value{}}
}

func (s *Slots) guard() error {
	if s.extracted {
		return &ExtractedError{What: "slots"}
	}
	return nil
}

// Set stores a slot value under its key.
func (s *Slots) Set(key string, v Value) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.m[key] = v
	return nil
}

// Get returns the slot value for key, or nil when absent.
func (s *Slots) Get(key string) (Value, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.m[key], nil
}

// Has reports whether a slot is present.
func (s *Slots) Has(key string) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	_, ok := s.m[key]
	return ok, nil
}

// Keys returns the slot keys in sorted order.
func (s *Slots) Keys() ([]string, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of slots.
func (s *Slots) Len() (int, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	return len(s.m), nil
}

// extract hands the underlying map to the finished value object. It may run
// once; the collection is inaccessible afterwards.
func (s *Slots) extract() (map[string]Value, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	s.extracted = true
	m := s.m
	s.m = nil
	return m, nil
}

// Items is the element collection assembled during sequence construction
// and handed to item validators, with the same extraction semantics as
// Slots.
type Items struct {
	list      []Value
	extracted bool
}

// NewItems creates an empty item collection.
func NewItems() *Items {
	return &Items{}
}

func (s *Items) guard() error {
	if s.extracted {
		return &ExtractedError{What: "items"}
	}
	return nil
}

// Append adds an element at the end.
func (s *Items) Append(v Value) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.list = append(s.list, v)
	return nil
}

// At returns the i-th element.
func (s *Items) At(i int) (Value, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(s.list) {
		return nil, nil
	}
	return s.list[i], nil
}

// Len returns the number of elements.
func (s *Items) Len() (int, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	return len(s.list), nil
}

// All returns the elements in order. The returned slice is shared with the
// collection and must not be mutated.
func (s *Items) All() ([]Value, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.list, nil
}

// extract hands the underlying slice to the finished value object. It may
// run once; the collection is inaccessible afterwards.
func (s *Items) extract() ([]Value, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	s.extracted = true
	list := s.list
	s.list = nil
	return list, nil
}
