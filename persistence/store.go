package persistence

import (
	"bytes"
	"sort"
	"sync"
)

// Item is one stored record within a partition.
type Item struct {
	SortKey Key
	Payload []byte
}

// Store is an ordered key-value store. Records live under a partition key
// and are ordered within the partition by their encoded sort key. Payloads
// are opaque bytes; MarshalCanonical produces the payload format used for
// canonical values.
type Store interface {
	// Load returns the payload under the keys, or nil when absent.
	Load(partition, sortKey Key) ([]byte, error)
	// Store writes a payload. A nil payload deletes the record.
	Store(partition, sortKey Key, payload []byte) error
	// Query returns the partition's items whose encoded sort key lies in
	// the half-open range [from, to), ordered by encoded sort key. A nil
	// bound is unbounded on that side.
	Query(partition Key, from, to Key) ([]Item, error)
	// QueryPrefix returns the partition's items whose sort key is prefix
	// or a descendant of it, ordered by encoded sort key.
	QueryPrefix(partition, prefix Key) ([]Item, error)
}

// MemoryStore is an in-process Store, safe for concurrent use. Each
// partition keeps its records in a slice sorted by encoded sort key.
type MemoryStore struct {
	mu    sync.RWMutex
	parts map[string]*memPartition
}

type memPartition struct {
	keys [][]byte // encoded sort keys, sorted
	vals map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{parts: map[string]*memPartition{}}
}

var _ Store = (*MemoryStore)(nil)

// Load returns the payload under the keys, or nil when absent.
func (s *MemoryStore) Load(partition, sortKey Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.parts[string(EncodeKey(partition))]
	if p == nil {
		return nil, nil
	}
	return p.vals[string(EncodeKey(sortKey))], nil
}

// Store writes a payload; a nil payload deletes the record.
func (s *MemoryStore) Store(partition, sortKey Key, payload []byte) error {
	pkey := string(EncodeKey(partition))
	enc := EncodeKey(sortKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.parts[pkey]
	if p == nil {
		if payload == nil {
			return nil
		}
		p = &memPartition{vals: map[string][]byte{}}
		s.parts[pkey] = p
	}

	i := sort.Search(len(p.keys), func(i int) bool { return bytes.Compare(p.keys[i], enc) >= 0 })
	present := i < len(p.keys) && bytes.Equal(p.keys[i], enc)

	if payload == nil {
		if present {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			delete(p.vals, string(enc))
			if len(p.keys) == 0 {
				delete(s.parts, pkey)
			}
		}
		return nil
	}
	if !present {
		p.keys = append(p.keys, nil)
		copy(p.keys[i+1:], p.keys[i:])
		p.keys[i] = enc
	}
	p.vals[string(enc)] = payload
	return nil
}

// Query returns the partition's items in [from, to) by encoded sort key.
func (s *MemoryStore) Query(partition Key, from, to Key) ([]Item, error) {
	var lower, upper []byte
	if from != nil {
		lower = EncodeKey(from)
	}
	if to != nil {
		upper = EncodeKey(to)
	}
	return s.scan(partition, lower, upper)
}

// QueryPrefix returns the partition's items under prefix.
func (s *MemoryStore) QueryPrefix(partition, prefix Key) ([]Item, error) {
	lower, upper := PrefixRange(prefix)
	return s.scan(partition, lower, upper)
}

func (s *MemoryStore) scan(partition Key, lower, upper []byte) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.parts[string(EncodeKey(partition))]
	if p == nil {
		return nil, nil
	}
	start := 0
	if lower != nil {
		start = sort.Search(len(p.keys), func(i int) bool { return bytes.Compare(p.keys[i], lower) >= 0 })
	}
	var items []Item
	for i := start; i < len(p.keys); i++ {
		if upper != nil && bytes.Compare(p.keys[i], upper) >= 0 {
			break
		}
		k, err := DecodeKey(p.keys[i])
		if err != nil {
			return nil, err
		}
		items = append(items, Item{SortKey: k, Payload: p.vals[string(p.keys[i])]})
	}
	return items, nil
}

// Partitions returns the number of non-empty partitions.
func (s *MemoryStore) Partitions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.parts)
}
