package persistence

import (
	"fmt"
	"strings"
)

// Key is a hierarchical sort key. Components may contain any bytes,
// including the separator and escape bytes used by the encoding.
type Key []string

// String renders the key for logs and errors.
func (k Key) String() string {
	return "[" + strings.Join(k, ", ") + "]"
}

// Child returns a copy of the key with extra components appended.
func (k Key) Child(components ...string) Key {
	out := make(Key, 0, len(k)+len(components))
	out = append(out, k...)
	return append(out, components...)
}

// Every component is terminated by the 0x00 separator, and component bytes
// 0x00 and 0x01 are escaped so that the separator sorts below every
// component byte. The encoding is injective (an n-component key carries n
// terminators, so Key{} and Key{""} stay distinct), its byte order equals
// the component-wise order, and every key sorts before its extensions.
const (
	keySeparator = 0x00
	keyEscape    = 0x01
)

// EncodeKey renders a key into a single byte string whose lexicographic
// order matches the component-wise order of the key.
func EncodeKey(k Key) []byte {
	var buf []byte
	for _, comp := range k {
		for j := 0; j < len(comp); j++ {
			switch comp[j] {
			case keySeparator:
				buf = append(buf, keyEscape, 0x01)
			case keyEscape:
				buf = append(buf, keyEscape, 0x02)
			default:
				buf = append(buf, comp[j])
			}
		}
		buf = append(buf, keySeparator)
	}
	return buf
}

// DecodeKey reverses EncodeKey.
func DecodeKey(data []byte) (Key, error) {
	k := Key{}
	var comp []byte
	open := false
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case keySeparator:
			k = append(k, string(comp))
			comp = comp[:0]
			open = false
		case keyEscape:
			open = true
			i++
			if i >= len(data) {
				return nil, fmt.Errorf("persistence: truncated escape in encoded key")
			}
			switch data[i] {
			case 0x01:
				comp = append(comp, keySeparator)
			case 0x02:
				comp = append(comp, keyEscape)
			default:
				return nil, fmt.Errorf("persistence: invalid escape 0x%02x in encoded key", data[i])
			}
		default:
			open = true
			comp = append(comp, data[i])
		}
	}
	if open {
		return nil, fmt.Errorf("persistence: encoded key has an unterminated component")
	}
	return k, nil
}

// PrefixRange returns the half-open encoded range [lower, upper) covering
// exactly the given key and all of its descendants. An empty prefix covers
// everything; its upper bound is nil (unbounded).
func PrefixRange(prefix Key) (lower, upper []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	lower = EncodeKey(prefix)
	// Descendants extend the encoding past its final terminator; bumping
	// that terminator past 0x00 ends the subtree without admitting any
	// sibling, whose encodings diverge before it.
	upper = append([]byte{}, lower...)
	upper[len(upper)-1] = keySeparator + 1
	return lower, upper
}
