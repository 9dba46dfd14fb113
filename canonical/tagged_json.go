package canonical

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// Tagged JSON codec
// ============================================================
//
// The tagged format is self-describing and round-trips physical type,
// logical types, and payload exactly.
//
// Leaves are strings of the form
//
//	<literal> (<chain> <tag-char>)
//
// where <chain> is the logical type chain joined by '.' or '-' when empty,
// and <tag-char> identifies the physical type:
//
//	s string, i int, f float, b bool, m moment, 6 binary, - none
//
// Moment literals are epoch milliseconds, binary literals are base64, the
// none literal is empty.
//
// Sequences are JSON arrays whose first element is the chain header.
// Mappings are JSON objects with a "type" key holding the chain header and
// every real key prefixed with ':'.

const mappingTypeKey = "type"

var tagChars = map[PhysicalType]byte{
	TypeString: 's',
	TypeInt:    'i',
	TypeFloat:  'f',
	TypeBool:   'b',
	TypeMoment: 'm',
	TypeBinary: '6',
	TypeNone:   '-',
}

// EncodeTagged serializes a canonical value to tagged JSON.
func EncodeTagged(c Canonical) ([]byte, error) {
	tree, err := taggedTree(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// taggedTree builds the json.Marshal-ready representation of a canonical.
func taggedTree(c Canonical) (any, error) {
	if c == nil {
		c = None()
	}
	header := chainHeader(c.LogicalTypes())

	switch c.PhysicalType() {
	case TypeNone:
		return taggedLeaf("", header, '-'), nil

	case TypeBool:
		v, err := c.BoolValue()
		if err != nil {
			return nil, err
		}
		return taggedLeaf(strconv.FormatBool(v), header, 'b'), nil

	case TypeInt:
		v, err := c.IntValue()
		if err != nil {
			return nil, err
		}
		return taggedLeaf(strconv.FormatInt(v, 10), header, 'i'), nil

	case TypeFloat:
		v, err := c.FloatValue()
		if err != nil {
			return nil, err
		}
		return taggedLeaf(strconv.FormatFloat(v, 'g', -1, 64), header, 'f'), nil

	case TypeString:
		v, err := c.StringValue()
		if err != nil {
			return nil, err
		}
		return taggedLeaf(v, header, 's'), nil

	case TypeMoment:
		v, err := c.MomentValue()
		if err != nil {
			return nil, err
		}
		ms := strconv.FormatFloat(float64(v.UnixMilli()), 'f', -1, 64)
		return taggedLeaf(ms, header, 'm'), nil

	case TypeBinary:
		v, err := c.BinaryValue()
		if err != nil {
			return nil, err
		}
		return taggedLeaf(base64.StdEncoding.EncodeToString(v), header, '6'), nil

	case TypeSequence:
		it, err := c.FirstSequenceItem()
		if err != nil {
			return nil, err
		}
		arr := []any{header}
		for ; it != nil; it = it.Next() {
			child, err := taggedTree(it.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, child)
		}
		return arr, nil

	case TypeMapping:
		it, err := c.FirstMappingEntry()
		if err != nil {
			return nil, err
		}
		obj := map[string]any{mappingTypeKey: header}
		for ; it != nil; it = it.Next() {
			child, err := taggedTree(it.Value())
			if err != nil {
				return nil, err
			}
			obj[":"+it.Key()] = child
		}
		return obj, nil

	default:
		return nil, fmt.Errorf("canonical: unsupported physical type %s", c.PhysicalType())
	}
}

func taggedLeaf(literal, header string, tag byte) string {
	return literal + " (" + header + " " + string(tag) + ")"
}

func chainHeader(types []string) string {
	if len(types) == 0 {
		return "-"
	}
	return strings.Join(types, ".")
}

// DecodeTagged parses a tagged JSON document back into a canonical value.
// The result is fully materialized.
func DecodeTagged(data []byte) (Canonical, error) {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, &EncodingError{Message: "invalid JSON: " + err.Error()}
	}
	return decodeTaggedTree(tree)
}

func decodeTaggedTree(tree any) (Canonical, error) {
	switch node := tree.(type) {
	case string:
		return decodeTaggedLeaf(node)

	case []any:
		if len(node) == 0 {
			return nil, &EncodingError{Message: "sequence is missing its type header"}
		}
		header, ok := node[0].(string)
		if !ok {
			return nil, &EncodingError{Message: "sequence type header must be a string"}
		}
		types, err := parseChainHeader(header)
		if err != nil {
			return nil, err
		}
		items := make([]Canonical, 0, len(node)-1)
		for _, child := range node[1:] {
			c, err := decodeTaggedTree(child)
			if err != nil {
				return nil, err
			}
			items = append(items, c)
		}
		return FromSlice(items, types...), nil

	case map[string]any:
		rawHeader, ok := node[mappingTypeKey]
		if !ok {
			return nil, &EncodingError{Message: "mapping is missing its type key"}
		}
		header, ok := rawHeader.(string)
		if !ok {
			return nil, &EncodingError{Message: "mapping type key must be a string"}
		}
		types, err := parseChainHeader(header)
		if err != nil {
			return nil, err
		}
		entries := make(map[string]Canonical, len(node)-1)
		for key, child := range node {
			if key == mappingTypeKey {
				continue
			}
			if !strings.HasPrefix(key, ":") {
				return nil, &EncodingError{Message: "mapping key is not prefixed", Input: key}
			}
			c, err := decodeTaggedTree(child)
			if err != nil {
				return nil, err
			}
			entries[key[1:]] = c
		}
		return FromMap(entries, types...), nil

	default:
		return nil, &EncodingError{Message: fmt.Sprintf("unexpected JSON node of type %T", tree)}
	}
}

// decodeTaggedLeaf parses "<literal> (<chain> <tag-char>)". The literal may
// itself contain " (", so the annotation is located from the right.
func decodeTaggedLeaf(s string) (Canonical, error) {
	if !strings.HasSuffix(s, ")") {
		return nil, &EncodingError{Message: "leaf does not end with ')'", Input: s}
	}
	idx := strings.LastIndex(s, " (")
	if idx < 0 {
		return nil, &EncodingError{Message: "leaf has no type annotation", Input: s}
	}
	literal := s[:idx]
	annotation := s[idx+2 : len(s)-1]

	sep := strings.LastIndexByte(annotation, ' ')
	if sep < 0 || sep != len(annotation)-2 {
		return nil, &EncodingError{Message: "leaf annotation must be '<chain> <tag-char>'", Input: s}
	}
	header := annotation[:sep]
	tag := annotation[sep+1]

	types, err := parseChainHeader(header)
	if err != nil {
		return nil, err
	}

	switch tag {
	case '-':
		if literal != "" {
			return nil, &EncodingError{Message: "none leaf must have an empty literal", Input: s}
		}
		return NoneAs(types...), nil

	case 'b':
		switch literal {
		case "true":
			return BoolAs(true, types...), nil
		case "false":
			return BoolAs(false, types...), nil
		}
		return nil, &EncodingError{Message: "invalid bool literal", Input: s}

	case 'i':
		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, &EncodingError{Message: "invalid int literal", Input: s}
		}
		return IntAs(n, types...), nil

	case 'f':
		x, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, &EncodingError{Message: "invalid float literal", Input: s}
		}
		return FloatAs(x, types...), nil

	case 's':
		return StringAs(literal, types...), nil

	case 'm':
		ms, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, &EncodingError{Message: "invalid moment literal", Input: s}
		}
		return MomentAs(time.UnixMilli(int64(ms)).UTC(), types...), nil

	case '6':
		data, err := base64.StdEncoding.DecodeString(literal)
		if err != nil {
			return nil, &EncodingError{Message: "invalid base64 literal", Input: s}
		}
		return BinaryAs(data, types...), nil

	default:
		return nil, &EncodingError{Message: "unknown tag character", Input: s}
	}
}

func parseChainHeader(header string) ([]string, error) {
	if header == "-" {
		return nil, nil
	}
	if header == "" {
		return nil, &EncodingError{Message: "empty type header"}
	}
	types := strings.Split(header, ".")
	for _, t := range types {
		if t == "" || strings.ContainsAny(t, " ()") {
			return nil, &EncodingError{Message: "invalid logical type name", Input: header}
		}
	}
	return types, nil
}
