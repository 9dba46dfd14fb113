package canonical

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ============================================================
// Plain JSON codec
// ============================================================
//
// The plain format encodes only the native shape of a value; logical types
// are not preserved. Scalars other than moments are emitted as strings of
// their literal so that no precision is lost to JSON number handling:
//
//	none     null
//	bool     "true" / "false"
//	int      "42"
//	float    "3.14"
//	string   as-is
//	binary   base64 string
//	moment   epoch-millisecond number
//	sequence JSON array
//	mapping  JSON object
//
// Decoding a plain document yields Flex values with best-effort type
// recovery on access.

// EncodePlain serializes a canonical value to plain JSON.
func EncodePlain(c Canonical) ([]byte, error) {
	tree, err := plainTree(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

func plainTree(c Canonical) (any, error) {
	if c == nil {
		return nil, nil
	}

	switch c.PhysicalType() {
	case TypeNone:
		return nil, nil

	case TypeBool:
		v, err := c.BoolValue()
		if err != nil {
			return nil, err
		}
		return strconv.FormatBool(v), nil

	case TypeInt:
		v, err := c.IntValue()
		if err != nil {
			return nil, err
		}
		return strconv.FormatInt(v, 10), nil

	case TypeFloat:
		v, err := c.FloatValue()
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("canonical: NaN/Infinity cannot be encoded as plain JSON")
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil

	case TypeString:
		return c.StringValue()

	case TypeBinary:
		v, err := c.BinaryValue()
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.EncodeToString(v), nil

	case TypeMoment:
		v, err := c.MomentValue()
		if err != nil {
			return nil, err
		}
		return float64(v.UnixMilli()), nil

	case TypeSequence:
		it, err := c.FirstSequenceItem()
		if err != nil {
			return nil, err
		}
		arr := make([]any, 0)
		for ; it != nil; it = it.Next() {
			child, err := plainTree(it.Value())
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
		obj := make(map[string]any)
		for ; it != nil; it = it.Next() {
			child, err := plainTree(it.Value())
			if err != nil {
				return nil, err
			}
			obj[it.Key()] = child
		}
		return obj, nil

	default:
		return nil, fmt.Errorf("canonical: unsupported physical type %s", c.PhysicalType())
	}
}

// DecodePlain parses a plain JSON document into a type-inferring Flex
// canonical. The result carries no logical types; re-validate it against a
// target schema to recover typed values.
func DecodePlain(data []byte) (Canonical, error) {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, &EncodingError{Message: "invalid JSON: " + err.Error()}
	}
	return NewFlex(tree), nil
}
