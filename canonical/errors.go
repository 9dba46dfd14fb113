package canonical

import (
	"fmt"
	"strings"
)

// PhysicalTypeError reports that a payload getter inconsistent with the
// value's physical type was invoked, or that a Flex value could not be
// coerced to the requested physical type.
type PhysicalTypeError struct {
	Requested    PhysicalType
	Actual       PhysicalType
	LogicalTypes []string
	Detail       string
}

func (e *PhysicalTypeError) Error() string {
	chain := strings.Join(e.LogicalTypes, ".")
	if chain == "" {
		chain = "-"
	}
	msg := fmt.Sprintf("canonical: expected %s, got %s (logical types %s)",
		e.Requested, e.Actual, chain)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// LogicalTypeError reports that a logical type chain is not a subtype of the
// expected chain.
type LogicalTypeError struct {
	Expected []string
	Actual   []string
}

func (e *LogicalTypeError) Error() string {
	return fmt.Sprintf("canonical: logical types [%s] are not compatible with [%s]",
		strings.Join(e.Actual, "."), strings.Join(e.Expected, "."))
}

// EncodingError reports a document that does not conform to the tagged JSON
// grammar.
type EncodingError struct {
	Message string
	Input   string
}

func (e *EncodingError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("canonical: malformed encoding: %s: %q", e.Message, e.Input)
	}
	return "canonical: malformed encoding: " + e.Message
}

func mismatch(requested PhysicalType, v Canonical) *PhysicalTypeError {
	return &PhysicalTypeError{
		Requested:    requested,
		Actual:       v.PhysicalType(),
		LogicalTypes: v.LogicalTypes(),
	}
}
