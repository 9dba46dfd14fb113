package valueobject

import (
	"fmt"
	"strings"
)

// Violation codes carried by ValidationError.
const (
	CodeMissingRequiredField = "missing_required_field"
	CodeUnknownField         = "unknown_field"
	CodeValidatorFailed      = "validator_failed"
	CodeNoneNotAllowed       = "none_not_allowed"
	CodeTypeIncompatible     = "type_incompatible"
)

// Violation is a single validation failure within one construction pass.
type Violation struct {
	Path    string // field path relative to the value under construction
	Code    string // machine-readable code
	Message string
}

func (v Violation) String() string {
	if v.Path != "" {
		return v.Path + ": " + v.Message
	}
	return v.Message
}

// ValidationError aggregates every violation found while constructing one
// value object. Construction enumerates all fields and all validators at a
// level before failing, so the error lists each problem found in that pass.
type ValidationError struct {
	Types      []string // logical type chain of the value under construction
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("valueobject: validation of [%s] failed: %s",
		strings.Join(e.Types, "."), strings.Join(msgs, "; "))
}

// Has reports whether any violation carries the given code.
func (e *ValidationError) Has(code string) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// ExtractedError reports access to a slot or item collection after it was
// extracted into a constructed value object.
type ExtractedError struct {
	What string // "slots" or "items"
}

func (e *ExtractedError) Error() string {
	return fmt.Sprintf("valueobject: %s were already extracted and can no longer be accessed", e.What)
}
