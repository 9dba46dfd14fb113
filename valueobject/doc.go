// Package valueobject implements typed, validated wrappers around canonical
// values: primitives, structs, sequences, and mappings.
//
// Every concrete value type is described by a Def built exactly once through
// an explicit builder and optionally registered in the package registry:
//
//	var FirstName = valueobject.NewStringDef("first-name").
//		ValidateValue(mustContainUppercase).
//		MustBuild()
//
//	var Person = valueobject.NewStructDef("person").
//		Required("firstName", FirstName).
//		Optional("lastName", LastName).
//		MustBuild()
//
// A Def extending another Def appends its own type name to the base chain,
// so instances of the derived type satisfy Is checks against the base.
//
// Values are constructed once through validated input (a native value, a
// canonical, or another compatible value object) and are immutable
// afterwards. The canonical representation is derived lazily and cached for
// the lifetime of the instance.
//
// Validation aggregates: a failing construction reports every violation
// found at that level (all missing fields, all failing validators), not
// just the first.
package valueobject
