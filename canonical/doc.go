// Package canonical implements the canonical value model: an immutable,
// language-neutral representation of structured data that carries both a
// physical type (how the value is stored) and a logical type chain (what the
// value means, from most general to most specific).
//
// # Data Model
//
// Scalars: none, bool, int, float, string, moment, binary
// Containers: sequence (ordered), mapping (string-keyed, unordered)
//
// Every value additionally carries a logical type chain such as
// ["name", "first-name"]. An empty chain means "untyped".
//
// # Subtyping
//
// Chain B is a base of chain A iff B is a prefix of A. The comparison runs
// tail-first within the prefix region: specificity increases left to right,
// so the deepest positions are the ones most likely to differ. The empty
// chain is a base of everything.
//
// # Containers
//
// Sequences and mappings yield children through forward-only, single-pass
// cursors. Whether a fresh cursor can be requested again is a property of
// the backing source, not of the cursor API: slice- and map-backed
// canonicals restart cheaply, generator-backed canonicals are one-shot.
//
// # Codecs
//
// Two JSON codecs are provided. Tagged JSON is self-describing and
// round-trips physical type, logical types, and payload exactly. Plain JSON
// encodes only the native shape; decoding it yields type-inferring Flex
// values that coerce on access and claim compatibility with every logical
// type, deferring all correctness checks to the moment the data is consumed
// as a typed value.
package canonical
