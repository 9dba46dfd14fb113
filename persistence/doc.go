// Package persistence stores opaque payloads under partition and sort keys,
// with canonical values as the payload format.
//
// A key is a list of string components. Keys are encoded into a single byte
// string whose lexicographic order equals the component-wise order of the
// original lists, with a shorter prefix sorting before any extension of it.
// That property makes prefix range scans over an ordered store return
// exactly the subtree under a key.
//
// Canonical payloads travel as a compact binary envelope: the canonical is
// rendered to its tagged wire form, optionally compressed, and wrapped in
// CBOR together with the format metadata needed to reverse the process.
package persistence
