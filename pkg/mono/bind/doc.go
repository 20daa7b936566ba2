// Package bind resolves a generic declaration applied to concrete argument
// types into a canonical specialization key.
//
// Resolution is pure and order-sensitive: two call sites with structurally
// equal argument lists against the same declaration always produce equal
// keys, and type aliases resolve to their underlying types first so a
// surface spelling never mints a spurious duplicate instantiation.
// Capability constraints are checked against the dispatch registry; all
// violations for a call site are reported together.
package bind
