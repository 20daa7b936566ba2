// Package mono holds the shared data model for the specialization and
// dispatch middle-end: interned type descriptors, generic declarations with
// substitutable bodies, capability interfaces, the error taxonomy, and
// context-carried generation options.
//
// Key pieces:
// - Interner: stable TypeIDs for structural descriptors, alias-aware
// - GenericDecl/DeclSet: immutable parameterized declarations
// - Iface/Method: capability interfaces with optional default bodies
// - UnsatisfiedConstraintError, ObjectSafetyError, ErrAlreadyConsumed
// - WithGenerateParallelism/WithInstantiationDepth: context options
//
// Everything here is created at load time and treated as immutable by the
// bind, inst, dispatch, and rewrite packages built on top.
package mono
