package mono

import (
	"errors"
	"fmt"
)

// ErrAlreadyConsumed reports reuse of a pipeline after its terminal
// operation completed. Programmer error; never silently re-executed.
var ErrAlreadyConsumed = errors.New("pipeline already consumed")

// ErrInstantiationDepth reports that nested generic instantiation exceeded
// the configured depth limit.
var ErrInstantiationDepth = errors.New("instantiation depth exceeded")

// ErrInstantiationCycle reports a generic declaration that instantiates
// itself with the same type arguments.
var ErrInstantiationCycle = errors.New("instantiation cycle")

// UnsatisfiedConstraintError reports a concrete type that lacks a capability
// required by a type parameter. Raised at binding-resolution time and never
// silently defaulted.
type UnsatisfiedConstraintError struct {
	Decl       string
	Param      string
	Arg        string
	Constraint string
}

func (e *UnsatisfiedConstraintError) Error() string {
	return fmt.Sprintf("unsatisfied constraint: %s does not implement %s (required by %s of %s)",
		e.Arg, e.Constraint, e.Param, e.Decl)
}

// SafetyRule identifies which object-safety rule a method violates.
type SafetyRule uint8

const (
	RuleReturnsSelf SafetyRule = iota
	RuleOwnTypeParams
	RuleAssociatedConst
)

func (r SafetyRule) String() string {
	switch r {
	case RuleReturnsSelf:
		return "returns the implementing type"
	case RuleOwnTypeParams:
		return "introduces its own type parameters"
	case RuleAssociatedConst:
		return "is an associated constant"
	default:
		return "unknown rule"
	}
}

// ObjectSafetyError reports an interface that cannot back a dispatch table.
// Raised at registration or table-build time, fatal only for that dynamic
// use; the interface stays usable for static (generic) call sites.
type ObjectSafetyError struct {
	Iface  string
	Method string
	Rule   SafetyRule
}

func (e *ObjectSafetyError) Error() string {
	return fmt.Sprintf("interface %s is not object-safe: method %s %s", e.Iface, e.Method, e.Rule)
}
