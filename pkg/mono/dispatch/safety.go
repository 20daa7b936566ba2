package dispatch

import "github.com/calder-lang/mono/pkg/mono"

// checkObjectSafe applies the fixed object-safety rule: an interface is
// object-safe iff none of its methods return the implementing type itself,
// introduce their own type parameters, or are associated constants.
// Evaluated once per interface at registration; the first violation in
// declaration order is reported.
func checkObjectSafe(iface *mono.Iface) *mono.ObjectSafetyError {
	for _, m := range iface.Methods {
		switch {
		case m.ReturnsSelf:
			return &mono.ObjectSafetyError{Iface: iface.Name, Method: m.Name, Rule: mono.RuleReturnsSelf}
		case m.TypeParams > 0:
			return &mono.ObjectSafetyError{Iface: iface.Name, Method: m.Name, Rule: mono.RuleOwnTypeParams}
		case m.Const:
			return &mono.ObjectSafetyError{Iface: iface.Name, Method: m.Name, Rule: mono.RuleAssociatedConst}
		}
	}
	return nil
}
