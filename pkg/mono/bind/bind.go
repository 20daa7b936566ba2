package bind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/calder-lang/mono/pkg/mono"
	"github.com/calder-lang/mono/pkg/mono/dispatch"
	"go.uber.org/multierr"
)

// Key is the canonical, comparable identity of one concrete instantiation:
// the declaration name plus an ordered encoding of the canonical type
// arguments.
//
// Note: Go maps cannot use slices as keys, so the arguments are folded into
// a stable ArgsKey string; the normalized TypeIDs live on the Binding.
type Key struct {
	Decl    string
	ArgsKey string
}

func (k Key) String() string {
	if k.ArgsKey == "" {
		return k.Decl
	}
	return k.Decl + "[" + k.ArgsKey + "]"
}

// Binding couples a Key with everything generation needs: the declaration
// and the canonicalized concrete argument list.
type Binding struct {
	Key  Key
	Decl *mono.GenericDecl
	Args []mono.TypeID
}

// Resolve produces the specialization key for a declaration applied to
// concrete argument types. It is a pure function: argument order is part of
// the key, aliases canonicalize to their underlying types before key
// construction, and every unsatisfied capability constraint is reported.
func Resolve(in *mono.Interner, reg *dispatch.Registry, decl *mono.GenericDecl, args ...mono.TypeID) (Binding, error) {
	if decl == nil {
		return Binding{}, fmt.Errorf("nil declaration")
	}
	if len(args) != decl.Arity() {
		return Binding{}, fmt.Errorf("declaration %q expects %d type arguments, got %d", decl.Name, decl.Arity(), len(args))
	}

	normalized := make([]mono.TypeID, len(args))
	var err error
	for i, arg := range args {
		c := in.Canonical(arg)
		if !in.IsConcrete(c) {
			err = multierr.Append(err, fmt.Errorf("argument %d of %q is not a concrete type", i, decl.Name))
			continue
		}
		normalized[i] = c

		for _, constraint := range decl.Params[i].Constraints {
			if !reg.Implements(c, constraint) {
				err = multierr.Append(err, &mono.UnsatisfiedConstraintError{
					Decl:       decl.Name,
					Param:      decl.Params[i].Name,
					Arg:        in.String(c),
					Constraint: constraint,
				})
			}
		}
	}
	if err != nil {
		return Binding{}, err
	}

	return Binding{
		Key:  Key{Decl: decl.Name, ArgsKey: typeArgsKey(normalized)},
		Decl: decl,
		Args: normalized,
	}, nil
}

func typeArgsKey(args []mono.TypeID) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(arg), 10))
	}
	return b.String()
}
