package mono

import "fmt"

// TypeParam is one declared type parameter with its capability constraints.
type TypeParam struct {
	Name        string
	Constraints []string
}

type FragmentKind uint8

const (
	// FragText is a literal piece of the declaration body.
	FragText FragmentKind = iota
	// FragParam references a type parameter by index; specialization replaces
	// it with the concrete type's name verbatim.
	FragParam
	// FragCall references another generic declaration, passing through a
	// subset of this declaration's type parameters. Nested calls are what make
	// instantiation counts compose multiplicatively.
	FragCall
)

// Fragment is one element of a declaration body.
type Fragment struct {
	Kind   FragmentKind
	Text   string
	Param  int
	Callee string
	Args   []int
}

// Text builds a literal fragment.
func Text(s string) Fragment {
	return Fragment{Kind: FragText, Text: s}
}

// ParamRef builds a fragment substituting the i-th type parameter.
func ParamRef(i int) Fragment {
	return Fragment{Kind: FragParam, Param: i}
}

// CallRef builds a nested generic call fragment. args are indices into the
// enclosing declaration's parameter list.
func CallRef(callee string, args ...int) Fragment {
	return Fragment{Kind: FragCall, Callee: callee, Args: args}
}

// GenericDecl is a named unit of code parameterized by type parameters.
// Declarations are created at load time and never mutated afterwards.
type GenericDecl struct {
	Name   string
	Params []TypeParam
	Body   []Fragment
}

// Arity returns the number of type parameters.
func (d *GenericDecl) Arity() int {
	return len(d.Params)
}

// DeclSet holds the generic declarations of one compilation unit, keyed by
// name. Nested call fragments are resolved against it.
type DeclSet map[string]*GenericDecl

// Add registers a declaration, rejecting duplicates and out-of-range
// fragment references up front so generation never sees a malformed body.
func (s DeclSet) Add(d *GenericDecl) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("declaration must have a name")
	}
	if _, ok := s[d.Name]; ok {
		return fmt.Errorf("duplicate declaration %q", d.Name)
	}
	for _, f := range d.Body {
		switch f.Kind {
		case FragParam:
			if f.Param < 0 || f.Param >= len(d.Params) {
				return fmt.Errorf("declaration %q: fragment references parameter %d of %d", d.Name, f.Param, len(d.Params))
			}
		case FragCall:
			for _, a := range f.Args {
				if a < 0 || a >= len(d.Params) {
					return fmt.Errorf("declaration %q: call to %q references parameter %d of %d", d.Name, f.Callee, a, len(d.Params))
				}
			}
		}
	}
	s[d.Name] = d
	return nil
}

// Get looks up a declaration by name.
func (s DeclSet) Get(name string) (*GenericDecl, bool) {
	d, ok := s[name]
	return d, ok
}
