package mono

import (
	"fmt"

	"fortio.org/safecast"
)

// TypeID is a stable handle for an interned type descriptor.
type TypeID uint32

// NoTypeID marks an absent or invalid type.
const NoTypeID TypeID = 0

type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	// KindNamed is a user-defined concrete nominal type.
	KindNamed
	// KindAlias is a surface spelling for another type. Elem holds the target.
	KindAlias
	// KindParam is a generic type parameter; never concrete.
	KindParam
)

// Type is a structural descriptor. Descriptors are value types and compare
// by structure, which is what makes interning give stable identities.
type Type struct {
	Kind Kind
	Name string
	Elem TypeID
}

// Builtins stores TypeIDs for the primitive types every program uses.
type Builtins struct {
	Bool   TypeID
	Int    TypeID
	Float  TypeID
	String TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Structurally equal descriptors always map to the same TypeID.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 16),
	}
	in.types = append(in.types, Type{Kind: KindInvalid}) // reserve 0 as invalid
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Named interns a user-defined concrete nominal type.
func (in *Interner) Named(name string) TypeID {
	return in.Intern(Type{Kind: KindNamed, Name: name})
}

// Param interns a generic type parameter placeholder.
func (in *Interner) Param(name string) TypeID {
	return in.Intern(Type{Kind: KindParam, Name: name})
}

// Alias interns a new spelling for an existing type. The alias has its own
// TypeID, but Canonical resolves it back to the underlying type, so it never
// contributes a distinct specialization key.
func (in *Interner) Alias(name string, underlying TypeID) TypeID {
	return in.Intern(Type{Kind: KindAlias, Name: name, Elem: underlying})
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("mono: invalid TypeID")
	}
	return tt
}

// Canonical follows alias links to the underlying type. Non-alias types are
// their own canonical form.
func (in *Interner) Canonical(id TypeID) TypeID {
	for {
		tt, ok := in.Lookup(id)
		if !ok || tt.Kind != KindAlias {
			return id
		}
		id = tt.Elem
	}
}

// IsConcrete reports whether the type can appear in a specialization key.
func (in *Interner) IsConcrete(id TypeID) bool {
	tt, ok := in.Lookup(in.Canonical(id))
	if !ok {
		return false
	}
	return tt.Kind != KindParam && tt.Kind != KindInvalid
}

// String renders a type for diagnostics and specialized symbol names.
func (in *Interner) String(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindNamed, KindParam:
		return tt.Name
	case KindAlias:
		return in.String(tt.Elem)
	default:
		return "<invalid>"
	}
}
