package dispatch

import "github.com/calder-lang/mono/pkg/mono"

// Object is a type-erased value: a data handle paired with the dispatch
// table of the interface it was erased to. Heterogeneous collections are
// modeled as []Object, never as untyped unions.
type Object struct {
	data  any
	table *Table
}

// Erase wraps a concrete value for type-erased use, building (or fetching)
// the dispatch table for its registered implementation.
func (r *Registry) Erase(typ mono.TypeID, ifaceName string, data any) (Object, error) {
	t, err := r.Build(typ, ifaceName)
	if err != nil {
		return Object{}, err
	}
	return Object{data: data, table: t}, nil
}

// Table returns the object's dispatch table.
func (o Object) Table() *Table {
	return o.table
}

// Data returns the underlying data handle.
func (o Object) Data() any {
	return o.data
}

// Call invokes a table slot by interface method index: one array lookup,
// then an indirect call with the data handle.
func (o Object) Call(slot int, args ...any) any {
	return o.table.Call(slot, o.data, args...)
}

// CallNamed resolves a method name to its slot first. Call sites that know
// their slot at rewrite time should use Call directly.
func (o Object) CallNamed(name string, args ...any) (any, bool) {
	slot, ok := o.table.SlotIndex(name)
	if !ok {
		return nil, false
	}
	return o.table.Call(slot, o.data, args...), true
}
