package dispatch

import (
	"fmt"
	"reflect"

	"github.com/calder-lang/mono/pkg/mono"
)

// Table is the cached dispatch record for one (type, interface) pair: an
// ordered list of method bodies whose slot order is the interface's declared
// method order. Tables are immutable once built.
type Table struct {
	Iface string
	Type  mono.TypeID
	names []string
	slots []mono.MethodFunc
}

// Build returns the dispatch table for a (type, interface) pair, building
// and caching it on first demand. It requires the interface to be
// object-safe and the type to have a registered implementation. A failed
// build never leaves a partially-built table behind.
func (r *Registry) Build(typ mono.TypeID, ifaceName string) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	violation, ok := r.safety[ifaceName]
	if !ok {
		return nil, fmt.Errorf("unknown interface %q", ifaceName)
	}
	if violation != nil {
		return nil, violation
	}

	key := implKey{Type: r.in.Canonical(typ), Iface: ifaceName}
	if t, ok := r.tables[key]; ok {
		return t, nil
	}

	impl, ok := r.impls[key]
	if !ok {
		return nil, fmt.Errorf("type %s does not implement %s", r.in.String(typ), ifaceName)
	}

	iface := r.ifaces[ifaceName]
	t := &Table{
		Iface: ifaceName,
		Type:  key.Type,
		names: make([]string, len(iface.Methods)),
		slots: make([]mono.MethodFunc, len(iface.Methods)),
	}
	for i, m := range iface.Methods {
		fn := impl[m.Name]
		if fn == nil {
			fn = iface.Defaults[m.Name]
		}
		t.names[i] = m.Name
		t.slots[i] = fn
	}

	r.tables[key] = t
	r.log.V(1).Info("built dispatch table", "iface", ifaceName, "type", r.in.String(typ), "slots", len(t.slots))
	return t, nil
}

// Tables returns every table built so far, for downstream emission.
func (r *Registry) Tables() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	return out
}

// Len returns the number of slots.
func (t *Table) Len() int {
	return len(t.slots)
}

// SlotName returns the method name occupying a slot.
func (t *Table) SlotName(slot int) string {
	return t.names[slot]
}

// SlotIndex returns the slot for a method name.
func (t *Table) SlotIndex(name string) (int, bool) {
	for i, n := range t.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Call invokes the method in a slot with the given data handle. The index
// is the sole dynamic-dispatch overhead.
func (t *Table) Call(slot int, recv any, args ...any) any {
	return t.slots[slot](recv, args...)
}

// Equal reports structural equality: same interface, same slot names in the
// same order, same bodies. Two tables built for the same (type, interface)
// pair are always equal.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Iface != other.Iface || t.Type != other.Type || len(t.slots) != len(other.slots) {
		return false
	}
	for i := range t.slots {
		if t.names[i] != other.names[i] {
			return false
		}
		if reflect.ValueOf(t.slots[i]).Pointer() != reflect.ValueOf(other.slots[i]).Pointer() {
			return false
		}
	}
	return true
}
