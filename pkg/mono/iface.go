package mono

// MethodFunc is an executable method body. recv is the receiver's data
// handle; the callee is responsible for asserting it to its concrete type.
type MethodFunc func(recv any, args ...any) any

// Method is one signature of a capability interface. The fields carry
// exactly what the object-safety rule inspects.
type Method struct {
	Name   string
	Params []string
	Return string
	// ReturnsSelf marks a method returning the implementing type itself,
	// as opposed to a concrete unrelated type or an interface-typed value.
	ReturnsSelf bool
	// TypeParams counts method-level type parameters introduced beyond the
	// interface's own.
	TypeParams int
	// Const marks an associated constant rather than a callable method.
	Const bool
}

// Iface is a named set of method signatures a type may implement.
// Interfaces are created at load time and immutable afterwards; their
// object-safety verdict is computed once and cached by the registry.
type Iface struct {
	Name    string
	Methods []Method
	// Defaults maps method names to provided bodies. A per-type
	// implementation may shadow a default; resolution order is concrete
	// implementation first, then default.
	Defaults map[string]MethodFunc
}

// NewIface builds an interface with the given declared method order. Slot
// order in dispatch tables follows this order exactly.
func NewIface(name string, methods ...Method) *Iface {
	return &Iface{Name: name, Methods: methods}
}

// WithDefault attaches a default body for the named method and returns the
// interface for chaining during load-time construction.
func (i *Iface) WithDefault(method string, fn MethodFunc) *Iface {
	if i.Defaults == nil {
		i.Defaults = make(map[string]MethodFunc)
	}
	i.Defaults[method] = fn
	return i
}

// MethodIndex returns the declared position of a method.
func (i *Iface) MethodIndex(name string) (int, bool) {
	for idx, m := range i.Methods {
		if m.Name == name {
			return idx, true
		}
	}
	return 0, false
}
