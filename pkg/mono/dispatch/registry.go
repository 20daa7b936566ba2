package dispatch

import (
	"fmt"
	"sync"

	"github.com/calder-lang/mono/pkg/mono"
	"github.com/go-logr/logr"
)

// Impl maps interface method names to concrete bodies for one implementing
// type. Methods missing here fall back to the interface default, if any.
type Impl map[string]mono.MethodFunc

type implKey struct {
	Type  mono.TypeID
	Iface string
}

type Option func(*Registry)

var WithLogr = func(log logr.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// Registry records which concrete types implement which capability
// interfaces, memoizes the object-safety verdict per interface, and caches
// built dispatch tables. It is one of the two long-lived mutable shared
// structures; all access is synchronized.
type Registry struct {
	mu     sync.RWMutex
	log    logr.Logger
	in     *mono.Interner
	ifaces map[string]*mono.Iface
	impls  map[implKey]Impl
	safety map[string]*mono.ObjectSafetyError
	tables map[implKey]*Table
}

func NewRegistry(in *mono.Interner, opts ...Option) *Registry {
	r := &Registry{
		log:    logr.Discard(),
		in:     in,
		ifaces: make(map[string]*mono.Iface),
		impls:  make(map[implKey]Impl),
		safety: make(map[string]*mono.ObjectSafetyError),
		tables: make(map[implKey]*Table),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterIface makes an interface known to the registry. Its object-safety
// verdict is computed here, once, and is invariant thereafter.
func (r *Registry) RegisterIface(iface *mono.Iface) error {
	if iface == nil || iface.Name == "" {
		return fmt.Errorf("interface must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ifaces[iface.Name]; ok {
		return fmt.Errorf("duplicate interface %q", iface.Name)
	}
	r.ifaces[iface.Name] = iface
	r.safety[iface.Name] = checkObjectSafe(iface)
	r.log.V(1).Info("registered interface", "iface", iface.Name, "objectSafe", r.safety[iface.Name] == nil)
	return nil
}

// Register records that a concrete type implements an interface, for static
// (generic constraint) use. Every declared method must have a concrete body
// or an interface default.
func (r *Registry) Register(typ mono.TypeID, ifaceName string, impl Impl) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(typ, ifaceName, impl)
}

// RegisterDynamic records an implementation intended for type-erased use.
// It additionally requires the interface to be object-safe, rejecting the
// registration up front rather than at first dispatch.
func (r *Registry) RegisterDynamic(typ mono.TypeID, ifaceName string, impl Impl) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if violation, ok := r.safety[ifaceName]; ok && violation != nil {
		r.log.V(1).Info("rejected dynamic registration", "iface", ifaceName, "type", r.in.String(typ), "reason", violation.Error())
		return violation
	}
	return r.register(typ, ifaceName, impl)
}

func (r *Registry) register(typ mono.TypeID, ifaceName string, impl Impl) error {
	iface, ok := r.ifaces[ifaceName]
	if !ok {
		return fmt.Errorf("unknown interface %q", ifaceName)
	}
	if !r.in.IsConcrete(typ) {
		return fmt.Errorf("implementing type %s is not concrete", r.in.String(typ))
	}

	for name := range impl {
		if _, ok := iface.MethodIndex(name); !ok {
			return fmt.Errorf("type %s implements unknown method %s.%s", r.in.String(typ), ifaceName, name)
		}
	}
	for _, m := range iface.Methods {
		if impl[m.Name] == nil && iface.Defaults[m.Name] == nil {
			return fmt.Errorf("type %s is missing method %s.%s and no default is provided", r.in.String(typ), ifaceName, m.Name)
		}
	}

	key := implKey{Type: r.in.Canonical(typ), Iface: ifaceName}
	if _, ok := r.impls[key]; ok {
		return fmt.Errorf("type %s already implements %s", r.in.String(typ), ifaceName)
	}
	r.impls[key] = impl
	r.log.V(1).Info("registered implementation", "iface", ifaceName, "type", r.in.String(typ))
	return nil
}

// Implements reports whether a concrete type has a registered implementation
// of the interface. Binding resolution consults this for constraint checks.
func (r *Registry) Implements(typ mono.TypeID, ifaceName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.impls[implKey{Type: r.in.Canonical(typ), Iface: ifaceName}]
	return ok
}

// Iface returns a registered interface by name.
func (r *Registry) Iface(name string) (*mono.Iface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	iface, ok := r.ifaces[name]
	return iface, ok
}

// ObjectSafe returns the memoized object-safety verdict. A nil error means
// the interface can back a dispatch table.
func (r *Registry) ObjectSafe(ifaceName string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	violation, ok := r.safety[ifaceName]
	if !ok {
		return fmt.Errorf("unknown interface %q", ifaceName)
	}
	if violation != nil {
		return violation
	}
	return nil
}
