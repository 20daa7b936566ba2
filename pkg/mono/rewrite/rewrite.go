package rewrite

import (
	"context"
	"fmt"
	"sync"

	"github.com/calder-lang/mono/pkg/mono"
	"github.com/calder-lang/mono/pkg/mono/bind"
	"github.com/calder-lang/mono/pkg/mono/dispatch"
	"github.com/calder-lang/mono/pkg/mono/inst"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

type SiteKind uint8

const (
	// StaticSite calls directly into a generated specialization.
	StaticSite SiteKind = iota
	// DynamicSite calls indirectly through a dispatch-table slot.
	DynamicSite
)

func (k SiteKind) String() string {
	if k == DynamicSite {
		return "dynamic"
	}
	return "static"
}

// CallSite references either a generic declaration with fully known
// concrete argument types, or an interface method on a type-erased value.
// Which of the two it is follows from what is statically known at the site,
// not from anything decided at run time.
type CallSite struct {
	Label string

	// Static form: target declaration and its concrete type arguments.
	Decl     string
	TypeArgs []mono.TypeID

	// Dynamic form: interface method on a type-erased value. RecvType may
	// name the backing concrete type when the registry knows it, letting the
	// rewriter surface the dispatch table eagerly.
	Iface    string
	Method   string
	RecvType mono.TypeID
}

// Dynamic reports whether the site's argument is known only through a
// capability interface.
func (s CallSite) Dynamic() bool {
	return s.Iface != ""
}

// Plan is the fixed resolution of one call site. A site never switches
// strategy after rewriting.
type Plan struct {
	Site CallSite
	Kind SiteKind

	// Static resolution: the specialization to call directly.
	Record *inst.Record

	// Dynamic resolution: the vtable slot, plus the table when the backing
	// type was known at rewrite time.
	Slot  int
	Table *dispatch.Table
}

// Invoke executes a dynamic plan against a type-erased object.
func (p Plan) Invoke(obj dispatch.Object, args ...any) (any, error) {
	if p.Kind != DynamicSite {
		return nil, fmt.Errorf("call site %q resolved statically; call its Record instead", p.Site.Label)
	}
	return obj.Call(p.Slot, args...), nil
}

type Option func(*Rewriter)

var WithLogr = func(log logr.Logger) Option {
	return func(r *Rewriter) {
		r.log = log
	}
}

// Rewriter decides, once per call site, whether the site resolves through a
// specialization record or a dispatch-table slot. Decisions are memoized by
// site label for the life of the program; mixed strategies in one program
// are expected and correct.
type Rewriter struct {
	log   logr.Logger
	in    *mono.Interner
	reg   *dispatch.Registry
	cache *inst.Cache
	decls mono.DeclSet

	mu    sync.Mutex
	plans map[string]Plan
}

func New(in *mono.Interner, reg *dispatch.Registry, cache *inst.Cache, decls mono.DeclSet, opts ...Option) *Rewriter {
	r := &Rewriter{
		log:   logr.Discard(),
		in:    in,
		reg:   reg,
		cache: cache,
		decls: decls,
		plans: make(map[string]Plan),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Rewrite resolves one call site. Errors surface synchronously and no
// fallback between strategies is ever attempted: an unsatisfied constraint
// or object-safety violation fails the site outright.
func (r *Rewriter) Rewrite(ctx context.Context, site CallSite) (Plan, error) {
	if site.Label == "" {
		return Plan{}, fmt.Errorf("call site must carry a label")
	}

	r.mu.Lock()
	if plan, ok := r.plans[site.Label]; ok {
		r.mu.Unlock()
		return plan, nil
	}
	r.mu.Unlock()

	var plan Plan
	var err error
	if site.Dynamic() {
		plan, err = r.rewriteDynamic(site)
	} else {
		plan, err = r.rewriteStatic(ctx, site)
	}
	if err != nil {
		return Plan{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.plans[site.Label]; ok {
		return existing, nil
	}
	r.plans[site.Label] = plan
	r.log.V(1).Info("rewrote call site", "site", site.Label, "kind", plan.Kind.String())
	return plan, nil
}

func (r *Rewriter) rewriteStatic(ctx context.Context, site CallSite) (Plan, error) {
	decl, ok := r.decls.Get(site.Decl)
	if !ok {
		return Plan{}, fmt.Errorf("call site %q targets unknown declaration %q", site.Label, site.Decl)
	}
	b, err := bind.Resolve(r.in, r.reg, decl, site.TypeArgs...)
	if err != nil {
		return Plan{}, fmt.Errorf("call site %q: %w", site.Label, err)
	}
	rec, err := r.cache.GetOrCreateAt(ctx, b, inst.Site{Caller: site.Label})
	if err != nil {
		return Plan{}, fmt.Errorf("call site %q: %w", site.Label, err)
	}
	return Plan{Site: site, Kind: StaticSite, Record: rec}, nil
}

func (r *Rewriter) rewriteDynamic(site CallSite) (Plan, error) {
	if err := r.reg.ObjectSafe(site.Iface); err != nil {
		return Plan{}, fmt.Errorf("call site %q: %w", site.Label, err)
	}
	iface, ok := r.reg.Iface(site.Iface)
	if !ok {
		return Plan{}, fmt.Errorf("call site %q targets unknown interface %q", site.Label, site.Iface)
	}
	slot, ok := iface.MethodIndex(site.Method)
	if !ok {
		return Plan{}, fmt.Errorf("call site %q targets unknown method %s.%s", site.Label, site.Iface, site.Method)
	}

	plan := Plan{Site: site, Kind: DynamicSite, Slot: slot}
	if site.RecvType != mono.NoTypeID {
		table, err := r.reg.Build(site.RecvType, site.Iface)
		if err != nil {
			return Plan{}, fmt.Errorf("call site %q: %w", site.Label, err)
		}
		plan.Table = table
	}
	return plan, nil
}

// Program is the flat unit set handed to the downstream emitter: every
// rewritten site plus the deduplicated records and tables they reference.
type Program struct {
	Plans   []Plan
	Records []*inst.Record
	Tables  []*dispatch.Table
}

// RewriteAll resolves a whole batch of call sites and assembles the
// downstream unit set.
func (r *Rewriter) RewriteAll(ctx context.Context, sites []CallSite) (*Program, error) {
	prog := &Program{}
	seenRecords := make(map[uuid.UUID]bool)
	seenTables := make(map[*dispatch.Table]bool)

	for _, site := range sites {
		plan, err := r.Rewrite(ctx, site)
		if err != nil {
			return nil, err
		}
		prog.Plans = append(prog.Plans, plan)

		if plan.Record != nil && !seenRecords[plan.Record.ID] {
			seenRecords[plan.Record.ID] = true
			prog.Records = append(prog.Records, plan.Record)
		}
		if plan.Table != nil && !seenTables[plan.Table] {
			seenTables[plan.Table] = true
			prog.Tables = append(prog.Tables, plan.Table)
		}
	}
	return prog, nil
}
