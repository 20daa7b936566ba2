package inst

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/calder-lang/mono/pkg/mono"
	"github.com/calder-lang/mono/pkg/mono/bind"
	"github.com/calder-lang/mono/pkg/mono/dispatch"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxDepth bounds nested instantiation when the context carries no
// explicit limit.
const DefaultMaxDepth = 64

// Record is the generated, fully concrete implementation for one
// specialization key. Created once, cached for the lifetime of the
// compilation unit, never mutated after creation.
type Record struct {
	ID        uuid.UUID
	Key       bind.Key
	Symbol    string
	Body      string
	Nested    []bind.Key
	CreatedAt time.Time
}

type Option func(*Cache)

var WithLogr = func(log logr.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

var WithRecorder = func(rec Recorder) Option {
	return func(c *Cache) {
		c.rec = rec
	}
}

// Cache deduplicates specialization keys so identical type combinations
// share one generated unit. It guarantees a single canonical Record identity
// per key even under concurrent requests; a race that generates twice and
// discards one copy is acceptable, two identities for one key is not.
type Cache struct {
	mu    sync.RWMutex
	log   logr.Logger
	in    *mono.Interner
	reg   *dispatch.Registry
	decls mono.DeclSet
	rec   Recorder

	records   map[bind.Key]*Record
	group     singleflight.Group
	requests  atomic.Int64
	generated atomic.Int64
}

func New(in *mono.Interner, reg *dispatch.Registry, decls mono.DeclSet, opts ...Option) *Cache {
	c := &Cache{
		log:     logr.Discard(),
		in:      in,
		reg:     reg,
		decls:   decls,
		records: make(map[bind.Key]*Record),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Instantiate resolves and generates in one step: the declaration is looked
// up by name, bound to the given concrete types, and specialized.
func (c *Cache) Instantiate(ctx context.Context, declName string, args ...mono.TypeID) (*Record, error) {
	decl, ok := c.decls.Get(declName)
	if !ok {
		return nil, fmt.Errorf("unknown declaration %q", declName)
	}
	b, err := bind.Resolve(c.in, c.reg, decl, args...)
	if err != nil {
		return nil, err
	}
	return c.GetOrCreate(ctx, b)
}

// GetOrCreate returns the canonical Record for a binding, generating it on
// first demand. Generation is idempotent and side-effect-free.
func (c *Cache) GetOrCreate(ctx context.Context, b bind.Binding) (*Record, error) {
	return c.GetOrCreateAt(ctx, b, Site{})
}

// GetOrCreateAt is GetOrCreate with use-site attribution for the recorder.
func (c *Cache) GetOrCreateAt(ctx context.Context, b bind.Binding, site Site) (*Record, error) {
	c.requests.Add(1)

	if rec := c.lookup(b.Key); rec != nil {
		c.recordUse(b.Key, site)
		return rec, nil
	}

	maxDepth := mono.GetInstantiationDepth(ctx, DefaultMaxDepth)
	v, err, _ := c.group.Do(b.Key.String(), func() (any, error) {
		return c.generate(b, make(map[bind.Key]bool), 0, maxDepth)
	})
	if err != nil {
		return nil, err
	}
	c.recordUse(b.Key, site)
	return v.(*Record), nil
}

func (c *Cache) lookup(key bind.Key) *Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records[key]
}

// generate substitutes the binding's concrete types into the declaration
// body verbatim, recursing through nested generic calls. Nested
// declarations compose multiplicatively; the visiting set catches
// self-instantiation and depth bounds runaway nesting.
func (c *Cache) generate(b bind.Binding, visiting map[bind.Key]bool, depth, maxDepth int) (*Record, error) {
	if rec := c.lookup(b.Key); rec != nil {
		return rec, nil
	}
	if depth > maxDepth {
		return nil, fmt.Errorf("generating %s at depth %d: %w", b.Key, depth, mono.ErrInstantiationDepth)
	}
	if visiting[b.Key] {
		return nil, fmt.Errorf("generating %s: %w", b.Key, mono.ErrInstantiationCycle)
	}
	visiting[b.Key] = true
	defer delete(visiting, b.Key)

	symbol := c.symbol(b)
	var body strings.Builder
	var nested []bind.Key

	for _, f := range b.Decl.Body {
		switch f.Kind {
		case mono.FragText:
			body.WriteString(f.Text)

		case mono.FragParam:
			body.WriteString(c.in.String(b.Args[f.Param]))

		case mono.FragCall:
			callee, ok := c.decls.Get(f.Callee)
			if !ok {
				return nil, fmt.Errorf("declaration %q calls unknown declaration %q", b.Decl.Name, f.Callee)
			}
			calleeArgs := make([]mono.TypeID, len(f.Args))
			for i, idx := range f.Args {
				calleeArgs[i] = b.Args[idx]
			}
			nb, err := bind.Resolve(c.in, c.reg, callee, calleeArgs...)
			if err != nil {
				return nil, err
			}
			nrec, err := c.generate(nb, visiting, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			c.recordUse(nb.Key, Site{Caller: symbol, Note: "nested"})
			nested = append(nested, nrec.Key)
			body.WriteString(nrec.Symbol)
		}
	}

	c.generated.Add(1)
	return c.intern(&Record{
		ID:        uuid.New(),
		Key:       b.Key,
		Symbol:    symbol,
		Body:      body.String(),
		Nested:    nested,
		CreatedAt: time.Now().UTC(),
	}), nil
}

// intern stores a freshly generated record unless another goroutine won the
// race, in which case the duplicate is discarded and the canonical record
// returned.
func (c *Cache) intern(rec *Record) *Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.records[rec.Key]; ok {
		return existing
	}
	c.records[rec.Key] = rec
	c.log.V(1).Info("generated specialization", "symbol", rec.Symbol, "id", rec.ID)
	return rec
}

func (c *Cache) symbol(b bind.Binding) string {
	names := make([]string, len(b.Args))
	for i, arg := range b.Args {
		names[i] = c.in.String(arg)
	}
	return b.Decl.Name + "[" + strings.Join(names, ",") + "]"
}

func (c *Cache) recordUse(key bind.Key, site Site) {
	if c.rec == nil {
		return
	}
	c.rec.Record(key.Decl, key.ArgsKey, site)
}

// Records returns every generated record, for downstream emission.
func (c *Cache) Records() []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Record, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec)
	}
	return out
}

// Stats exposes instantiation counts as first-class quantities so binary
// and compile-time cost stays observable rather than hidden.
type Stats struct {
	Requests  int64
	Generated int64
	Distinct  int
	PerDecl   map[string]int
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	perDecl := make(map[string]int)
	for key := range c.records {
		perDecl[key.Decl]++
	}
	return Stats{
		Requests:  c.requests.Load(),
		Generated: c.generated.Load(),
		Distinct:  len(c.records),
		PerDecl:   perDecl,
	}
}
