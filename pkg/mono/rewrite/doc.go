// Package rewrite fixes each call site to one resolution strategy: sites
// with fully known concrete argument types become direct calls into a
// generated specialization, sites seeing only a capability interface become
// vtable-slot invocations. The decision is made once, at resolution time,
// and never switches at run time; there is deliberately no fallback from
// one strategy to the other. RewriteAll assembles the flat unit set
// (plans, records, tables) consumed by the downstream emitter.
package rewrite
