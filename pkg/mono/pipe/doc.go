// Package pipe models chains of lazy transformation stages terminated by a
// single eager consumer. Stages are pull adapters: nothing executes until a
// terminal reduction requests items, and short-circuiting terminals stop
// pulling the moment the answer is known.
//
// Key operations:
// - From/FromFunc: create a chain
// - Filter/Take (methods), Map/FlatMap (free functions): lazy stages
// - Collect/CollectSet/Fold/Sum/Count/Max/Min/ForEach/Any/All: terminals
// - Err/Pulls: inspect a chain's deferred error and observed source pulls
//
// A chain is consumed by exactly one terminal; any stage or terminal
// applied afterwards reports mono.ErrAlreadyConsumed. Chains are
// single-threaded: pulls are sequential and a stage must not be shared
// between concurrently pulling chains. Stage closures may themselves be
// statically specialized units or dynamically dispatched objects; the
// executor is independent of how they were resolved.
package pipe
