// Package inst implements the static-resolution path: the instantiation
// cache and the specialization generator.
//
// Key operations:
// - Cache.Instantiate/GetOrCreate: at-most-one canonical Record per key,
//   safe under concurrent requests (singleflight + race-discarding insert)
// - generation substitutes concrete type names into declaration bodies
//   verbatim and recurses through nested generic calls, so instantiation
//   counts compose multiplicatively and stay observable via Stats
// - Cache.GenerateAll: parallel batch generation across distinct keys
// - UseMap: a Recorder capturing deduplicated instantiation use sites
//
// Generation performs no optimization of the produced bodies; that is the
// downstream emitter's concern.
package inst
