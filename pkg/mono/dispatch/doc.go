// Package dispatch implements the dynamic-resolution path: the capability
// registry, the object-safety predicate, dispatch-table construction, and
// type-erased object values.
//
// Key operations:
// - Registry.RegisterIface: make an interface known; safety computed once
// - Registry.Register/RegisterDynamic: record (type, interface) impls;
//   dynamic registration fails fast on non-object-safe interfaces
// - Registry.Build: ordered method-pointer table per (type, interface),
//   cached, with default-method fallback
// - Registry.Erase / Object.Call: type-erased values with O(1) slot calls
//
// The registry is a long-lived shared structure and is safe for concurrent
// use; tables and objects are immutable once created.
package dispatch
