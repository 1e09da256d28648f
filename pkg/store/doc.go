// Package store persists the main taxonomy tree in a [cache.Cache] backend.
//
// [TreeStore] is the load/save boundary. Failures come back as PERSISTENCE
// errors together with a usable result, so callers can log and carry on: a
// failed load still returns an empty tree.
//
// [Saver] debounces writes. Each mutation calls [Saver.Schedule]; only the
// last tree scheduled within the delay is written. A failed write is logged
// and superseded by the next scheduled one.
package store
