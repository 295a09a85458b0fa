// Package event defines the polymorphic notification artifact that flows
// through TimeManager and the four layers, per spec.md §3 (Event) and §4.4.
package event

import "reflect"

// Event is a polymorphic artifact delivered by TimeManager. Transient
// reports whether the event is discarded after the tick it fires (true) or
// additionally persists as queryable simulation state (false). The default
// embedding Base returns true, matching the original's default.
type Event interface {
	Transient() bool
}

// Base gives concrete event types the default Transient() = true behavior
// described in spec.md §3, so most event structs only need to embed it
// rather than write their own method.
type Base struct{}

// Transient implements Event's default: true.
func (Base) Transient() bool { return true }

// Sourced is implemented by events that know which component emitted them.
// It is optional: most events don't implement it, and callers that want a
// source label (snapshot/debug output only — delivery semantics never
// depend on it) type-assert for it and treat a missing implementation the
// same as an empty string.
type Sourced interface {
	Source() string
}

// SourceOf returns e's emitting component id if e implements Sourced, or ""
// otherwise.
func SourceOf(e Event) string {
	if s, ok := e.(Sourced); ok {
		return s.Source()
	}
	return ""
}

// SourceBase gives a concrete event type an optional Source() accessor
// recording which component emitted it. Embed alongside Base; leave
// SourceID empty when the emitter isn't tracked.
type SourceBase struct {
	SourceID string
}

// Source implements Sourced.
func (s SourceBase) Source() string { return s.SourceID }

// TypeID is the stable type identity used as a notification key: every
// concrete Event type maps to exactly one TypeID, independent of the value
// it holds. Grounded on the Rust original's use of `TypeId::of::<T>()` as
// the notification/transformer registration key (original_source
// mortalsim-core/src/sim/layer/core/component/initializer.rs and friends).
//
// Events that a transformer needs to mutate in place must be scheduled as
// pointers (e.g. *HeartRate, not HeartRate) — the same reason the original
// schedules events as Box<dyn Event> rather than by value. TypeOf and
// TypeOfT both resolve to the pointer type so a component's
// notify/transform registration (by TypeOfT[HeartRate]()) matches the
// TypeID of a *HeartRate actually flowing through TimeManager.
type TypeID = reflect.Type

// TypeOf returns the stable TypeID for an Event value.
func TypeOf(e Event) TypeID {
	return reflect.TypeOf(e)
}

// TypeOfT returns the stable TypeID for an Event type without needing a
// value, e.g. TypeOfT[HeartRate]() — resolves to the pointer type *HeartRate,
// matching how HeartRate events are actually scheduled.
func TypeOfT[T Event]() TypeID {
	return reflect.TypeOf((*T)(nil))
}
