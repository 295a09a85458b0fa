// Package core implements the core layer: components register interest in
// event types and event transformers, and run whenever a matching event
// fired this tick (or on the layer's first tick, or on explicit trigger).
// Grounded on spec.md §4.5 and the CoreComponent/CoreInitializer/
// CoreConnector shape in
// original_source/mortalsim-core/src/sim/layer/core/component/mod.rs.
package core

import (
	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/scheduler"
)

// Initializer collects a component's notify and transform registrations
// during its one-time CoreInit call, before the layer installs them.
type Initializer struct {
	pendingNotifies   []event.TypeID
	pendingTransforms []pendingTransform
}

type pendingTransform struct {
	typ event.TypeID
	fn  func(event.Event)
}

// Notify registers interest in events of type T: the component will be
// marked to run on any tick where an event of that type fired.
func Notify[T event.Event](init *Initializer) {
	init.pendingNotifies = append(init.pendingNotifies, event.TypeOfT[T]())
}

// Transform registers a transformer over events of type T, applied
// immediately before delivery to any listener, in registration order.
func Transform[T event.Event](init *Initializer, fn func(*T)) {
	init.pendingTransforms = append(init.pendingTransforms, pendingTransform{
		typ: event.TypeOfT[T](),
		fn: func(e event.Event) {
			if v, ok := e.(*T); ok {
				fn(v)
			}
		},
	})
}

// Connector is a core component's window onto the layer: which events
// matched its notify set this tick, and a place to stage new events for
// TimeManager once the run completes.
type Connector struct {
	active        map[event.TypeID]event.Event
	triggerEvents []event.TypeID
	pending       []pendingEmission
}

type pendingEmission struct {
	wait float64
	evt  event.Event
}

// NewConnector creates an empty Connector.
func NewConnector() *Connector {
	return &Connector{active: make(map[event.TypeID]event.Event)}
}

// Get returns the active event of type T this tick, if one matched.
func Get[T event.Event](c *Connector) (*T, bool) {
	v, ok := c.active[event.TypeOfT[T]()]
	if !ok {
		return nil, false
	}
	tv, ok := v.(*T)
	return tv, ok
}

// TriggerEvents lists the event types that caused this component to run
// this tick.
func (c *Connector) TriggerEvents() []event.TypeID { return c.triggerEvents }

// Schedule stages an event for TimeManager; ProcessComponent flushes it.
func (c *Connector) Schedule(wait float64, evt event.Event) {
	c.pending = append(c.pending, pendingEmission{wait: wait, evt: evt})
}

// Component is implemented by anything that participates in the core layer.
// Defined with its own ID() method (rather than embedding the top-level
// component.Component interface) so this package has no dependency on
// package component — component.Wrapper depends on core, not the reverse.
type Component interface {
	ID() string
	CoreInit(*Initializer)
	CoreConnector() *Connector
}

// componentState is the layer's bookkeeping for one attached component:
// its notify set and the transformer handles it installed.
type componentState struct {
	notify     map[event.TypeID]struct{}
	transforms []scheduler.TransformerID
	ranOnce    bool
}

// Layer is the core layer's per-Sim state.
type Layer struct {
	components map[string]*componentState
}

// NewLayer creates an empty core layer.
func NewLayer() *Layer {
	return &Layer{components: make(map[string]*componentState)}
}

// AddComponent runs c's one-time CoreInit against a fresh Initializer,
// records its notify set, and installs its transformers against tm.
func (l *Layer) AddComponent(tm *scheduler.TimeManager, c Component) {
	init := &Initializer{}
	c.CoreInit(init)

	st := &componentState{notify: make(map[event.TypeID]struct{})}
	for _, typ := range init.pendingNotifies {
		st.notify[typ] = struct{}{}
	}
	for _, pt := range init.pendingTransforms {
		id := tm.RegisterTransformer(pt.typ, pt.fn)
		st.transforms = append(st.transforms, id)
	}
	l.components[c.ID()] = st
}

// RemoveComponent withdraws every transformer c installed and drops its
// bookkeeping, per spec.md §4.5's automatic-unregister invariant.
func (l *Layer) RemoveComponent(tm *scheduler.TimeManager, c Component) {
	st, ok := l.components[c.ID()]
	if !ok {
		return
	}
	for _, id := range st.transforms {
		tm.UnregisterTransformer(id)
	}
	delete(l.components, c.ID())
}

// PreExec does nothing in the core layer (spec.md §4.5).
func (l *Layer) PreExec() {}

// CheckComponent reports whether c should run this tick: its notify set
// intersects this tick's active events, or it is running for the first
// time, or caller-requested trigger is set via forceTrigger.
func (l *Layer) CheckComponent(c Component, active []event.Event, forceTrigger bool) bool {
	st, ok := l.components[c.ID()]
	if !ok {
		return false
	}
	if !st.ranOnce || forceTrigger {
		return true
	}
	for _, e := range active {
		if _, want := st.notify[event.TypeOf(e)]; want {
			return true
		}
	}
	return false
}

// PrepareComponent hands the component references to this tick's matching
// active events.
func (l *Layer) PrepareComponent(c Component, active []event.Event) {
	st := l.components[c.ID()]
	conn := c.CoreConnector()
	conn.active = make(map[event.TypeID]event.Event)
	conn.triggerEvents = conn.triggerEvents[:0]
	for _, e := range active {
		typ := event.TypeOf(e)
		if _, want := st.notify[typ]; want {
			conn.active[typ] = e
			conn.triggerEvents = append(conn.triggerEvents, typ)
		}
	}
	st.ranOnce = true
}

// ProcessComponent flushes the component's staged emissions into tm.
func (l *Layer) ProcessComponent(tm *scheduler.TimeManager, c Component) {
	conn := c.CoreConnector()
	for _, pe := range conn.pending {
		tm.ScheduleEvent(pe.wait, pe.evt)
	}
	conn.pending = conn.pending[:0]
}

// PostExec does nothing in the core layer.
func (l *Layer) PostExec() {}
