// Package circulation implements the blood-vessel layer: a directed graph
// of vessels, each with its own substance store, propagating scheduled
// changes downstream by hop latency. Grounded on spec.md §4.6 and the
// CirculationInitializer shape in
// original_source/mortalsim-core/src/sim/layer/circulation/component/initializer.rs.
package circulation

import (
	"github.com/vitalframe/physiokernel/organism"
	"github.com/vitalframe/physiokernel/substance"
)

// Initializer collects a component's vessel attachments and composition-
// change notifications during its one-time CirculationInit call.
type Initializer struct {
	vessels   map[organism.VesselID]struct{}
	notifies  map[organism.VesselID]map[substance.Substance]*substance.Tracker
	notifyAny bool
	attachAll bool
}

// NewInitializer creates an empty Initializer.
func NewInitializer() *Initializer {
	return &Initializer{
		vessels:  make(map[organism.VesselID]struct{}),
		notifies: make(map[organism.VesselID]map[substance.Substance]*substance.Tracker),
	}
}

// AttachVessel gives the component read-modify access to v's store.
func (init *Initializer) AttachVessel(v organism.VesselID) {
	init.vessels[v] = struct{}{}
}

// AttachAllVessels attaches every vessel in the organism to the component.
func (init *Initializer) AttachAllVessels() {
	init.attachAll = true
}

// NotifyCompositionChange wakes the component whenever substance sub on
// vessel v crosses threshold since the last observation, and implicitly
// attaches v.
func (init *Initializer) NotifyCompositionChange(v organism.VesselID, sub substance.Substance, threshold substance.Concentration) {
	init.vessels[v] = struct{}{}
	if init.notifies[v] == nil {
		init.notifies[v] = make(map[substance.Substance]*substance.Tracker)
	}
	init.notifies[v][sub] = substance.NewTracker(threshold)
}

// NotifyAnyChange wakes the component on any composition delta on any
// vessel, and implicitly attaches every vessel.
func (init *Initializer) NotifyAnyChange() {
	init.notifyAny = true
	init.attachAll = true
}

// Connector is a circulation component's window onto the blood-vessel
// graph: scheduling access to every vessel it attached.
type Connector struct {
	layer    *Layer
	attached map[organism.VesselID]struct{}
}

// BloodStore returns the substance store for vessel v, if the component
// attached it, and whether it exists.
func (c *Connector) BloodStore(v organism.VesselID) (*substance.Store, bool) {
	if _, ok := c.attached[v]; !ok {
		return nil, false
	}
	return c.layer.storeFor(v), true
}

// Component is implemented by anything that participates in the
// circulation layer. Defined with its own ID() method so this package does
// not depend on package component.
type Component interface {
	ID() string
	CirculationInit(*Initializer)
	CirculationConnector() *Connector
}

// componentState is the layer's bookkeeping for one attached component.
type componentState struct {
	vessels   map[organism.VesselID]struct{}
	notifies  map[organism.VesselID]map[substance.Substance]*substance.Tracker
	notifyAny bool
}

// Layer is the circulation layer's per-Sim state: one substance store per
// vessel, plus the per-component attachment/notification bookkeeping.
type Layer struct {
	def        *organism.Definition
	stores     map[organism.VesselID]*substance.Store
	components map[string]*componentState
	triggered  map[string]struct{}
}

// NewLayer creates a circulation layer over def, with one fresh substance
// store per vessel.
func NewLayer(def *organism.Definition) *Layer {
	l := &Layer{
		def:        def,
		stores:     make(map[organism.VesselID]*substance.Store),
		components: make(map[string]*componentState),
		triggered:  make(map[string]struct{}),
	}
	for _, v := range def.Vessels {
		l.stores[v] = substance.NewStore()
	}
	return l
}

func (l *Layer) storeFor(v organism.VesselID) *substance.Store {
	return l.stores[v]
}

// AddComponent runs c's one-time CirculationInit, records its vessel
// attachments and trackers, and gives it a bound Connector.
func (l *Layer) AddComponent(c Component) {
	init := NewInitializer()
	c.CirculationInit(init)
	if init.attachAll {
		for _, v := range l.def.Vessels {
			init.vessels[v] = struct{}{}
		}
	}
	st := &componentState{
		vessels:   init.vessels,
		notifies:  init.notifies,
		notifyAny: init.notifyAny,
	}
	l.components[c.ID()] = st
	conn := c.CirculationConnector()
	conn.layer = l
	conn.attached = init.vessels
}

// RemoveComponent drops c's attachment and tracker bookkeeping.
func (l *Layer) RemoveComponent(c Component) {
	delete(l.components, c.ID())
	delete(l.triggered, c.ID())
}

// PreExec advances every vessel's store to simTime, then tests each
// component's trackers against the new concentrations; a crossed threshold
// (or notify_any with any pending drain) marks that component triggered.
func (l *Layer) PreExec(simTime float64) {
	l.triggered = make(map[string]struct{})
	for _, store := range l.stores {
		store.Advance(simTime)
	}
	for id, st := range l.components {
		for v, subs := range st.notifies {
			store, ok := l.stores[v]
			if !ok {
				continue
			}
			for sub, tracker := range subs {
				current := store.ConcentrationOf(sub)
				if tracker.Check(current) {
					l.triggered[id] = struct{}{}
				}
				tracker.Update(current)
			}
		}
		if st.notifyAny {
			for v := range st.vessels {
				store, ok := l.stores[v]
				if ok && store.HasNewChanges() {
					l.triggered[id] = struct{}{}
				}
			}
		}
	}
}

// CheckComponent reports whether c is in this tick's triggered set.
func (l *Layer) CheckComponent(c Component) bool {
	_, ok := l.triggered[c.ID()]
	return ok
}

// PrepareComponent is a no-op beyond what AddComponent already wired: the
// Connector returned by CirculationConnector already has scheduling access
// to every attached vessel.
func (l *Layer) PrepareComponent(c Component) {}

// ProcessComponent merges the component's staged changes and propagates
// each newly-scheduled change on a vessel to every downstream vessel, with
// a delay equal to the edge's hop latency and an amount scaled by the
// edge's outgoing_pct times the downstream edge's incoming_pct — the
// propagation policy decided in SPEC_FULL.md's Open Question resolution
// (dependent-change scheduling, not a physical flow simulation).
func (l *Layer) ProcessComponent(c Component) {
	conn := c.CirculationConnector()
	for v := range conn.attached {
		store, ok := l.stores[v]
		if !ok || !store.HasNewChanges() {
			continue
		}
		for _, nc := range store.DrainNewChanges() {
			l.propagate(v, nc)
		}
	}
}

// propagate schedules a dependent change on every vessel downstream of
// origin, derived from originChange.
func (l *Layer) propagate(origin organism.VesselID, originChange substance.NewChange) {
	for _, edge := range l.def.DownstreamEdges(origin) {
		downstream, ok := l.stores[edge.To]
		if !ok {
			continue
		}
		scaled := originChange.Change
		scaled.Amount *= edge.OutgoingPct * edge.IncomingPct
		startTime := downstream.SimTime() + edge.HopLatencySeconds
		downstream.ScheduleDependentChange(originChange.Substance, startTime, scaled)
	}
}

// PostExec does nothing in the circulation layer.
func (l *Layer) PostExec() {}
