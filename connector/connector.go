// Package connector holds SimConnector, the mutably-shared state every
// layer's pre_exec/prepare_component/process_component hook reads from and
// writes through during a tick: the time manager and the events it last
// delivered. Grounded on spec.md §5's "Shared resources" paragraph and
// original_source/mortalsim-core/src/sim/impl_sim.rs's use of a single
// SimConnector field threaded through every LayerManager call.
package connector

import (
	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/scheduler"
	"github.com/vitalframe/physiokernel/simtime"
)

// SimConnector bundles the TimeManager with convenience accessors layers
// use during a tick. In parallel mode, callers serialize access to it with
// a lock held briefly inside prepare/process — never across a component's
// Run (spec.md §5).
type SimConnector struct {
	TimeManager *scheduler.TimeManager
}

// New creates a SimConnector with a fresh TimeManager at sim_time 0.
func New() *SimConnector {
	return &SimConnector{TimeManager: scheduler.NewTimeManager()}
}

// SimTime returns the connector's current simulation time.
func (c *SimConnector) SimTime() simtime.SimTime {
	return c.TimeManager.SimTime()
}

// ActiveEvents returns the events delivered on the most recent tick.
func (c *SimConnector) ActiveEvents() []event.Event {
	return c.TimeManager.ActiveEvents()
}
