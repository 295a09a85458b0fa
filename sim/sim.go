// Package sim provides the Sim façade: the thin public surface spec.md
// §4.10 specifies over LayerManager and SimConnector, plus the default
// component factory registry every newly constructed Sim consults.
// Grounded on original_source/mortalsim-core/src/sim/impl_sim.rs's
// impl_sim! macro (default_id_gen/default_factories, set_default/
// remove_default, and the Sim trait's time/advance/advance_by/
// active_components/has_component/schedule_event/unschedule_event/
// drain_active methods).
package sim

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vitalframe/physiokernel/component"
	"github.com/vitalframe/physiokernel/connector"
	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/ids"
	"github.com/vitalframe/physiokernel/kerr"
	"github.com/vitalframe/physiokernel/layermanager"
	"github.com/vitalframe/physiokernel/organism"
	"github.com/vitalframe/physiokernel/scheduler"
	"github.com/vitalframe/physiokernel/simtime"
)

// Factory produces one component instance, used to seed every newly
// constructed Sim with the same starting roster.
type Factory func() component.Component

type defaultFactory struct {
	id ids.Type
	fn Factory
}

// defaultFactories is process-global state every Sim construction consults,
// guarded by defaultMu since multiple Sim instances (and their surrounding
// test goroutines) may register or construct concurrently.
var (
	defaultMu        sync.Mutex
	defaultIDGen     = ids.New()
	defaultFactories []defaultFactory
)

// SetDefault registers fn as a default component factory: every Sim
// constructed after this call attaches one component produced by fn.
// Factories whose produced components collide on id across the registered
// set will fail AddComponent at construction time — callers must keep
// factory-produced ids unique.
func SetDefault(fn Factory) ids.Type {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	id := defaultIDGen.Acquire()
	defaultFactories = append(defaultFactories, defaultFactory{id: id, fn: fn})
	return id
}

// RemoveDefault withdraws a previously registered default factory.
func RemoveDefault(factoryID ids.Type) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	for i, f := range defaultFactories {
		if f.id == factoryID {
			defaultFactories = append(defaultFactories[:i], defaultFactories[i+1:]...)
			return defaultIDGen.Release(factoryID)
		}
	}
	return fmt.Errorf("%w: id=%d", kerr.ErrInvalidFactoryID, factoryID)
}

// Sim is a complete, independently-clocked physiological simulation
// instance.
type Sim struct {
	ID     uuid.UUID
	conn   *connector.SimConnector
	layers *layermanager.Manager
}

// New constructs a Sim over def's vessel/nerve graph, with every currently
// registered default factory attached.
func New(def *organism.Definition, opts ...layermanager.Option) (*Sim, error) {
	s := &Sim{
		ID:     uuid.New(),
		conn:   connector.New(),
		layers: layermanager.New(def, opts...),
	}

	defaultMu.Lock()
	factories := append([]defaultFactory(nil), defaultFactories...)
	defaultMu.Unlock()

	for _, f := range factories {
		if _, err := s.layers.AddComponent(s.conn, f.fn()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewParallel constructs a Sim identical to New, except each tick runs its
// triggered components' prepare/run/process cycle concurrently, one
// goroutine per component, per spec.md §5's parallel execution mode.
func NewParallel(def *organism.Definition, opts ...layermanager.Option) (*Sim, error) {
	return New(def, append(opts, layermanager.Parallel())...)
}

// InstanceID returns the UUID stamped on this Sim at construction, used to
// namespace log prefixes when multiple Sim instances run in the same
// process.
func (s *Sim) InstanceID() uuid.UUID {
	return s.ID
}

// Time returns the Sim's current simulation time.
func (s *Sim) Time() simtime.SimTime {
	return s.conn.SimTime()
}

// Advance moves time to the next scheduled event and runs one tick.
func (s *Sim) Advance() []event.Event {
	fired := s.conn.TimeManager.Advance()
	s.layers.Update(s.conn)
	return fired
}

// AdvanceBy moves time forward by dt, draining everything due, and runs
// one tick.
func (s *Sim) AdvanceBy(dt simtime.SimTimeSpan) []event.Event {
	fired := s.conn.TimeManager.AdvanceBy(dt)
	s.layers.Update(s.conn)
	return fired
}

// ActiveComponents lists every attached component id.
func (s *Sim) ActiveComponents() []string {
	return s.layers.Components()
}

// HasComponent reports whether id is currently attached.
func (s *Sim) HasComponent(id string) bool {
	return s.layers.HasComponent(id)
}

// AddComponent attaches c, running its one-time setup in every layer it
// participates in.
func (s *Sim) AddComponent(c component.Component) error {
	_, err := s.layers.AddComponent(s.conn, c)
	return err
}

// RemoveComponent detaches the component with id, freeing its
// registrations in every layer it participated in, and returns it.
func (s *Sim) RemoveComponent(id string) (component.Component, error) {
	w, err := s.layers.RemoveComponent(s.conn, id)
	if err != nil {
		return nil, err
	}
	return w.Underlying, nil
}

// ScheduleEvent schedules evt to fire wait time units from now.
func (s *Sim) ScheduleEvent(wait simtime.SimTimeSpan, evt event.Event) (scheduler.ScheduleID, error) {
	return s.conn.TimeManager.ScheduleEvent(wait, evt)
}

// UnscheduleEvent cancels a previously scheduled event.
func (s *Sim) UnscheduleEvent(id scheduler.ScheduleID) error {
	return s.conn.TimeManager.UnscheduleEvent(id)
}

// DrainActive returns the events delivered on the most recent tick.
func (s *Sim) DrainActive() []event.Event {
	return s.conn.ActiveEvents()
}

// State returns the persisted value for a non-transient event type, for
// diagnostic export (see package snapshot).
func (s *Sim) State(typ event.TypeID) (event.Event, bool) {
	return s.conn.TimeManager.State(typ)
}
