// Package layermanager owns the four layers and the component registry,
// and drives one tick in either cooperative sequential mode or per-component
// parallel mode. Grounded on spec.md §4.9 and
// original_source/mortalsim-core/src/sim/layer/layer_manager.rs's
// LayerManager (update_sequential / update_threaded, first_update,
// missing_layers).
package layermanager

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vitalframe/physiokernel/component"
	"github.com/vitalframe/physiokernel/connector"
	"github.com/vitalframe/physiokernel/kerr"
	"github.com/vitalframe/physiokernel/layer/circulation"
	"github.com/vitalframe/physiokernel/layer/core"
	"github.com/vitalframe/physiokernel/layer/digestion"
	"github.com/vitalframe/physiokernel/layer/nervous"
	"github.com/vitalframe/physiokernel/organism"
	"github.com/vitalframe/physiokernel/simtime"
)

// LayerType names one of the four layers a custom Sim may opt out of (Core
// is always present, matching the original's "always include Core" rule).
type LayerType int

const (
	Core LayerType = iota
	Circulation
	Digestion
	Nervous
)

func (t LayerType) String() string {
	switch t {
	case Core:
		return "core"
	case Circulation:
		return "circulation"
	case Digestion:
		return "digestion"
	case Nervous:
		return "nervous"
	default:
		return "unknown"
	}
}

// ErrUnknownComponent is returned by RemoveComponent for an id the manager
// has no record of.
var ErrUnknownComponent = errors.New("no component registered with that id")

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithoutLayers excludes the named layers from a Manager: a component
// requiring an excluded layer fails AddComponent with ErrUnsupportedLayer.
// Core cannot be excluded and is silently ignored if named.
func WithoutLayers(types ...LayerType) Option {
	return func(m *Manager) {
		for _, t := range types {
			if t == Core {
				continue
			}
			m.missing[t] = struct{}{}
		}
	}
}

// Parallel runs each tick's triggered components concurrently, one
// goroutine per component, per spec.md §4.9's parallel mode.
func Parallel() Option {
	return func(m *Manager) { m.parallel = true }
}

// Manager is the per-Sim owner of the four layers and every attached
// component.
type Manager struct {
	core        *core.Layer
	circulation *circulation.Layer
	digestion   *digestion.Layer
	nervous     *nervous.Layer

	missing map[LayerType]struct{}

	mu         sync.Mutex // guards components/order: Add/Remove/Update each hold it for their whole call
	components map[string]*component.Wrapper
	order      []string

	firstUpdate bool
	parallel    bool
}

// New creates a Manager over def's vessel/nerve graph, with all four
// layers present unless excluded via WithoutLayers.
func New(def *organism.Definition, opts ...Option) *Manager {
	m := &Manager{
		core:        core.NewLayer(),
		circulation: circulation.NewLayer(def),
		digestion: digestion.NewLayer(
			simtime.SimTimeSpan(def.DefaultDigestionDurationSeconds),
			simtime.SimTimeSpan(def.EliminationDelaySeconds),
		),
		nervous:    nervous.NewLayer(),
		missing:    make(map[LayerType]struct{}),
		components: make(map[string]*component.Wrapper),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddComponent wraps c for capability dispatch, rejects it if it requires
// a layer this Manager excluded or if its id collides with an existing
// component, then runs its one-time setup in every layer it participates
// in.
func (m *Manager) AddComponent(conn *connector.SimConnector, c component.Component) (*component.Wrapper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.components[c.ID()]; exists {
		return nil, fmt.Errorf("%w: id=%s", kerr.ErrDuplicateComponentID, c.ID())
	}
	w := component.Wrap(c)
	if err := m.checkSupported(w); err != nil {
		return nil, err
	}

	m.components[c.ID()] = w
	m.order = append(m.order, c.ID())

	if w.HasCore() {
		m.core.AddComponent(conn.TimeManager, w.Core)
	}
	if w.HasCirculation() {
		m.circulation.AddComponent(w.Circulation)
	}
	if w.HasDigestion() {
		m.digestion.AddComponent(w.Digestion)
	}
	if w.HasNervous() {
		m.nervous.AddComponent(w.Nervous)
	}
	return w, nil
}

func (m *Manager) checkSupported(w *component.Wrapper) error {
	checks := []struct {
		has bool
		typ LayerType
	}{
		{w.HasCirculation(), Circulation},
		{w.HasDigestion(), Digestion},
		{w.HasNervous(), Nervous},
	}
	for _, ch := range checks {
		if !ch.has {
			continue
		}
		if _, excluded := m.missing[ch.typ]; excluded {
			return fmt.Errorf("%w: %s", kerr.ErrUnsupportedLayer, ch.typ)
		}
	}
	return nil
}

// RemoveComponent cleans up c's registrations in every layer it
// participated in and returns its wrapper.
func (m *Manager) RemoveComponent(conn *connector.SimConnector, id string) (*component.Wrapper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.components[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", ErrUnknownComponent, id)
	}
	delete(m.components, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	if w.HasCore() {
		m.core.RemoveComponent(conn.TimeManager, w.Core)
	}
	if w.HasCirculation() {
		m.circulation.RemoveComponent(w.Circulation)
	}
	if w.HasDigestion() {
		m.digestion.RemoveComponent(w.Digestion)
	}
	if w.HasNervous() {
		m.nervous.RemoveComponent(w.Nervous)
	}
	return w, nil
}

// Components lists every attached component id, in attachment order.
func (m *Manager) Components() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// HasComponent reports whether id is currently attached.
func (m *Manager) HasComponent(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.components[id]
	return ok
}

// Update runs one tick: each layer's pre_exec, the triggered components'
// prepare/run/process cycle (sequential or parallel per the Manager's
// construction option), then each layer's post_exec.
func (m *Manager) Update(conn *connector.SimConnector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.parallel {
		m.updateParallel(conn)
		return
	}
	m.updateSequential(conn)
}

func (m *Manager) preExec(conn *connector.SimConnector) {
	m.core.PreExec()
	m.circulation.PreExec(conn.SimTime())
	m.digestion.PreExec(conn.TimeManager)
	m.nervous.PreExec(conn.SimTime())
}

func (m *Manager) postExec(conn *connector.SimConnector) {
	m.core.PostExec()
	m.circulation.PostExec()
	m.digestion.PostExec(conn.TimeManager)
	m.nervous.PostExec()
}

func (m *Manager) runList(conn *connector.SimConnector) []string {
	if !m.firstUpdate {
		m.firstUpdate = true
		return append([]string(nil), m.order...)
	}
	var list []string
	active := conn.ActiveEvents()
	for _, id := range m.order {
		w := m.components[id]
		fire := false
		if w.HasCore() && m.core.CheckComponent(w.Core, active, false) {
			fire = true
		}
		if !fire && w.HasCirculation() && m.circulation.CheckComponent(w.Circulation) {
			fire = true
		}
		if !fire && w.HasDigestion() && m.digestion.CheckComponent(w.Digestion) {
			fire = true
		}
		if !fire && w.HasNervous() && m.nervous.CheckComponent(w.Nervous) {
			fire = true
		}
		if fire {
			list = append(list, id)
		}
	}
	return list
}

func (m *Manager) prepare(conn *connector.SimConnector, w *component.Wrapper) {
	if w.HasCore() {
		m.core.PrepareComponent(w.Core, conn.ActiveEvents())
	}
	if w.HasCirculation() {
		m.circulation.PrepareComponent(w.Circulation)
	}
	if w.HasDigestion() {
		m.digestion.PrepareComponent(w.Digestion)
	}
	if w.HasNervous() {
		m.nervous.PrepareComponent(w.Nervous)
	}
}

func (m *Manager) process(conn *connector.SimConnector, w *component.Wrapper) {
	if w.HasCore() {
		m.core.ProcessComponent(conn.TimeManager, w.Core)
	}
	if w.HasCirculation() {
		m.circulation.ProcessComponent(w.Circulation)
	}
	if w.HasDigestion() {
		m.digestion.ProcessComponent(w.Digestion)
	}
	if w.HasNervous() {
		m.nervous.ProcessComponent(w.Nervous)
	}
}

// updateSequential runs the tick with registry insertion order and no
// concurrency: the baseline, fully deterministic mode (spec.md §5).
func (m *Manager) updateSequential(conn *connector.SimConnector) {
	m.preExec(conn)

	for _, id := range m.runList(conn) {
		w := m.components[id]
		m.prepare(conn, w)
		w.Underlying.Run()
		m.process(conn, w)
	}

	m.postExec(conn)
}

// updateParallel runs the tick's triggered components on a goroutine each.
// Per-layer prepare/process calls are serialized with layerMu; nothing
// holds a lock across a component's Run, matching spec.md §5's "no lock is
// held across a component's run." Each component's process waits for the
// previous component in the run list to finish its own, so commits land in
// registry insertion order; prepare and Run order is unspecified.
func (m *Manager) updateParallel(conn *connector.SimConnector) {
	m.preExec(conn)

	runList := m.runList(conn)
	var layerMu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(len(runList))
	prevDone := make(chan struct{})
	close(prevDone)
	for _, id := range runList {
		w := m.components[id]
		done := make(chan struct{})
		go func(w *component.Wrapper, prev <-chan struct{}, done chan<- struct{}) {
			defer wg.Done()
			defer close(done)

			layerMu.Lock()
			m.prepare(conn, w)
			layerMu.Unlock()

			w.Underlying.Run()

			<-prev
			layerMu.Lock()
			m.process(conn, w)
			layerMu.Unlock()
		}(w, prevDone, done)
		prevDone = done
	}
	wg.Wait()

	m.postExec(conn)
}
