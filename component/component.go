// Package component defines the simulation component contract and the
// capability-tagging wrapper layers use to decide which of their hooks a
// given component supports, per spec.md §9's design note on component
// wrappers ("a tagged record of {capabilities, underlying}" rather than a
// dispatch web across four orthogonal traits).
//
// BaseComponent's lifecycle/metadata machinery is adapted from the
// teacher's component.BaseComponent (component/component.go): the same
// RWMutex-guarded state-plus-metadata shape, generalized from neural
// position/activity bookkeeping to the plain active/stopped lifecycle a
// physiological component needs. The capability wrapper itself is grounded
// on original_source/src/sim/component/mod.rs's SimComponent trait and the
// per-layer wrapper files under original_source/src/sim/component/wrapper/.
package component

import (
	"fmt"
	"sync"
	"time"

	"github.com/vitalframe/physiokernel/layer/circulation"
	"github.com/vitalframe/physiokernel/layer/core"
	"github.com/vitalframe/physiokernel/layer/digestion"
	"github.com/vitalframe/physiokernel/layer/nervous"
)

// ID identifies a component uniquely within one Sim. It is a plain string
// alias, not a distinct named type, so that a component's ID() method
// satisfies every per-layer capability interface's own ID() string
// requirement without those packages importing this one.
type ID = string

// CoreComponent, CirculationComponent, DigestionComponent, and
// NervousComponent name the four per-layer capability interfaces a
// component may optionally implement.
type CoreComponent = core.Component
type CirculationComponent = circulation.Component
type DigestionComponent = digestion.Component
type NervousComponent = nervous.Component

// Component is the minimal contract every simulation component satisfies,
// independent of which layers it participates in: an identity and one run
// method the layer manager invokes once per tick it is triggered.
type Component interface {
	ID() ID
	Run()
}

// State is a component's lifecycle state.
type State int

const (
	StateActive State = iota
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// BaseComponent gives a concrete component type lifecycle state, metadata,
// and last-activity bookkeeping behind a RWMutex, for embedding the way the
// teacher's neural components embed BaseComponent.
type BaseComponent struct {
	id           ID
	mu           sync.RWMutex
	state        State
	metadata     map[string]interface{}
	lastActivity time.Time
}

// NewBaseComponent creates a BaseComponent in the active state.
func NewBaseComponent(id ID) *BaseComponent {
	return &BaseComponent{
		id:           id,
		state:        StateActive,
		metadata:     make(map[string]interface{}),
		lastActivity: time.Now(),
	}
}

// ID returns the component's id.
func (bc *BaseComponent) ID() ID { return bc.id }

// State returns the current lifecycle state.
func (bc *BaseComponent) State() State {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.state
}

// IsActive reports whether the component is currently active.
func (bc *BaseComponent) IsActive() bool {
	return bc.State() == StateActive
}

// Stop transitions the component to stopped, failing if it already is.
// Removing a component from a Sim does not call it.
func (bc *BaseComponent) Stop() error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.state == StateStopped {
		return fmt.Errorf("component %s already stopped", bc.id)
	}
	bc.state = StateStopped
	bc.lastActivity = time.Now()
	return nil
}

// Start transitions the component back to active.
func (bc *BaseComponent) Start() error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.state = StateActive
	bc.lastActivity = time.Now()
	return nil
}

// Metadata returns a copy of the component's dynamic metadata.
func (bc *BaseComponent) Metadata() map[string]interface{} {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	out := make(map[string]interface{}, len(bc.metadata))
	for k, v := range bc.metadata {
		out[k] = v
	}
	return out
}

// SetMetadata records a key/value pair and marks activity.
func (bc *BaseComponent) SetMetadata(key string, value interface{}) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.metadata[key] = value
	bc.lastActivity = time.Now()
}

// LastActivity returns the timestamp of the most recent state or metadata
// change.
func (bc *BaseComponent) LastActivity() time.Time {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.lastActivity
}

// Wrapper is the tagged capability record a registry stores per component:
// the underlying value plus cached results of asking "does this component
// also implement CoreComponent / CirculationComponent / DigestionComponent /
// NervousComponent?" Layers ask Wrapper which capability they care about
// instead of the component exposing four traits directly, avoiding the
// dispatch web spec.md §9 warns against.
type Wrapper struct {
	Underlying Component

	Core        CoreComponent
	Circulation CirculationComponent
	Digestion   DigestionComponent
	Nervous     NervousComponent
}

// Wrap inspects c via type assertion for each layer capability and returns
// the tagged record. A component may satisfy any non-empty subset of the
// four capabilities; Wrap does not require at least one (an empty wrapper
// is inert but harmless, matching the original's empty_wrapper macros that
// give every component a no-op default for layers it doesn't use).
func Wrap(c Component) *Wrapper {
	w := &Wrapper{Underlying: c}
	if v, ok := c.(CoreComponent); ok {
		w.Core = v
	}
	if v, ok := c.(CirculationComponent); ok {
		w.Circulation = v
	}
	if v, ok := c.(DigestionComponent); ok {
		w.Digestion = v
	}
	if v, ok := c.(NervousComponent); ok {
		w.Nervous = v
	}
	return w
}

// ID returns the underlying component's id.
func (w *Wrapper) ID() ID { return w.Underlying.ID() }

// HasCore reports whether this component participates in the core layer.
func (w *Wrapper) HasCore() bool { return w.Core != nil }

// HasCirculation reports whether this component participates in circulation.
func (w *Wrapper) HasCirculation() bool { return w.Circulation != nil }

// HasDigestion reports whether this component participates in digestion.
func (w *Wrapper) HasDigestion() bool { return w.Digestion != nil }

// HasNervous reports whether this component participates in the nervous layer.
func (w *Wrapper) HasNervous() bool { return w.Nervous != nil }
