// Package digestion implements the digestion layer: a conveyor of ordered
// stages, each the connector of one component, through which a Consumable
// moves forward, back, or off the conveyor entirely. Grounded on spec.md
// §4.7 and
// original_source/mortalsim-core/src/sim/layer/digestion/digestion_layer.rs.
package digestion

import (
	"fmt"

	"github.com/vitalframe/physiokernel/consumable"
	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/internal/klog"
	"github.com/vitalframe/physiokernel/scheduler"
	"github.com/vitalframe/physiokernel/simtime"
)

var logger = klog.New("digestion")

// Initializer is unused by the digestion layer today — components take
// their stage position from the order they are added — but exists so a
// component's DigestionInit signature matches the other three layers' and
// can grow stage-local configuration later without a breaking change.
type Initializer struct{}

// NewInitializer creates an empty Initializer.
func NewInitializer() *Initializer { return &Initializer{} }

// Connector is a digestion component's window onto its stage: the
// Consumed items currently staged there, on loan for the duration of one
// run.
type Connector struct {
	consumedList []*consumable.Consumed
}

// NewConnector creates an empty Connector.
func NewConnector() *Connector { return &Connector{} }

// ConsumedList returns the Consumed items on loan to this stage for the
// current run. The component mutates each entry's exit via SetExit and
// may schedule changes against its store; ownership returns to the layer
// once the run completes.
func (c *Connector) ConsumedList() []*consumable.Consumed { return c.consumedList }

// Component is implemented by anything that occupies one stage of the
// digestion conveyor. Defined with its own ID() method so this package has
// no dependency on package component.
type Component interface {
	ID() string
	DigestionInit(*Initializer)
	DigestionConnector() *Connector
}

// Layer is the digestion layer's per-Sim state: the ordered list of stages
// (one per added component, in addition order), the Consumed items
// currently staged at each position, and the self-scheduled wakeup that
// keeps the sim advancing exactly when the next item is due to move.
type Layer struct {
	positions         map[string]int
	triggered         map[int]struct{}
	consumedAtStage   [][]*consumable.Consumed
	internalTriggerID scheduler.ScheduleID
	haveTrigger       bool

	// defaultDigestionDuration is how long a Consumed spends in a stage when
	// the stage's component does not call SetExit during its run.
	defaultDigestionDuration simtime.SimTimeSpan
	// eliminationDelay is the wait between a Consumable leaving the
	// conveyor (forward past the last stage, or back past the first) and
	// its EliminateEvent firing.
	eliminationDelay simtime.SimTimeSpan
}

// NewLayer creates an empty digestion layer, timed by the organism
// definition's default digestion duration and elimination delay.
func NewLayer(defaultDigestionDuration, eliminationDelay simtime.SimTimeSpan) *Layer {
	return &Layer{
		positions:                make(map[string]int),
		triggered:                make(map[int]struct{}),
		defaultDigestionDuration: defaultDigestionDuration,
		eliminationDelay:         eliminationDelay,
	}
}

// AddComponent appends c as the next stage of the conveyor, in the order
// components are added.
func (l *Layer) AddComponent(c Component) {
	init := NewInitializer()
	c.DigestionInit(init)

	pos := len(l.consumedAtStage)
	l.positions[c.ID()] = pos
	if len(l.consumedAtStage) <= pos {
		l.consumedAtStage = append(l.consumedAtStage, nil)
	}
}

// RemoveComponent drops c's stage. Any Consumed items still staged there
// are dropped with it — a live removal mid-digestion is the caller's
// responsibility to avoid.
func (l *Layer) RemoveComponent(c Component) {
	pos, ok := l.positions[c.ID()]
	if !ok {
		return
	}
	delete(l.positions, c.ID())
	delete(l.triggered, pos)
	if n := len(l.consumedAtStage[pos]); n > 0 {
		logger.Printf("removing stage %d (component %s) dropped %d consumed item(s) still in transit", pos, c.ID(), n)
	}
	l.consumedAtStage[pos] = nil
}

// consume introduces a new Consumable at stage 0 and marks it triggered, so
// its component runs on the arrival tick and can override the default exit
// policy via SetExit.
func (l *Layer) consume(item *consumable.Consumable, simTime simtime.SimTime) {
	if len(l.consumedAtStage) == 0 {
		return
	}
	l.consumedAtStage[0] = append(l.consumedAtStage[0], consumable.NewConsumed(item, simTime, l.defaultDigestionDuration))
	l.triggered[0] = struct{}{}
}

// PreExec unschedules the layer's prior wakeup, admits any new
// ConsumeEvents at stage 0, advances every staged Consumed's own store,
// and moves every Consumed whose exit_time has elapsed according to its
// exit direction: FORWARD to the next stage, BACK to the previous one (and
// reset to FORWARD once there), or off the conveyor when the direction
// would carry it past either end, in which case it fires an
// EliminateEvent after eliminationDelay. EXHAUSTED always leaves the
// conveyor, silently.
func (l *Layer) PreExec(tm *scheduler.TimeManager) {
	if l.haveTrigger {
		tm.UnscheduleEvent(l.internalTriggerID)
		l.haveTrigger = false
	}

	simTime := tm.SimTime()
	for _, e := range tm.ActiveEvents() {
		if ce, ok := e.(*event.ConsumeEvent); ok {
			l.consume(ce.Consumable, simTime)
		}
	}

	last := len(l.consumedAtStage) - 1
	if last < 0 {
		return
	}

	for pos := 0; pos <= last; pos++ {
		stage := l.consumedAtStage[pos]
		var staying []*consumable.Consumed
		for _, item := range stage {
			item.Advance(simTime)
			if item.ExitTime > simTime {
				staying = append(staying, item)
				continue
			}
			l.move(pos, last, item, simTime, tm)
		}
		l.consumedAtStage[pos] = staying
	}
}

// move carries one Consumed off stage pos according to its exit direction,
// either onto an adjacent stage (marking that stage triggered) or off the
// conveyor via an EliminateEvent.
func (l *Layer) move(pos, last int, item *consumable.Consumed, simTime simtime.SimTime, tm *scheduler.TimeManager) {
	dir := item.ExitDirection

	if dir == consumable.Exhausted {
		return
	}
	if (pos == 0 && dir == consumable.Back) || (pos >= last && dir == consumable.Forward) {
		tm.ScheduleEvent(l.eliminationDelay, &event.EliminateEvent{
			Consumable: item.Consumable,
			Direction:  dir,
		})
		return
	}

	item.EntryTime = item.ExitTime
	item.ExitTime = item.EntryTime + l.defaultDigestionDuration

	target := pos + 1
	if dir == consumable.Back {
		item.ExitDirection = consumable.Forward
		target = pos - 1
	}
	l.consumedAtStage[target] = append(l.consumedAtStage[target], item)
	l.triggered[target] = struct{}{}
}

// PostExec schedules the layer's next wakeup at the earliest exit_time
// among every currently-staged Consumed, so the sim advances exactly when
// the digestion conveyor next has work due rather than polling every tick.
func (l *Layer) PostExec(tm *scheduler.TimeManager) {
	simTime := tm.SimTime()
	haveMin := false
	var min simtime.SimTime
	for _, stage := range l.consumedAtStage {
		for _, item := range stage {
			if !haveMin || item.ExitTime < min {
				min = item.ExitTime
				haveMin = true
			}
		}
	}
	if !haveMin {
		return
	}
	wait := simtime.SimTimeSpan(0)
	if min > simTime {
		wait = simtime.SimTimeSpan(min - simTime)
	}
	id, err := tm.ScheduleEvent(wait, &event.InternalLayerTrigger{Layer: "digestion"})
	if err == nil {
		l.internalTriggerID = id
		l.haveTrigger = true
	}
}

// CheckComponent reports whether c's stage has Consumed items newly
// arrived since its last run.
func (l *Layer) CheckComponent(c Component) bool {
	pos, ok := l.positions[c.ID()]
	if !ok {
		return false
	}
	_, triggered := l.triggered[pos]
	return triggered
}

// PrepareComponent lends c's stage's Consumed list to its Connector;
// ownership moves to the component for the duration of its run.
func (l *Layer) PrepareComponent(c Component) {
	pos, ok := l.positions[c.ID()]
	if !ok {
		panic(fmt.Sprintf("digestion: component index is missing for %q", c.ID()))
	}
	conn := c.DigestionConnector()
	conn.consumedList = l.consumedAtStage[pos]
	l.consumedAtStage[pos] = nil
}

// ProcessComponent takes the Consumed list back from c's Connector and
// clears c's stage trigger.
func (l *Layer) ProcessComponent(c Component) {
	pos, ok := l.positions[c.ID()]
	if !ok {
		panic(fmt.Sprintf("digestion: component index is missing for %q", c.ID()))
	}
	conn := c.DigestionConnector()
	l.consumedAtStage[pos] = append(l.consumedAtStage[pos], conn.consumedList...)
	conn.consumedList = nil
	delete(l.triggered, pos)
}
