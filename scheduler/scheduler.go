// Package scheduler holds TimeManager, the priority-queue-ordered event
// clock that every layer advances against, per spec.md §3 (OrderedTime) and
// §4.4 (TimeManager).
package scheduler

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/ids"
	"github.com/vitalframe/physiokernel/kerr"
	"github.com/vitalframe/physiokernel/simtime"
)

// ScheduleID identifies one scheduled event within a TimeManager.
type ScheduleID = ids.Type

// OrderedTime is SimTime equipped with a total order that rejects NaN,
// used as the scheduling heap's primary key (spec.md §3).
type OrderedTime simtime.SimTime

// Valid reports whether t is usable as a scheduling key.
func (t OrderedTime) Valid() bool { return !math.IsNaN(float64(t)) }

// scheduled pairs one event with its fire time and insertion sequence, the
// tuple TimeManager orders by. Sequence breaks ties so that equal fire
// times deliver in insertion (schedule) order, per spec.md §4.4.
type scheduled struct {
	id       ScheduleID
	fireTime OrderedTime
	seq      uint64
	evt      event.Event
	fired    bool
}

// scheduleHeap orders pending events by (fireTime, seq) ascending. Modeled
// on the teacher's container/heap.Interface SignalQueue in
// neuron/signal_scheduler.go.
type scheduleHeap []*scheduled

func (h scheduleHeap) Len() int { return len(h) }
func (h scheduleHeap) Less(i, j int) bool {
	if h[i].fireTime != h[j].fireTime {
		return h[i].fireTime < h[j].fireTime
	}
	return h[i].seq < h[j].seq
}
func (h scheduleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scheduleHeap) Push(x interface{}) {
	*h = append(*h, x.(*scheduled))
}
func (h *scheduleHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// transformer mutates every event of a registered type immediately before
// delivery. Transformers fire in registration order (spec.md §4.4).
type transformer struct {
	id  TransformerID
	typ TypeMatch
	fn  func(event.Event)
}

// TypeMatch identifies the concrete event type a transformer applies to.
type TypeMatch = event.TypeID

// TransformerID identifies one registered transformer so a layer can
// withdraw exactly the transformers one component installed, per spec.md
// §4.5's "transformers registered by component C are unregistered
// automatically on C's removal" — without disturbing other components'
// transformers on the same event type.
type TransformerID = ids.Type

// TimeManager holds the priority queue of pending events plus the
// persistent, by-type state of non-transient events, and the registered
// event transformers.
type TimeManager struct {
	simTime        simtime.SimTime
	heapQ          scheduleHeap
	live           map[ScheduleID]*scheduled
	idGen          *ids.Generator
	seq            uint64
	transforms     []transformer
	transformIDGen *ids.Generator
	state          map[event.TypeID]event.Event
	activeTick     []event.Event
}

// NewTimeManager creates a TimeManager at sim_time 0.
func NewTimeManager() *TimeManager {
	return &TimeManager{
		live:           make(map[ScheduleID]*scheduled),
		idGen:          ids.New(),
		transformIDGen: ids.New(),
		state:          make(map[event.TypeID]event.Event),
	}
}

// SimTime returns the manager's current time.
func (m *TimeManager) SimTime() simtime.SimTime { return m.simTime }

// ScheduleEvent inserts evt to fire at sim_time+wait. wait must be >= 0.
func (m *TimeManager) ScheduleEvent(wait simtime.SimTimeSpan, evt event.Event) (ScheduleID, error) {
	fireTime := OrderedTime(m.simTime + wait)
	if wait < 0 || !fireTime.Valid() {
		return 0, fmt.Errorf("%w: wait=%v", kerr.ErrInvalidDuration, wait)
	}
	id := m.idGen.Acquire()
	m.seq++
	s := &scheduled{
		id:       id,
		fireTime: fireTime,
		seq:      m.seq,
		evt:      evt,
	}
	m.live[id] = s
	heap.Push(&m.heapQ, s)
	return id, nil
}

// UnscheduleEvent cancels a pending event. Succeeds for events not yet
// fired; reports ErrAlreadyFired otherwise.
func (m *TimeManager) UnscheduleEvent(id ScheduleID) error {
	s, ok := m.live[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", kerr.ErrInvalidScheduleID, id)
	}
	if s.fired {
		return fmt.Errorf("%w: id=%d", kerr.ErrAlreadyFired, id)
	}
	delete(m.live, id)
	// heap entry becomes stale and is skipped lazily on drain
	return nil
}

// RegisterTransformer installs a transformer applied to every future event
// of the given type, immediately before delivery, in registration order. It
// returns a handle that later identifies this transformer alone.
func (m *TimeManager) RegisterTransformer(typ TypeMatch, fn func(event.Event)) TransformerID {
	id := m.transformIDGen.Acquire()
	m.transforms = append(m.transforms, transformer{id: id, typ: typ, fn: fn})
	return id
}

// UnregisterTransformer removes exactly the transformer identified by id,
// leaving any other transformer on the same event type untouched.
func (m *TimeManager) UnregisterTransformer(id TransformerID) {
	kept := m.transforms[:0]
	for _, tr := range m.transforms {
		if tr.id != id {
			kept = append(kept, tr)
		}
	}
	m.transforms = kept
}

// applyTransforms runs every registered transformer matching evt's type, in
// registration order.
func (m *TimeManager) applyTransforms(evt event.Event) {
	typ := event.TypeOf(evt)
	for _, tr := range m.transforms {
		if tr.typ == typ {
			tr.fn(evt)
		}
	}
}

// drainUntil pops every non-stale, non-cancelled entry with fireTime <= t,
// applies transformers, records persistence, and returns the fired events
// in delivery order (ascending fire time, then insertion order).
func (m *TimeManager) drainUntil(t simtime.SimTime) []event.Event {
	var fired []event.Event
	for m.heapQ.Len() > 0 {
		top := m.heapQ[0]
		if float64(top.fireTime) > t {
			break
		}
		popped := heap.Pop(&m.heapQ).(*scheduled)
		live, ok := m.live[popped.id]
		if !ok || live != popped {
			continue // cancelled before firing
		}
		popped.fired = true
		m.applyTransforms(popped.evt)
		if !popped.evt.Transient() {
			m.state[event.TypeOf(popped.evt)] = popped.evt
		}
		fired = append(fired, popped.evt)
	}
	return fired
}

// Advance moves time to the next scheduled fire-time (or leaves it
// unchanged if nothing is pending) and returns that tick's drained events.
func (m *TimeManager) Advance() []event.Event {
	if m.heapQ.Len() == 0 {
		m.activeTick = nil
		return nil
	}
	next := float64(m.heapQ[0].fireTime)
	fired := m.drainUntil(next)
	m.simTime = next
	m.activeTick = fired
	return fired
}

// AdvanceBy moves time forward by dt and drains everything due by the new
// time.
func (m *TimeManager) AdvanceBy(dt simtime.SimTimeSpan) []event.Event {
	target := m.simTime + dt
	fired := m.drainUntil(target)
	m.simTime = target
	m.activeTick = fired
	return fired
}

// ActiveEvents returns the events delivered on the most recent Advance or
// AdvanceBy call.
func (m *TimeManager) ActiveEvents() []event.Event {
	return m.activeTick
}

// State returns the persisted value for a non-transient event type, if any
// instance of that type has ever fired.
func (m *TimeManager) State(typ event.TypeID) (event.Event, bool) {
	v, ok := m.state[typ]
	return v, ok
}
