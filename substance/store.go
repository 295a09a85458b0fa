package substance

import (
	"container/heap"
	"fmt"

	"github.com/vitalframe/physiokernel/boundfn"
	"github.com/vitalframe/physiokernel/ids"
	"github.com/vitalframe/physiokernel/kerr"
	"github.com/vitalframe/physiokernel/simtime"
)

// entry pairs a scheduled Change with the substance it applies to, so the
// completion heap and the id lookup map can share storage.
type entry struct {
	id        ChangeID
	substance Substance
	change    Change
}

// completionHeap orders entries by completion time, tie-broken by start
// time then change id (ascending), satisfying spec.md §4.3's tie-break rule
// for changes completing simultaneously. Modeled directly on the teacher's
// container/heap.Interface SignalQueue in neuron/signal_scheduler.go.
type completionHeap []*entry

func (h completionHeap) Len() int { return len(h) }
func (h completionHeap) Less(i, j int) bool {
	ei, ej := h[i].change.EndTime(), h[j].change.EndTime()
	if ei != ej {
		return ei < ej
	}
	if h[i].change.StartTime != h[j].change.StartTime {
		return h[i].change.StartTime < h[j].change.StartTime
	}
	return h[i].id < h[j].id
}
func (h completionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *completionHeap) Push(x interface{}) {
	*h = append(*h, x.(*entry))
}
func (h *completionHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Store is the per-(storage instance) concentration ledger: a baseline
// concentration per Substance plus a priority queue of pending Changes that
// get folded into the baseline as they complete.
type Store struct {
	baseline map[Substance]Concentration
	heapQ    completionHeap
	live     map[ChangeID]*entry
	bySub    map[Substance]map[ChangeID]struct{}

	simTime simtime.SimTime
	idGen   *ids.Generator

	newSinceDrain []entry
}

// NewStore creates an empty store at sim_time 0.
func NewStore() *Store {
	return &Store{
		baseline: make(map[Substance]Concentration),
		live:     make(map[ChangeID]*entry),
		bySub:    make(map[Substance]map[ChangeID]struct{}),
		idGen:    ids.New(),
	}
}

// SimTime returns the last time the store was advanced to.
func (s *Store) SimTime() simtime.SimTime {
	return s.simTime
}

// ConcentrationOf returns baseline(substance) plus the sum of all active
// pending-change contributions at the store's current sim_time.
func (s *Store) ConcentrationOf(sub Substance) Concentration {
	total := s.baseline[sub]
	for id := range s.bySub[sub] {
		e := s.live[id]
		contribution, _ := e.change.contributionAt(s.simTime)
		total += contribution
	}
	return total
}

// concentrationOfAt is a package-internal helper that reports the
// concentration at an arbitrary query time without first advancing the
// store (the pure query described in spec.md §4.3). Nothing calls it yet.
func (s *Store) concentrationOfAt(sub Substance, t simtime.SimTime) Concentration {
	total := s.baseline[sub]
	for id := range s.bySub[sub] {
		e := s.live[id]
		contribution, _ := e.change.contributionAt(t)
		total += contribution
	}
	return total
}

// ScheduleChange schedules a convenience change: starts immediately (at the
// store's current sim_time) with a Sigmoid shape, matching the original's
// schedule_change wrapper.
func (s *Store) ScheduleChange(sub Substance, amount Concentration, duration simtime.SimTimeSpan) (ChangeID, error) {
	return s.ScheduleCustomChange(sub, amount, s.simTime, duration, boundfn.Sigmoid)
}

// ScheduleCustomChange schedules a change with full control over start
// time and shape. Fails with ErrInvalidDuration when duration <= 0, or
// ErrPastTime when startTime < sim_time().
func (s *Store) ScheduleCustomChange(sub Substance, amount Concentration, startTime simtime.SimTime, duration simtime.SimTimeSpan, fn boundfn.Kind) (ChangeID, error) {
	if duration <= 0 {
		return 0, fmt.Errorf("%w: duration=%v", kerr.ErrInvalidDuration, duration)
	}
	if startTime < s.simTime {
		return 0, fmt.Errorf("%w: start=%v sim_time=%v", kerr.ErrPastTime, startTime, s.simTime)
	}
	id := s.idGen.Acquire()
	change := Change{
		StartTime: startTime,
		Duration:  duration,
		Amount:    amount,
		BoundFn:   fn,
	}
	e := &entry{id: id, substance: sub, change: change}
	s.live[id] = e
	if s.bySub[sub] == nil {
		s.bySub[sub] = make(map[ChangeID]struct{})
	}
	s.bySub[sub][id] = struct{}{}
	heap.Push(&s.heapQ, e)
	s.newSinceDrain = append(s.newSinceDrain, *e)
	return id, nil
}

// ScheduleDependentChange copies an existing change's shape onto this store
// at startTime, preserving amount, duration, and bound function.
func (s *Store) ScheduleDependentChange(sub Substance, startTime simtime.SimTime, existing Change) (ChangeID, error) {
	return s.ScheduleCustomChange(sub, existing.Amount, startTime, existing.Duration, existing.BoundFn)
}

// UnscheduleChange removes a pending change and returns it, or returns
// (Change{}, false) if the change has already completed (or never
// existed under that id for this substance).
func (s *Store) UnscheduleChange(sub Substance, id ChangeID) (Change, bool) {
	e, ok := s.live[id]
	if !ok || e.substance != sub {
		return Change{}, false
	}
	delete(s.live, id)
	delete(s.bySub[sub], id)
	// The heap entry becomes stale; Advance skips stale entries lazily
	// since e.id is no longer in s.live.
	return e.change, true
}

// GetChange returns a pending change by id for inspection, without removing it.
func (s *Store) GetChange(sub Substance, id ChangeID) (Change, bool) {
	e, ok := s.live[id]
	if !ok || e.substance != sub {
		return Change{}, false
	}
	return e.change, true
}

// Advance folds every change completing at or before t into the baseline
// and removes it from the pending set, then sets sim_time = t. It is
// idempotent when t <= sim_time().
func (s *Store) Advance(t simtime.SimTime) {
	if t <= s.simTime {
		return
	}
	for s.heapQ.Len() > 0 {
		top := s.heapQ[0]
		if top.change.EndTime() > t {
			break
		}
		popped := heap.Pop(&s.heapQ).(*entry)
		// Lazy deletion: if it was unscheduled in the meantime, it's
		// already gone from live/bySub — just drop the stale heap entry.
		if live, ok := s.live[popped.id]; ok && live == popped {
			s.baseline[popped.substance] += popped.change.Amount
			delete(s.live, popped.id)
			delete(s.bySub[popped.substance], popped.id)
		}
	}
	s.simTime = t
}

// ClearAllChanges drops every pending change without folding it into the
// baseline, as though it never completes. Used when a Consumed leaves a
// digestion stage early and the component chooses to discard whatever that
// stage had scheduled rather than let it complete in absentia.
func (s *Store) ClearAllChanges() {
	s.heapQ = s.heapQ[:0]
	s.live = make(map[ChangeID]*entry)
	s.bySub = make(map[Substance]map[ChangeID]struct{})
}

// HasNewChanges reports whether any changes have been scheduled since the
// last DrainNewChanges call.
func (s *Store) HasNewChanges() bool {
	return len(s.newSinceDrain) > 0
}

// NewChange pairs a Substance with the Change scheduled for it, returned by
// DrainNewChanges.
type NewChange struct {
	Substance Substance
	Change    Change
}

// DrainNewChanges returns and clears the set of changes added since the
// last drain — at-most-once per change per observer.
func (s *Store) DrainNewChanges() []NewChange {
	out := make([]NewChange, 0, len(s.newSinceDrain))
	for _, e := range s.newSinceDrain {
		out = append(out, NewChange{Substance: e.substance, Change: e.change})
	}
	s.newSinceDrain = s.newSinceDrain[:0]
	return out
}
