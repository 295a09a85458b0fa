// Package nervous implements the nervous layer: NerveSignals travel along
// ordered nerve paths, passing through registered per-segment transformers
// that may mutate or block them, and are delivered to every component that
// registered notify interest in that (nerve, signal type) pair. Grounded on
// spec.md §4.8 and
// original_source/src/sim/layer/nervous/nervous_layer.rs (signal_notifies /
// notify_map / delivery_signals / transforms / pending_signals bookkeeping)
// and original_source/mortalsim-core/src/sim/layer/nervous/component/initializer.rs
// (notify_of / transform_message shape).
package nervous

import (
	"container/heap"

	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/ids"
	"github.com/vitalframe/physiokernel/organism"
	"github.com/vitalframe/physiokernel/simtime"
)

// NerveSignal is a typed message traversing an ordered nerve path, per
// spec.md §3.
type NerveSignal struct {
	ID       ids.Type
	Path     []organism.NerveID
	SendTime simtime.SimTime
	Payload  event.Event
	Blocked  bool
}

// TransformHandle identifies one registered signal transformer, so a
// component can withdraw exactly the one it added.
type TransformHandle = ids.Type

// Initializer collects a component's one-time notify-interest registrations
// during its NervousInit call.
type Initializer struct {
	notifies map[organism.NerveID]map[event.TypeID]struct{}
}

// NewInitializer creates an empty Initializer.
func NewInitializer() *Initializer {
	return &Initializer{notifies: make(map[organism.NerveID]map[event.TypeID]struct{})}
}

// NotifyOf registers interest in signals of type T traversing nerve: any
// such signal delivers to this component.
func NotifyOf[T event.Event](init *Initializer, nerve organism.NerveID) {
	if init.notifies[nerve] == nil {
		init.notifies[nerve] = make(map[event.TypeID]struct{})
	}
	init.notifies[nerve][event.TypeOfT[T]()] = struct{}{}
}

// transformEntry pairs a transformer's handle with the closure applying it,
// kept in registration order so later passes apply transformers in the
// order they were installed.
type transformEntry struct {
	handle TransformHandle
	fn     func(event.Event) bool
}

// pendingTransformAdd is a transformer staged for installation at the next
// ProcessComponent call.
type pendingTransformAdd struct {
	nerve organism.NerveID
	typ   event.TypeID
	fn    func(event.Event) bool
}

// Connector is a nervous component's window onto the layer: signals
// delivered this tick, a place to stage outgoing signals, and transformer
// add/remove requests applied once the component's run completes.
type Connector struct {
	incoming             map[event.TypeID][]*NerveSignal
	outgoing             []*NerveSignal
	addingTransforms     []pendingTransformAdd
	removingTransforms   []TransformHandle
	registeredTransforms map[organism.NerveID]map[event.TypeID]TransformHandle
}

// NewConnector creates an empty Connector.
func NewConnector() *Connector {
	return &Connector{registeredTransforms: make(map[organism.NerveID]map[event.TypeID]TransformHandle)}
}

// Incoming returns the signals of type T delivered to this component this
// tick.
func Incoming[T event.Event](c *Connector) []*NerveSignal {
	return c.incoming[event.TypeOfT[T]()]
}

// Send stages sig for delivery once the component's run completes.
func (c *Connector) Send(sig *NerveSignal) {
	c.outgoing = append(c.outgoing, sig)
}

// AddTransform stages a transformer over signals of type T on nerve. fn
// receives the signal's payload and returns false to block it (halting
// further propagation along the path) or true to let it continue.
func AddTransform[T event.Event](c *Connector, nerve organism.NerveID, fn func(*T) bool) {
	c.addingTransforms = append(c.addingTransforms, pendingTransformAdd{
		nerve: nerve,
		typ:   event.TypeOfT[T](),
		fn: func(e event.Event) bool {
			v, ok := e.(*T)
			if !ok {
				return true
			}
			return fn(v)
		},
	})
}

// RemoveTransform withdraws the transformer this component previously
// registered over type typ on nerve, if any. Observable no later than the
// layer's next PreExec.
func (c *Connector) RemoveTransform(nerve organism.NerveID, typ event.TypeID) {
	if h, ok := c.registeredTransforms[nerve][typ]; ok {
		c.removingTransforms = append(c.removingTransforms, h)
		delete(c.registeredTransforms[nerve], typ)
	}
}

// Component is implemented by anything that participates in the nervous
// layer. Defined with its own ID() method so this package has no
// dependency on package component.
type Component interface {
	ID() string
	NervousInit(*Initializer)
	NervousConnector() *Connector
}

// pendingEntry pairs one outgoing signal with its send time and insertion
// sequence, the tuple the pending heap orders by. Modeled on the teacher's
// container/heap.Interface SignalQueue in neuron/signal_scheduler.go.
type pendingEntry struct {
	sendTime simtime.SimTime
	seq      uint64
	signal   *NerveSignal
}

type pendingHeap []*pendingEntry

func (h pendingHeap) Len() int { return len(h) }
func (h pendingHeap) Less(i, j int) bool {
	if h[i].sendTime != h[j].sendTime {
		return h[i].sendTime < h[j].sendTime
	}
	return h[i].seq < h[j].seq
}
func (h pendingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *pendingHeap) Push(x interface{}) {
	*h = append(*h, x.(*pendingEntry))
}
func (h *pendingHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Layer is the nervous layer's per-Sim state.
type Layer struct {
	idGen           *ids.Generator
	pendingSeq      uint64
	signalNotifies  map[organism.NerveID]map[event.TypeID]map[string]struct{}
	notifyMap       map[string]map[ids.Type]struct{}
	deliverySignals []*NerveSignal
	transforms      map[organism.NerveID]map[event.TypeID][]transformEntry
	pending         pendingHeap
}

// NewLayer creates an empty nervous layer.
func NewLayer() *Layer {
	return &Layer{
		idGen:          ids.New(),
		signalNotifies: make(map[organism.NerveID]map[event.TypeID]map[string]struct{}),
		notifyMap:      make(map[string]map[ids.Type]struct{}),
		transforms:     make(map[organism.NerveID]map[event.TypeID][]transformEntry),
	}
}

// AddComponent runs c's one-time NervousInit and records its notify
// registrations.
func (l *Layer) AddComponent(c Component) {
	init := NewInitializer()
	c.NervousInit(init)
	for nerve, types := range init.notifies {
		if l.signalNotifies[nerve] == nil {
			l.signalNotifies[nerve] = make(map[event.TypeID]map[string]struct{})
		}
		for typ := range types {
			if l.signalNotifies[nerve][typ] == nil {
				l.signalNotifies[nerve][typ] = make(map[string]struct{})
			}
			l.signalNotifies[nerve][typ][c.ID()] = struct{}{}
		}
	}
}

// RemoveComponent drops c's notify registrations and any pending delivery
// claim.
func (l *Layer) RemoveComponent(c Component) {
	for _, types := range l.signalNotifies {
		for _, comps := range types {
			delete(comps, c.ID())
		}
	}
	delete(l.notifyMap, c.ID())
}

// ScheduleSignal introduces a new outbound signal directly, bypassing a
// component's Connector — used by layer-external code (demo drivers,
// tests) seeding the first signal of a simulation.
func (l *Layer) ScheduleSignal(sig *NerveSignal) {
	l.schedulePending(sig)
}

func (l *Layer) schedulePending(sig *NerveSignal) {
	l.pendingSeq++
	heap.Push(&l.pending, &pendingEntry{sendTime: sig.SendTime, seq: l.pendingSeq, signal: sig})
}

// PreExec drains every pending signal due by simTime, walks its nerve path
// applying registered transformers of the matching type in registration
// order, stopping at the first one that blocks it, and — for every (nerve,
// type) hop a non-blocked signal clears — unions the registered component
// ids into that signal's delivery set.
func (l *Layer) PreExec(simTime simtime.SimTime) {
	for l.pending.Len() > 0 && l.pending[0].sendTime <= simTime {
		entry := heap.Pop(&l.pending).(*pendingEntry)
		sig := entry.signal

		if !sig.Blocked {
			typ := event.TypeOf(sig.Payload)
		walk:
			for _, nerve := range sig.Path {
				for _, te := range l.transforms[nerve][typ] {
					if !te.fn(sig.Payload) {
						sig.Blocked = true
						break walk
					}
				}
				for cid := range l.signalNotifies[nerve][typ] {
					if l.notifyMap[cid] == nil {
						l.notifyMap[cid] = make(map[ids.Type]struct{})
					}
					l.notifyMap[cid][sig.ID] = struct{}{}
				}
			}
		}
		l.deliverySignals = append(l.deliverySignals, sig)
	}
}

// CheckComponent reports whether c has any signal awaiting delivery.
func (l *Layer) CheckComponent(c Component) bool {
	return len(l.notifyMap[c.ID()]) > 0
}

// PrepareComponent claims every signal in c's delivery set out of the
// shared pool and into its Connector's inbox, sorted by payload type.
// Claimed signals leave the shared pool for the duration of c's run and
// return to it in ProcessComponent, so a signal destined for more than one
// component remains available to whichever of them runs later in the tick.
func (l *Layer) PrepareComponent(c Component) {
	claim, ok := l.notifyMap[c.ID()]
	if !ok {
		return
	}
	delete(l.notifyMap, c.ID())

	conn := c.NervousConnector()
	conn.incoming = make(map[event.TypeID][]*NerveSignal)
	remaining := l.deliverySignals[:0]
	for _, sig := range l.deliverySignals {
		if _, want := claim[sig.ID]; want {
			typ := event.TypeOf(sig.Payload)
			conn.incoming[typ] = append(conn.incoming[typ], sig)
		} else {
			remaining = append(remaining, sig)
		}
	}
	l.deliverySignals = remaining
}

// ProcessComponent returns the claimed signals to the shared pool, applies
// the component's staged transformer add/remove requests, and enqueues its
// outgoing signals by send time.
func (l *Layer) ProcessComponent(c Component) {
	conn := c.NervousConnector()

	for _, sigs := range conn.incoming {
		l.deliverySignals = append(l.deliverySignals, sigs...)
	}
	conn.incoming = nil

	for _, h := range conn.removingTransforms {
		l.removeTransform(h)
	}
	conn.removingTransforms = nil

	for _, add := range conn.addingTransforms {
		h := l.idGen.Acquire()
		if l.transforms[add.nerve] == nil {
			l.transforms[add.nerve] = make(map[event.TypeID][]transformEntry)
		}
		l.transforms[add.nerve][add.typ] = append(l.transforms[add.nerve][add.typ], transformEntry{handle: h, fn: add.fn})
		if conn.registeredTransforms[add.nerve] == nil {
			conn.registeredTransforms[add.nerve] = make(map[event.TypeID]TransformHandle)
		}
		conn.registeredTransforms[add.nerve][add.typ] = h
	}
	conn.addingTransforms = nil

	for _, sig := range conn.outgoing {
		l.schedulePending(sig)
	}
	conn.outgoing = nil
}

// removeTransform drops the transformer identified by h from whichever
// (nerve, type) bucket holds it.
func (l *Layer) removeTransform(h TransformHandle) {
	for nerve, byType := range l.transforms {
		for typ, list := range byType {
			kept := list[:0]
			for _, te := range list {
				if te.handle != h {
					kept = append(kept, te)
				}
			}
			l.transforms[nerve][typ] = kept
		}
	}
}

// PostExec does nothing in the nervous layer: pending signals self-manage
// through the heap without needing a self-scheduled wakeup.
func (l *Layer) PostExec() {}
