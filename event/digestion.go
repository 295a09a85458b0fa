package event

import "github.com/vitalframe/physiokernel/consumable"

// ConsumeEvent introduces a new Consumable into stage 0 of the digestion
// layer. Transient: it is delivered once to the digestion layer's pre_exec
// and does not persist as state. Grounded on spec.md §3's Consumable
// lifecycle and original_source mortalsim-core's digestion layer consuming
// external events of this shape.
type ConsumeEvent struct {
	Base
	Consumable *consumable.Consumable
}

// EliminateEvent announces that a Consumable has left the digestion
// conveyor, either off the end (FORWARD) or the start (BACK), after the
// organism's elimination delay. Transient.
type EliminateEvent struct {
	Base
	Consumable *consumable.Consumable
	Direction  consumable.ExitDirection
}
