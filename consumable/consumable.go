// Package consumable defines the digestible unit that flows through the
// digestion layer's conveyor of stages, per spec.md §3 (Consumable,
// Consumed) and §4.7.
package consumable

import (
	"fmt"

	"github.com/vitalframe/physiokernel/ids"
	"github.com/vitalframe/physiokernel/simtime"
	"github.com/vitalframe/physiokernel/substance"
)

// ID identifies a Consumable for the lifetime of a simulation.
type ID = ids.Type

// Consumable is a digestible unit: its own substance store, a volume, and a
// movement multiplier that influences downstream exit delay.
type Consumable struct {
	ID                 ID
	Name               string
	Store              *substance.Store
	Volume             float64
	MovementMultiplier float64
}

// NewConsumable creates a Consumable with a fresh store and the given
// volume. MovementMultiplier defaults to 1.0 (neutral).
func NewConsumable(id ID, name string, volume float64) *Consumable {
	return &Consumable{
		ID:                 id,
		Name:               name,
		Store:              substance.NewStore(),
		Volume:             volume,
		MovementMultiplier: 1.0,
	}
}

// ExitDirection is the conveyor-movement intent a digestion component sets
// on a Consumed during its run, per spec.md §4.7's movement FSM.
type ExitDirection int

const (
	Forward ExitDirection = iota
	Back
	Exhausted
)

func (d ExitDirection) String() string {
	switch d {
	case Forward:
		return "FORWARD"
	case Back:
		return "BACK"
	case Exhausted:
		return "EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// Consumed wraps a Consumable with conveyor state: when it entered its
// current stage, when it is due to leave, which direction it should move,
// and which scheduled-change ids the holding component owns.
type Consumed struct {
	*Consumable
	EntryTime     simtime.SimTime
	ExitTime      simtime.SimTime
	ExitDirection ExitDirection
	OwnedChanges  []substance.ChangeID
}

// NewConsumed wraps c as freshly entering a stage at entryTime, with a
// default exit scheduled defaultDuration later and direction Forward.
func NewConsumed(c *Consumable, entryTime simtime.SimTime, defaultDuration simtime.SimTimeSpan) *Consumed {
	return &Consumed{
		Consumable:    c,
		EntryTime:     entryTime,
		ExitTime:      entryTime + defaultDuration,
		ExitDirection: Forward,
	}
}

// Advance advances the Consumed's own store to t.
func (c *Consumed) Advance(t simtime.SimTime) {
	c.Store.Advance(t)
}

// ClearAllChanges drops every pending change scheduled against this
// Consumed's store, discarding rather than completing them.
func (c *Consumed) ClearAllChanges() {
	c.Store.ClearAllChanges()
}

// ConcentrationOf reads the current concentration of sub in this
// Consumed's own store.
func (c *Consumed) ConcentrationOf(sub substance.Substance) substance.Concentration {
	return c.Store.ConcentrationOf(sub)
}

// ScheduleChange schedules a convenience change against this Consumed's own
// store, starting immediately.
func (c *Consumed) ScheduleChange(sub substance.Substance, amount substance.Concentration, duration simtime.SimTimeSpan) (substance.ChangeID, error) {
	id, err := c.Store.ScheduleChange(sub, amount, duration)
	if err == nil {
		c.OwnedChanges = append(c.OwnedChanges, id)
	}
	return id, err
}

// SetExit records the component's movement decision for this tick: the
// Consumed will leave its current stage wait time units from now, moving in
// direction.
func (c *Consumed) SetExit(wait simtime.SimTimeSpan, direction ExitDirection) error {
	if wait < 0 {
		return fmt.Errorf("digestion exit wait must be >= 0, got %v", wait)
	}
	c.ExitTime = c.Store.SimTime() + wait
	c.ExitDirection = direction
	return nil
}
