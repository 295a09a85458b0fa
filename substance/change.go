package substance

import (
	"github.com/vitalframe/physiokernel/boundfn"
	"github.com/vitalframe/physiokernel/ids"
	"github.com/vitalframe/physiokernel/simtime"
)

// ChangeID identifies a scheduled SubstanceChange within one store.
type ChangeID = ids.Type

// Change is a scheduled concentration delta: amount is spread over
// [StartTime, StartTime+Duration) according to BoundFn, and holds flat at
// Amount forever afterward (the change is then "complete").
type Change struct {
	StartTime   simtime.SimTime
	Duration    simtime.SimTimeSpan
	Amount      Concentration
	BoundFn     boundfn.Kind
	PreviousVal Concentration // not set by Store; stays zero
}

// contributionAt returns the change's contribution to concentration at time
// t, and whether the change is complete (t >= StartTime+Duration) as of
// that query.
func (c Change) contributionAt(t simtime.SimTime) (value Concentration, complete bool) {
	if t < c.StartTime {
		return 0, false
	}
	tau := t - c.StartTime
	if tau >= c.Duration {
		return c.Amount, true
	}
	return c.BoundFn.Call(tau, c.Duration, c.Amount), false
}

// EndTime is the simulated time at which the change completes.
func (c Change) EndTime() simtime.SimTime {
	return c.StartTime + c.Duration
}
