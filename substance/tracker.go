package substance

// Tracker remembers the last-observed concentration of one (vessel,
// substance) pair plus a wake threshold: the circulation layer uses it to
// decide whether a component watching that pair should be triggered this
// tick. Grounded on spec.md §4 (ConcentrationTracker) and
// original_source/mortalsim-core/src/sim/layer/circulation/component/initializer.rs's
// use of a tracker per notify_composition_change call.
type Tracker struct {
	Threshold   Concentration
	previousVal Concentration
	initialized bool
}

// NewTracker creates a Tracker with the given wake threshold.
func NewTracker(threshold Concentration) *Tracker {
	return &Tracker{Threshold: threshold}
}

// Check compares current against the remembered previous value and reports
// whether the change crosses the threshold. On the very first call (no
// prior observation), it always reports triggered, matching the
// first-update policy in spec.md §8 scenario 4 ("first-update policy
// triggers the component").
func (t *Tracker) Check(current Concentration) bool {
	if !t.initialized {
		return true
	}
	delta := current - t.previousVal
	if delta < 0 {
		delta = -delta
	}
	return delta > t.Threshold
}

// Update records current as the new previous value.
func (t *Tracker) Update(current Concentration) {
	t.previousVal = current
	t.initialized = true
}
