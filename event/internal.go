package event

// InternalLayerTrigger is a self-scheduled wakeup a layer posts to
// TimeManager so the sim advances precisely when the layer next has work
// due, rather than polling every tick. Digestion's post_exec uses this to
// wake at the earliest pending Consumed.ExitTime (spec.md §4.7). Transient.
type InternalLayerTrigger struct {
	Base
	Layer string
}
