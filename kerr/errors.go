// Package kerr collects the sentinel error kinds shared across the kernel,
// matching spec.md §7. Call sites wrap these with fmt.Errorf("%w: ...", ...)
// for context, in the style of synapse/synapse.go's ErrSynapseInactive
// family and extracellular/plasticity.go's call-site wrapping.
package kerr

import "errors"

var (
	// ErrDuplicateComponentID is returned by AddComponent on an id collision.
	ErrDuplicateComponentID = errors.New("duplicate component id")
	// ErrUnsupportedLayer is returned when a component requires a layer not
	// present in a custom Sim/LayerManager configuration.
	ErrUnsupportedLayer = errors.New("component requires an unsupported layer")
	// ErrInvalidScheduleID is returned by UnscheduleEvent for an unknown id.
	ErrInvalidScheduleID = errors.New("invalid schedule id")
	// ErrAlreadyFired is returned by UnscheduleEvent for an id whose event
	// has already been delivered.
	ErrAlreadyFired = errors.New("event has already fired")
	// ErrInvalidDuration is returned when scheduling with duration <= 0.
	ErrInvalidDuration = errors.New("duration must be greater than zero")
	// ErrPastTime is returned when scheduling with start_time < sim_time.
	ErrPastTime = errors.New("start time is in the past")
	// ErrInvalidIDReturn is returned by IdGenerator.Release for unissued ids.
	ErrInvalidIDReturn = errors.New("invalid id return")
	// ErrDuplicateIDReturn is returned by IdGenerator.Release for ids already
	// on the freelist.
	ErrDuplicateIDReturn = errors.New("duplicate id return")
	// ErrInvalidFactoryID is returned by RemoveDefault for an unknown factory id.
	ErrInvalidFactoryID = errors.New("invalid factory id")
	// ErrInvalidBridge is returned when an organism graph references an
	// undefined vessel or nerve.
	ErrInvalidBridge = errors.New("organism graph references an undefined node")
)
