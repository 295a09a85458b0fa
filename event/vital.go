package event

// Vital-sign events mirror the small set of always-available notification
// types the original exposes directly off SimState (original_source
// mortalsim-core/src/event/mod.rs re-exports a `vital` module of exactly
// this shape). They are non-transient: the last value of each persists on
// the sim's state map for query between ticks.

// HeartRate reports beats per minute. Non-transient. Carries an optional
// SourceBase so a snapshot can attribute the reading to the component that
// emitted it.
type HeartRate struct {
	SourceBase
	BeatsPerMinute float64
}

func (HeartRate) Transient() bool { return false }

// AorticBloodPressure reports systolic/diastolic pressure at the aortic
// root, in mmHg. Non-transient.
type AorticBloodPressure struct {
	SourceBase
	Systolic  float64
	Diastolic float64
}

func (AorticBloodPressure) Transient() bool { return false }

// PulmonaryBloodPressure reports systolic/diastolic pressure in the
// pulmonary circuit, in mmHg. Non-transient.
type PulmonaryBloodPressure struct {
	SourceBase
	Systolic  float64
	Diastolic float64
}

func (PulmonaryBloodPressure) Transient() bool { return false }
