// Package snapshot exports a diagnostic point-in-time view of a running Sim
// as msgpack, for out-of-process inspection (debuggers, recorded-run
// comparison; the CLI's `run` command prints one as JSON at the end of the
// run). Not part of the simulation
// kernel itself — a read-only projection of it.
package snapshot

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/sim"
)

// Pressure mirrors an event.AorticBloodPressure or PulmonaryBloodPressure
// reading.
type Pressure struct {
	Systolic  float64 `msgpack:"systolic"`
	Diastolic float64 `msgpack:"diastolic"`
}

// Snapshot is the msgpack-serializable diagnostic view of a Sim at the
// instant Capture is called.
type Snapshot struct {
	SimTime                float64   `msgpack:"sim_time"`
	Components             []string  `msgpack:"components"`
	HeartRateBPM           *float64  `msgpack:"heart_rate_bpm,omitempty"`
	HeartRateSource        string    `msgpack:"heart_rate_source,omitempty"`
	AorticBloodPressure    *Pressure `msgpack:"aortic_blood_pressure,omitempty"`
	PulmonaryBloodPressure *Pressure `msgpack:"pulmonary_blood_pressure,omitempty"`
}

// Capture reads s's current time, attached components, and last-known
// vital-sign state into a Snapshot.
func Capture(s *sim.Sim) *Snapshot {
	snap := &Snapshot{
		SimTime:    s.Time(),
		Components: s.ActiveComponents(),
	}

	if v, ok := s.State(event.TypeOfT[event.HeartRate]()); ok {
		hr := v.(*event.HeartRate)
		bpm := hr.BeatsPerMinute
		snap.HeartRateBPM = &bpm
		snap.HeartRateSource = event.SourceOf(hr)
	}
	if v, ok := s.State(event.TypeOfT[event.AorticBloodPressure]()); ok {
		p := v.(*event.AorticBloodPressure)
		snap.AorticBloodPressure = &Pressure{Systolic: p.Systolic, Diastolic: p.Diastolic}
	}
	if v, ok := s.State(event.TypeOfT[event.PulmonaryBloodPressure]()); ok {
		p := v.(*event.PulmonaryBloodPressure)
		snap.PulmonaryBloodPressure = &Pressure{Systolic: p.Systolic, Diastolic: p.Diastolic}
	}
	return snap
}

// Encode serializes the snapshot as msgpack.
func (s *Snapshot) Encode() ([]byte, error) {
	return msgpack.Marshal(s)
}

// Decode parses a msgpack-encoded Snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
