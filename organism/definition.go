// Package organism defines the data describing an organism's blood-vessel
// graph and nerve graph — the anatomy/vessel/nerve taxonomy that spec.md §1
// calls out as an external collaborator ("provided by the organism
// definition"). physiokernel treats these as plain, data-driven structures
// rather than a compiled taxonomy, loadable from YAML (see loader.go).
package organism

import "github.com/vitalframe/physiokernel/kerr"

// VesselID identifies a node in the blood-vessel DAG. String-based so an
// organism definition can name vessels without requiring a compiled Go type
// per organism.
type VesselID string

// NerveID identifies a node in the nerve graph.
type NerveID string

// AnatomyID identifies a body location, used by wound/infection events.
type AnatomyID string

// BloodEdge connects two vessels in the circulation DAG, carrying the
// shares of flow that leave the upstream vessel and enter the downstream
// one, plus an explicit propagation latency.
//
// The exact propagation latency from an upstream to a downstream vessel is
// not mechanically derivable (spec.md §9 Open Question) — it is an explicit
// property of the edge, supplied by the organism definition, not computed.
type BloodEdge struct {
	From VesselID `yaml:"from"`
	To   VesselID `yaml:"to"`
	// OutgoingPct is the share of the upstream vessel's change that leaves
	// along this edge.
	OutgoingPct float64 `yaml:"outgoing_pct"`
	// IncomingPct is the share of what arrives at this edge that the
	// downstream vessel actually receives.
	IncomingPct float64 `yaml:"incoming_pct"`
	// HopLatencySeconds is the scheduling delay applied to the downstream
	// dependent change.
	HopLatencySeconds float64 `yaml:"hop_latency_seconds"`
}

// NerveEdge connects two nerves, directional: To is a downlink of From, and
// From is an uplink of To.
type NerveEdge struct {
	From NerveID `yaml:"from"`
	To   NerveID `yaml:"to"`
}

// Definition is the full organism-level graph description: the vessel DAG,
// the nerve graph, and the bounds the circulation/digestion layers use as
// defaults.
type Definition struct {
	Name string `yaml:"name"`

	Vessels       []VesselID  `yaml:"vessels"`
	VesselEdges   []BloodEdge `yaml:"vessel_edges"`
	PreCapillary  []VesselID  `yaml:"pre_capillary"`
	PostCapillary []VesselID  `yaml:"post_capillary"`
	MaxArterialDepth int      `yaml:"max_arterial_depth"`
	MaxVenousDepth   int      `yaml:"max_venous_depth"`
	MaxCycle         int      `yaml:"max_cycle"`

	Nerves     []NerveID   `yaml:"nerves"`
	NerveEdges []NerveEdge `yaml:"nerve_edges"`

	DefaultDigestionDurationSeconds float64 `yaml:"default_digestion_duration_seconds"`
	EliminationDelaySeconds         float64 `yaml:"elimination_delay_seconds"`

	vesselIndex map[VesselID]int
	nerveIndex  map[NerveID]int
	outEdges    map[VesselID][]BloodEdge
	nerveUp     map[NerveID][]NerveID
	nerveDown   map[NerveID][]NerveID
}

// Validate checks internal consistency (every edge references a declared
// vessel/nerve) and builds the adjacency indices used at runtime. It must be
// called once after loading before the definition is used by a Sim.
func (d *Definition) Validate() error {
	d.vesselIndex = make(map[VesselID]int, len(d.Vessels))
	for i, v := range d.Vessels {
		d.vesselIndex[v] = i
	}
	d.outEdges = make(map[VesselID][]BloodEdge)
	for _, e := range d.VesselEdges {
		if _, ok := d.vesselIndex[e.From]; !ok {
			return kerr.ErrInvalidBridge
		}
		if _, ok := d.vesselIndex[e.To]; !ok {
			return kerr.ErrInvalidBridge
		}
		d.outEdges[e.From] = append(d.outEdges[e.From], e)
	}

	d.nerveIndex = make(map[NerveID]int, len(d.Nerves))
	for i, n := range d.Nerves {
		d.nerveIndex[n] = i
	}
	d.nerveUp = make(map[NerveID][]NerveID)
	d.nerveDown = make(map[NerveID][]NerveID)
	for _, e := range d.NerveEdges {
		if _, ok := d.nerveIndex[e.From]; !ok {
			return kerr.ErrInvalidBridge
		}
		if _, ok := d.nerveIndex[e.To]; !ok {
			return kerr.ErrInvalidBridge
		}
		d.nerveDown[e.From] = append(d.nerveDown[e.From], e.To)
		d.nerveUp[e.To] = append(d.nerveUp[e.To], e.From)
	}
	return nil
}

// HasVessel reports whether id is declared in this definition.
func (d *Definition) HasVessel(id VesselID) bool {
	_, ok := d.vesselIndex[id]
	return ok
}

// HasNerve reports whether id is declared in this definition.
func (d *Definition) HasNerve(id NerveID) bool {
	_, ok := d.nerveIndex[id]
	return ok
}

// DownstreamEdges returns the outgoing BloodEdges from a vessel.
func (d *Definition) DownstreamEdges(id VesselID) []BloodEdge {
	return d.outEdges[id]
}

// Downlinks returns the nerves directly downstream of nerve id.
func (d *Definition) Downlinks(id NerveID) []NerveID {
	return d.nerveDown[id]
}

// Uplinks returns the nerves directly upstream of nerve id.
func (d *Definition) Uplinks(id NerveID) []NerveID {
	return d.nerveUp[id]
}
