// Package substance implements the concentration-over-time ledger shared by
// the Circulation and Digestion layers: a SubstanceStore composes many
// pending SubstanceChanges into an effective concentration at any query
// time. Grounded on spec.md §3/§4.3 and
// original_source/mortalsim-core/src/substance/substance_wrapper.rs.
package substance

// Substance names a chemical species tracked by a store. Left as an open,
// string-based set (rather than a fixed enum) so organism definitions and
// components can introduce substances the kernel itself has no opinion
// about — the kernel only needs equality and use as a map key.
type Substance string

// A handful of substances referenced directly by built-in events and the
// spec's worked examples (GLC, NH3, Cellulose — scenario 3 in spec.md §8).
const (
	GLC       Substance = "GLC"       // glucose
	NH3       Substance = "NH3"       // ammonia
	Cellulose Substance = "Cellulose" // dietary fiber
	CO2       Substance = "CO2"
	O2        Substance = "O2"
)

// Concentration is a real-valued concentration in millimolar (mM). Zero is
// the canonical "absent" value; negative values are legal and represent a
// deficit unless a caller explicitly forbids them.
type Concentration = float64
