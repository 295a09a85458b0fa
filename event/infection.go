package event

import "github.com/vitalframe/physiokernel/substance"

// Infection describes a localized pathogen burden: which organism a wound
// or tissue site has been colonized by, and its current severity. Grounded
// on original_source mortalsim-core/src/event/infection.rs (filtered out of
// the retrieval pack, but referenced by wound.rs's `infections: Vec<Infection<O>>`
// field, whose shape this reconstructs).
type Infection struct {
	Base
	Pathogen string
	Severity float64
	Byproduct substance.Substance
}
