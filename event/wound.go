package event

import "github.com/vitalframe/physiokernel/organism"

// WoundKind enumerates the wound mechanisms the original encodes as nine
// separate enum variants (original_source mortalsim-core/src/event/wound.rs,
// AcuteWound<O>). SPEC_FULL.md's supplemented-features decision collapses
// them into one Kind-tagged struct: Go has no sum-type match ergonomics to
// lose by doing so, and a tag field is how this codebase otherwise spells a
// closed choice (see boundfn.Kind).
type WoundKind int

const (
	Incision WoundKind = iota
	Burn
	Cut
	Laceration
	PressureUlcer
	Puncture
	Abrasion
	Avulsion
	Bruise
)

func (k WoundKind) String() string {
	switch k {
	case Incision:
		return "Incision"
	case Burn:
		return "Burn"
	case Cut:
		return "Cut"
	case Laceration:
		return "Laceration"
	case PressureUlcer:
		return "PressureUlcer"
	case Puncture:
		return "Puncture"
	case Abrasion:
		return "Abrasion"
	case Avulsion:
		return "Avulsion"
	case Bruise:
		return "Bruise"
	default:
		return "UnknownWound"
	}
}

// AcuteWound is a traumatic injury to a body location: its mechanism, where
// it occurred, its dimensions in meters, and any infections seeded at the
// site. Non-transient: wounds persist as queryable state until healed or
// otherwise cleared by a component.
type AcuteWound struct {
	Kind       WoundKind
	Location   organism.AnatomyID
	Length     float64
	Width      float64
	Depth      float64
	Infections []Infection
}

// Transient reports false: an AcuteWound outlives the tick it's reported in.
func (AcuteWound) Transient() bool { return false }
