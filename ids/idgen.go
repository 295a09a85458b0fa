// Package ids provides a monotone, freelist-backed identifier generator.
//
// Grounded on original_source/mortalsim-core/src/id_gen.rs: a sequential
// counter hands out new identifiers, and identifiers explicitly returned to
// the generator are reused (LIFO) before the counter advances further.
package ids

import (
	"fmt"

	"github.com/vitalframe/physiokernel/kerr"
)

// Type is the underlying identifier representation. 32 bits is ample for
// the lifetime of a single simulation process; callers needing more should
// shard across multiple generators rather than widen this type.
type Type = uint32

// Generator hands out sequential Type values, reusing explicitly released
// ids before minting new ones. It has no internal synchronization — callers
// sharing a Generator across goroutines must wrap it themselves, matching
// spec.md's "no thread-safety requirement internally."
type Generator struct {
	curID     Type
	available []Type
}

// New creates a Generator starting at id 0.
func New() *Generator {
	return &Generator{}
}

// Acquire returns the top of the freelist if non-empty, otherwise the next
// sequential id.
func (g *Generator) Acquire() Type {
	if n := len(g.available); n > 0 {
		id := g.available[n-1]
		g.available = g.available[:n-1]
		return id
	}
	id := g.curID
	g.curID++
	return id
}

// Release returns id to the generator for reuse. It fails with
// kerr.ErrDuplicateIDReturn if id is already on the freelist, or
// kerr.ErrInvalidIDReturn if id was never issued.
func (g *Generator) Release(id Type) error {
	for _, avail := range g.available {
		if avail == id {
			return fmt.Errorf("%w: %d", kerr.ErrDuplicateIDReturn, id)
		}
	}
	if id >= g.curID {
		return fmt.Errorf("%w: %d", kerr.ErrInvalidIDReturn, id)
	}
	g.available = append(g.available, id)
	return nil
}

// Outstanding reports how many ids have been minted but not returned.
func (g *Generator) Outstanding() int {
	return int(g.curID) - len(g.available)
}
