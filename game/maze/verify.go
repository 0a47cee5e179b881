package maze

import (
	"errors"
	"fmt"

	"github.com/spakin/disjoint"
)

// ErrGenerationInvariant reports a carved grid that is not a spanning tree.
// It indicates a defect in generation, not a runtime condition.
var ErrGenerationInvariant = errors.New("maze generation invariant violated")

// Verify checks that g is a perfect maze: walls agree on both sides of every
// shared edge, the boundary is closed, the open passages contain no cycle,
// there are exactly N²-1 of them and every cell belongs to one component.
func Verify(g *Grid) error {
	n := g.n
	for i := range g.cells {
		c := &g.cells[i]
		for _, d := range Directions {
			q := c.pos.Step(d)
			if !g.InBounds(q) {
				if !c.walls[d] {
					return fmt.Errorf("%w: boundary wall %v of %v is open", ErrGenerationInvariant, d, c.pos)
				}
				continue
			}
			if c.walls[d] != g.cells[g.index(q)].walls[d.Opposite()] {
				return fmt.Errorf("%w: wall between %v and %v is one-sided", ErrGenerationInvariant, c.pos, q)
			}
		}
	}

	sets := make([]*disjoint.Element, len(g.cells))
	for i := range sets {
		sets[i] = disjoint.NewElement()
	}
	edges := g.Edges()
	for _, e := range edges {
		a, b := sets[g.index(e.A)], sets[g.index(e.B)]
		if a.Find() == b.Find() {
			return fmt.Errorf("%w: passage %v-%v closes a cycle", ErrGenerationInvariant, e.A, e.B)
		}
		disjoint.Union(a, b)
	}
	if want := n*n - 1; len(edges) != want {
		return fmt.Errorf("%w: %d passages carved, want %d", ErrGenerationInvariant, len(edges), want)
	}

	root := sets[0].Find()
	for i, s := range sets {
		if s.Find() != root {
			return fmt.Errorf("%w: %v is not connected to (0,0)", ErrGenerationInvariant, g.cells[i].pos)
		}
	}
	return nil
}
