package maze

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Generator carves perfect mazes with randomized Prim's frontier-wall growth.
// A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator drawing from a PCG source seeded with seed.
// A zero seed picks one from the clock.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate resets g and carves it into a spanning tree rooted at (0,0).
func (gen *Generator) Generate(g *Grid) {
	g.Reset()

	f := newFrontier()
	start := &g.cells[0]
	start.visited = true
	f.addAround(g, 0)

	for f.len() > 0 {
		w := f.take(gen.rng.IntN(f.len()))
		a, b := &g.cells[w.lo], &g.cells[w.hi]
		if a.visited == b.visited {
			continue
		}

		next := w.hi
		if b.visited {
			next = w.lo
		}
		carveWall(g, w)
		g.cells[next].visited = true
		f.addAround(g, next)
	}
}

// carveWall removes w from g. Frontier walls always join two neighbors
// inside g, so a failure here is a generator defect and panics.
func carveWall(g *Grid, w wall) {
	a, b := g.at(w.lo), g.at(w.hi)
	d, ok := a.DirectionTo(b)
	if !ok {
		panic(fmt.Errorf("%w: frontier wall joins %v and %v which are not neighbors", ErrGenerationInvariant, a, b))
	}
	if err := g.Carve(a, d); err != nil {
		panic(fmt.Errorf("%w: %v", ErrGenerationInvariant, err))
	}
}

// wall identifies the shared edge between two adjacent cells by their
// row-major indices, lo < hi, so (a,b) and (b,a) map to the same key.
type wall struct {
	lo, hi int
}

func newWall(a, b int) wall {
	if a > b {
		a, b = b, a
	}
	return wall{lo: a, hi: b}
}

// frontier is a set of candidate walls supporting uniform random removal in
// O(1): walls live in a slice and index maps each one to its slot.
type frontier struct {
	walls []wall
	index map[wall]int
}

func newFrontier() *frontier {
	return &frontier{index: make(map[wall]int)}
}

func (f *frontier) len() int { return len(f.walls) }

func (f *frontier) add(w wall) bool {
	if _, ok := f.index[w]; ok {
		return false
	}
	f.index[w] = len(f.walls)
	f.walls = append(f.walls, w)
	return true
}

// take removes and returns the wall in slot i, filling the hole with the
// last element.
func (f *frontier) take(i int) wall {
	w := f.walls[i]
	last := len(f.walls) - 1
	if i != last {
		moved := f.walls[last]
		f.walls[i] = moved
		f.index[moved] = i
	}
	f.walls = f.walls[:last]
	delete(f.index, w)
	return w
}

// addAround queues every wall between cell i and an unvisited neighbor.
func (f *frontier) addAround(g *Grid, i int) {
	for _, q := range g.Neighbors(g.at(i)) {
		j := g.index(q)
		if !g.cells[j].visited {
			f.add(newWall(i, j))
		}
	}
}
