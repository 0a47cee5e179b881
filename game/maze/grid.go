package maze

import (
	"errors"
	"fmt"
)

// WallThickness is the world-space thickness of a drawn wall.
const WallThickness = 0.002

var (
	// ErrOutOfBounds is returned for coordinates outside [0,N) on either axis.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidSize is returned by NewGrid for a side length below one or a
	// non-positive world size.
	ErrInvalidSize = errors.New("invalid grid size")
)

// Grid is an N×N arrangement of cells laid out on a square of side worldSize
// centered on the origin. Its shape never changes after construction.
type Grid struct {
	n         int
	worldSize float64
	cellSize  float64
	cells     []Cell
}

// Edge is an open passage between two adjacent cells. A is always the cell
// with the lower row-major index.
type Edge struct {
	A Position `json:"a"`
	B Position `json:"b"`
}

// NewGrid allocates an n×n grid with every wall present. Row 0 is at the top
// of the world square and column 0 at its left.
func NewGrid(n int, worldSize float64) (*Grid, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: side length %d", ErrInvalidSize, n)
	}
	if worldSize <= 0 {
		return nil, fmt.Errorf("%w: world size %g", ErrInvalidSize, worldSize)
	}

	g := &Grid{
		n:         n,
		worldSize: worldSize,
		cellSize:  worldSize / float64(n),
		cells:     make([]Cell, n*n),
	}
	half := worldSize / 2
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			c := &g.cells[row*n+col]
			c.pos = Position{Row: row, Col: col}
			c.x = -half + g.cellSize*(float64(col)+0.5)
			c.y = half - g.cellSize*(float64(row)+0.5)
			c.reset()
		}
	}
	return g, nil
}

// Size returns the side length N.
func (g *Grid) Size() int { return g.n }

// CellSize returns the world-space side of one cell.
func (g *Grid) CellSize() float64 { return g.cellSize }

// WorldSize returns the side of the square the grid is laid out on.
func (g *Grid) WorldSize() float64 { return g.worldSize }

// InBounds reports whether p addresses a cell of this grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.n && p.Col >= 0 && p.Col < g.n
}

// Cell returns the cell at p.
func (g *Grid) Cell(p Position) (*Cell, error) {
	if !g.InBounds(p) {
		return nil, fmt.Errorf("%w: %v in %dx%d grid", ErrOutOfBounds, p, g.n, g.n)
	}
	return &g.cells[g.index(p)], nil
}

func (g *Grid) index(p Position) int { return p.Row*g.n + p.Col }

func (g *Grid) at(i int) Position { return g.cells[i].pos }

// Neighbors returns the in-bounds positions sharing an edge with p, in
// Direction order. Walls are ignored.
func (g *Grid) Neighbors(p Position) []Position {
	if !g.InBounds(p) {
		return nil
	}
	out := make([]Position, 0, 4)
	for _, d := range Directions {
		if q := p.Step(d); g.InBounds(q) {
			out = append(out, q)
		}
	}
	return out
}

// Reset restores every wall and clears the generation flags.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i].reset()
	}
}

// Carve removes the wall on side d of the cell at p together with the
// matching wall of the neighbor across it.
func (g *Grid) Carve(p Position, d Direction) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidDirection, d)
	}
	q := p.Step(d)
	if !g.InBounds(p) || !g.InBounds(q) {
		return fmt.Errorf("%w: carve %v from %v", ErrOutOfBounds, d, p)
	}
	g.cells[g.index(p)].walls[d] = false
	g.cells[g.index(q)].walls[d.Opposite()] = false
	return nil
}

// HasWall reports whether side d of the cell at p is walled. Positions
// outside the grid count as solid.
func (g *Grid) HasWall(p Position, d Direction) bool {
	if !g.InBounds(p) {
		return true
	}
	return g.cells[g.index(p)].HasWall(d)
}

// CanStep reports whether one step from p in direction d stays inside the
// grid without crossing a wall.
func (g *Grid) CanStep(p Position, d Direction) bool {
	return !g.HasWall(p, d) && g.InBounds(p.Step(d))
}

// Connected reports whether a and b are adjacent with no wall between them.
func (g *Grid) Connected(a, b Position) bool {
	d, ok := a.DirectionTo(b)
	return ok && g.CanStep(a, d)
}

// Edges lists every open passage, scanning rows top to bottom.
func (g *Grid) Edges() []Edge {
	var edges []Edge
	for i := range g.cells {
		p := g.cells[i].pos
		for _, d := range [...]Direction{Right, Down} {
			if g.CanStep(p, d) {
				edges = append(edges, Edge{A: p, B: p.Step(d)})
			}
		}
	}
	return edges
}

// EdgeCount returns the number of open passages.
func (g *Grid) EdgeCount() int {
	return len(g.Edges())
}

// WallRect returns the rectangle a renderer draws for side d of the cell at p.
// Horizontal walls span the cell width, vertical walls the cell height, both
// WallThickness thick and centered on the cell boundary.
func (g *Grid) WallRect(p Position, d Direction) (Rect, error) {
	c, err := g.Cell(p)
	if err != nil {
		return Rect{}, err
	}
	half := g.cellSize / 2
	switch d {
	case Up:
		return Rect{X: c.x, Y: c.y + half, Width: g.cellSize, Height: WallThickness}, nil
	case Down:
		return Rect{X: c.x, Y: c.y - half, Width: g.cellSize, Height: WallThickness}, nil
	case Left:
		return Rect{X: c.x - half, Y: c.y, Width: WallThickness, Height: g.cellSize}, nil
	case Right:
		return Rect{X: c.x + half, Y: c.y, Width: WallThickness, Height: g.cellSize}, nil
	}
	return Rect{}, fmt.Errorf("%w: %v", ErrInvalidDirection, d)
}
