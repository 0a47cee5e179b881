package maze

import "fmt"

// Position addresses a cell by row and column, (0,0) being the top-left.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Step returns the position one cell away in direction d. The result may be
// outside any grid.
func (p Position) Step(d Direction) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// DirectionTo returns the direction leading from p to an adjacent position q.
// ok is false when the two positions are not adjacent.
func (p Position) DirectionTo(q Position) (d Direction, ok bool) {
	for _, dir := range Directions {
		if p.Step(dir) == q {
			return dir, true
		}
	}
	return 0, false
}

// Adjacent reports whether p and q share an edge.
func (p Position) Adjacent(q Position) bool {
	_, ok := p.DirectionTo(q)
	return ok
}

// Cell is a single grid unit. Cells are created by NewGrid and owned by it;
// their wall flags change only through Grid.Carve and Grid.Reset.
type Cell struct {
	pos   Position
	x, y  float64
	walls [4]bool

	// visited is scratch state for the generator and means nothing once
	// generation has finished.
	visited bool
}

// Position returns the cell's coordinates.
func (c *Cell) Position() Position { return c.pos }

// Center returns the cell's center in world coordinates.
func (c *Cell) Center() (x, y float64) { return c.x, c.y }

// HasWall reports whether the wall on side d is present.
func (c *Cell) HasWall(d Direction) bool {
	if !d.Valid() {
		return true
	}
	return c.walls[d]
}

// Walls returns a copy of the wall flags indexed by Direction.
func (c *Cell) Walls() [4]bool { return c.walls }

// OpenSides counts the sides without a wall.
func (c *Cell) OpenSides() int {
	n := 0
	for _, w := range c.walls {
		if !w {
			n++
		}
	}
	return n
}

func (c *Cell) reset() {
	c.walls = [4]bool{true, true, true, true}
	c.visited = false
}

// Rect is an axis-aligned rectangle in world coordinates, given by its center
// and full extents.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
