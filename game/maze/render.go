package maze

import "strings"

// Markers used by the text renderers.
const (
	MarkPlayer = '@'
	MarkGoal   = 'G'
	MarkStart  = 'S'
	MarkPath   = '.'
	MarkCrumb  = '~'
)

// PathMarks returns marks placing MarkPath on every cell of path.
func PathMarks(path []Position) map[Position]rune {
	marks := make(map[Position]rune, len(path))
	for _, p := range path {
		marks[p] = MarkPath
	}
	return marks
}

// Render draws the grid as ASCII art, three characters per cell interior,
// placing marks[p] in the middle of cell p when present.
func (g *Grid) Render(marks map[Position]rune) string {
	var b strings.Builder
	b.Grow((g.n*4 + 2) * (g.n*2 + 1))

	b.WriteByte('+')
	for col := 0; col < g.n; col++ {
		if g.HasWall(Position{Row: 0, Col: col}, Up) {
			b.WriteString("---+")
		} else {
			b.WriteString("   +")
		}
	}
	b.WriteByte('\n')

	for row := 0; row < g.n; row++ {
		if g.HasWall(Position{Row: row, Col: 0}, Left) {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
		for col := 0; col < g.n; col++ {
			p := Position{Row: row, Col: col}
			b.WriteByte(' ')
			if m, ok := marks[p]; ok {
				b.WriteRune(m)
			} else {
				b.WriteByte(' ')
			}
			b.WriteByte(' ')
			if g.HasWall(p, Right) {
				b.WriteByte('|')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')

		b.WriteByte('+')
		for col := 0; col < g.n; col++ {
			if g.HasWall(Position{Row: row, Col: col}, Down) {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders the grid without marks.
func (g *Grid) String() string {
	return g.Render(nil)
}
