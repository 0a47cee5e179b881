package engine

import (
	"testing"
	"time"

	"github.com/wricardo/maze-game/game/maze"
)

// buildTestGrid carves a fixed 3x3 maze:
//
//	+---+---+---+
//	| S         |
//	+---+---+   +
//	|           |
//	+   +---+   +
//	|       | G |
//	+---+---+---+
func buildTestGrid(t *testing.T) *maze.Grid {
	t.Helper()
	g, err := maze.NewGrid(3, 0.8)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	carves := []struct {
		p maze.Position
		d maze.Direction
	}{
		{maze.Position{Row: 0, Col: 0}, maze.Right},
		{maze.Position{Row: 0, Col: 1}, maze.Right},
		{maze.Position{Row: 0, Col: 2}, maze.Down},
		{maze.Position{Row: 1, Col: 2}, maze.Down},
		{maze.Position{Row: 1, Col: 2}, maze.Left},
		{maze.Position{Row: 1, Col: 1}, maze.Left},
		{maze.Position{Row: 1, Col: 0}, maze.Down},
		{maze.Position{Row: 2, Col: 0}, maze.Right},
	}
	for _, c := range carves {
		if err := g.Carve(c.p, c.d); err != nil {
			t.Fatalf("Carve(%v, %v): %v", c.p, c.d, err)
		}
	}
	if err := maze.Verify(g); err != nil {
		t.Fatalf("test grid is not a perfect maze: %v", err)
	}
	return g
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPlayer(t *testing.T) (*Player, *fakeClock) {
	t.Helper()
	g := buildTestGrid(t)
	route := maze.FindShortestPath(g, Position{}, Position{Row: 2, Col: 2})
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewPlayer(g, route, clock.now), clock
}

func TestNewPlayer(t *testing.T) {
	p, _ := newTestPlayer(t)

	if p.Position() != (Position{}) {
		t.Errorf("Expected start at (0,0), got %v", p.Position())
	}
	if p.Goal() != (Position{Row: 2, Col: 2}) {
		t.Errorf("Expected goal at (2,2), got %v", p.Goal())
	}
	if p.Score() != 0 {
		t.Errorf("Expected initial score 0, got %d", p.Score())
	}
	if visited := p.Visited(); len(visited) != 1 || visited[0] != (Position{}) {
		t.Errorf("Expected visited to hold only the start cell, got %v", visited)
	}
	if p.Finished() {
		t.Error("Expected run not to be finished")
	}
}

func TestPlayerMoveLegality(t *testing.T) {
	g := buildTestGrid(t)
	route := maze.FindShortestPath(g, Position{}, Position{Row: 2, Col: 2})

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			for _, d := range maze.Directions {
				from := Position{Row: row, Col: col}
				if from == (Position{Row: 2, Col: 2}) {
					continue
				}
				p := NewPlayer(g, route, nil)
				p.pos = from
				before := p.Visited()
				beforeScore := p.Score()

				want := !g.HasWall(from, d) && g.InBounds(from.Step(d))
				res := p.AttemptMove(d)

				if res.Accepted != want {
					t.Errorf("%v %v: accepted=%v, want %v", from, d, res.Accepted, want)
				}
				if !res.Accepted {
					if p.Position() != from {
						t.Errorf("%v %v: rejected move changed position to %v", from, d, p.Position())
					}
					if p.Score() != beforeScore || len(p.Visited()) != len(before) {
						t.Errorf("%v %v: rejected move changed player state", from, d)
					}
				}
			}
		}
	}
}

func TestPlayerBlockedFromStart(t *testing.T) {
	p, _ := newTestPlayer(t)

	for _, d := range []maze.Direction{maze.Up, maze.Left, maze.Down} {
		res := p.AttemptMove(d)
		if res.Accepted {
			t.Errorf("Expected %v from start to be blocked", d)
		}
		if res.Outcome() != OutcomeBlocked {
			t.Errorf("Expected outcome %q, got %q", OutcomeBlocked, res.Outcome())
		}
		if p.Position() != (Position{}) {
			t.Errorf("Expected to remain at (0,0), got %v", p.Position())
		}
	}
}

func TestPlayerScoring(t *testing.T) {
	p, clock := newTestPlayer(t)

	steps := []struct {
		dir     maze.Direction
		outcome string
		delta   int
		score   int
	}{
		{maze.Right, OutcomeOnRoute, 1, 1},
		{maze.Right, OutcomeOnRoute, 1, 2},
		{maze.Down, OutcomeOnRoute, 1, 3},
		{maze.Left, OutcomeDetour, -1, 2},
		{maze.Left, OutcomeDetour, -1, 1},
		{maze.Right, OutcomeRevisit, 0, 1},
		{maze.Right, OutcomeRevisit, 0, 1},
		{maze.Down, OutcomeGoal, 1, 2},
	}
	for i, s := range steps {
		clock.advance(time.Second)
		res := p.AttemptMove(s.dir)
		if !res.Accepted {
			t.Fatalf("step %d: move %v rejected at %v", i, s.dir, res.From)
		}
		if res.Outcome() != s.outcome {
			t.Errorf("step %d: outcome %q, want %q", i, res.Outcome(), s.outcome)
		}
		if res.ScoreDelta != s.delta {
			t.Errorf("step %d: delta %d, want %d", i, res.ScoreDelta, s.delta)
		}
		if p.Score() != s.score {
			t.Errorf("step %d: score %d, want %d", i, p.Score(), s.score)
		}
	}

	visited := p.Visited()
	if len(visited) != 7 {
		t.Errorf("Expected 7 distinct visited cells, got %d: %v", len(visited), visited)
	}
	seen := map[Position]bool{}
	for _, v := range visited {
		if seen[v] {
			t.Errorf("Duplicate %v in visited sequence", v)
		}
		seen[v] = true
	}

	if !p.Finished() {
		t.Fatal("Expected run to be finished at the goal")
	}
	if p.Elapsed() != 8*time.Second {
		t.Errorf("Expected elapsed 8s, got %v", p.Elapsed())
	}
	clock.advance(time.Minute)
	if p.Elapsed() != 8*time.Second {
		t.Errorf("Expected elapsed to stay frozen after goal, got %v", p.Elapsed())
	}

	if res := p.AttemptMove(maze.Up); res.Accepted {
		t.Error("Expected moves after reaching the goal to be rejected")
	}
}
