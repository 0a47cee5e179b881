package main

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/maze-game/game/engine"
	"github.com/wricardo/maze-game/game/maze"
)

// Strategy picks the next move from what the player can see: its own cell's
// walls, its position and the goal. It never asks the server for a route.
type Strategy interface {
	Name() string
	// Next returns the direction to try, or false when nothing is left.
	Next(state *engine.GameState) (maze.Direction, bool)
	Reset()
}

// NewStrategy returns the strategy registered under name.
func NewStrategy(name string) (Strategy, bool) {
	switch name {
	case "dfs":
		return NewDepthFirst(), true
	case "wall":
		return NewWallFollower(), true
	}
	return nil, false
}

func openSides(state *engine.GameState, p engine.Position) [4]bool {
	var open [4]bool
	if p.Row < 0 || p.Row >= len(state.Cells) || p.Col < 0 || p.Col >= len(state.Cells[p.Row]) {
		return open
	}
	w := state.Cells[p.Row][p.Col].Walls
	open[maze.Up] = !w.Top
	open[maze.Down] = !w.Bottom
	open[maze.Left] = !w.Left
	open[maze.Right] = !w.Right
	return open
}

// DepthFirst explores unvisited passages, preferring the ones heading towards
// the goal, and walks back along its trail from dead ends.
type DepthFirst struct {
	visited mapset.Set[engine.Position]
	trail   []engine.Position
}

func NewDepthFirst() *DepthFirst {
	d := &DepthFirst{}
	d.Reset()
	return d
}

func (d *DepthFirst) Name() string { return "dfs" }

func (d *DepthFirst) Reset() {
	d.visited = mapset.New[engine.Position]()
	d.trail = d.trail[:0]
}

func (d *DepthFirst) Next(state *engine.GameState) (maze.Direction, bool) {
	pos := state.PlayerPos
	d.visited.Put(pos)
	if len(d.trail) == 0 || d.trail[len(d.trail)-1] != pos {
		d.trail = append(d.trail, pos)
	}

	open := openSides(state, pos)
	for _, dir := range preferred(pos, state.Goal) {
		if open[dir] && !d.visited.Has(pos.Step(dir)) {
			return dir, true
		}
	}

	// Dead end: step back along the trail.
	d.trail = d.trail[:len(d.trail)-1]
	if len(d.trail) == 0 {
		return 0, false
	}
	return pos.DirectionTo(d.trail[len(d.trail)-1])
}

// preferred orders the directions so the ones closing the distance to goal
// come first.
func preferred(pos, goal engine.Position) []maze.Direction {
	var toward, away []maze.Direction
	for _, dir := range maze.Directions {
		q := pos.Step(dir)
		if manhattan(q, goal) < manhattan(pos, goal) {
			toward = append(toward, dir)
		} else {
			away = append(away, dir)
		}
	}
	return append(toward, away...)
}

func manhattan(a, b engine.Position) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// clockwise lists the directions in turning order.
var clockwise = [...]maze.Direction{maze.Up, maze.Right, maze.Down, maze.Left}

func turn(d maze.Direction, quarter int) maze.Direction {
	for i, c := range clockwise {
		if c == d {
			return clockwise[(i+quarter+4)%4]
		}
	}
	return d
}

// WallFollower keeps its right hand on the wall. In a perfect maze that
// visits every cell reachable from the start, the goal included.
type WallFollower struct {
	heading maze.Direction
}

func NewWallFollower() *WallFollower {
	return &WallFollower{heading: maze.Right}
}

func (w *WallFollower) Name() string { return "wall" }

func (w *WallFollower) Reset() { w.heading = maze.Right }

func (w *WallFollower) Next(state *engine.GameState) (maze.Direction, bool) {
	open := openSides(state, state.PlayerPos)
	for _, q := range []int{1, 0, -1, 2} {
		if dir := turn(w.heading, q); open[dir] {
			w.heading = dir
			return dir, true
		}
	}
	return 0, false
}
