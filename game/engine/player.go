package engine

import (
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/maze-game/game/maze"
)

// MoveResult describes the effect of one move attempt.
type MoveResult struct {
	Accepted    bool
	From        Position
	To          Position
	FirstVisit  bool
	OnRoute     bool
	ScoreDelta  int
	ReachedGoal bool
}

// Outcome classifies the result for history and event reporting.
func (r MoveResult) Outcome() string {
	switch {
	case !r.Accepted:
		return OutcomeBlocked
	case r.ReachedGoal:
		return OutcomeGoal
	case !r.FirstVisit:
		return OutcomeRevisit
	case r.OnRoute:
		return OutcomeOnRoute
	default:
		return OutcomeDetour
	}
}

// Player tracks one run through a maze: the current cell, the cells visited
// so far and the score. A move is accepted only when the current cell has no
// wall on that side and the destination is inside the grid. Entering a cell
// for the first time scores +1 when the cell lies on the start-to-goal route
// and -1 otherwise; revisits score nothing. Reaching the goal ends the run.
type Player struct {
	grid  *maze.Grid
	start Position
	goal  Position
	route mapset.Set[Position]
	now   func() time.Time

	pos        Position
	visited    []Position
	seen       mapset.Set[Position]
	score      int
	startedAt  time.Time
	finishedAt time.Time
	finished   bool
}

// NewPlayer places a player on the top-left cell of grid with the goal in the
// bottom-right. route is the start-to-goal path used for scoring.
func NewPlayer(grid *maze.Grid, route []Position, now func() time.Time) *Player {
	if now == nil {
		now = time.Now
	}
	n := grid.Size()
	p := &Player{
		grid:  grid,
		start: Position{Row: 0, Col: 0},
		goal:  Position{Row: n - 1, Col: n - 1},
		route: mapset.New[Position](),
		now:   now,
		seen:  mapset.New[Position](),
	}
	for _, c := range route {
		p.route.Put(c)
	}
	p.pos = p.start
	p.visited = []Position{p.start}
	p.seen.Put(p.start)
	p.startedAt = now()
	if p.start == p.goal {
		p.finish()
	}
	return p
}

// CanMove reports whether a move in d would be accepted.
func (p *Player) CanMove(d maze.Direction) bool {
	return !p.finished && p.grid.CanStep(p.pos, d)
}

// AttemptMove applies a move in d if it is legal. Rejected moves leave the
// player untouched.
func (p *Player) AttemptMove(d maze.Direction) MoveResult {
	res := MoveResult{From: p.pos, To: p.pos}
	if !p.CanMove(d) {
		return res
	}

	next := p.pos.Step(d)
	p.pos = next
	res.Accepted = true
	res.To = next
	res.OnRoute = p.route.Has(next)

	if !p.seen.Has(next) {
		p.seen.Put(next)
		p.visited = append(p.visited, next)
		res.FirstVisit = true
		if res.OnRoute {
			res.ScoreDelta = 1
		} else {
			res.ScoreDelta = -1
		}
		p.score += res.ScoreDelta
	}

	if next == p.goal {
		res.ReachedGoal = true
		p.finish()
	}
	return res
}

func (p *Player) finish() {
	p.finished = true
	p.finishedAt = p.now()
}

// Position returns the current cell.
func (p *Player) Position() Position { return p.pos }

// Start returns the start cell.
func (p *Player) Start() Position { return p.start }

// Goal returns the goal cell.
func (p *Player) Goal() Position { return p.goal }

// Score returns the running score.
func (p *Player) Score() int { return p.score }

// Finished reports whether the goal has been reached.
func (p *Player) Finished() bool { return p.finished }

// Visited returns the cells entered so far in first-visit order, start
// included.
func (p *Player) Visited() []Position {
	out := make([]Position, len(p.visited))
	copy(out, p.visited)
	return out
}

// StartedAt returns when the run began.
func (p *Player) StartedAt() time.Time { return p.startedAt }

// FinishedAt returns when the goal was reached, or the zero time.
func (p *Player) FinishedAt() time.Time { return p.finishedAt }

// Elapsed returns the time spent so far, frozen once the goal is reached.
func (p *Player) Elapsed() time.Duration {
	if p.finished {
		return p.finishedAt.Sub(p.startedAt)
	}
	return p.now().Sub(p.startedAt)
}
