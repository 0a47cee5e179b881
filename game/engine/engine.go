package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/maze-game/game/maze"
)

var (
	// ErrUnsupportedSize is returned when a new game asks for a size outside
	// PresetSizes.
	ErrUnsupportedSize = errors.New("unsupported maze size")

	// ErrGameOver is returned for commands that need a game in progress.
	ErrGameOver = errors.New("game is over")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	NewGame(size int) (*GameState, error)
	IsGameOver() bool
	GetScore() int
	GetPlayerPosition() Position

	// Movement operations
	Move(direction string) bool
	CanMove(direction string) bool
	GetPossibleMoves() []string
	BulkMove(moves []string) []bool

	// Path queries and overlays
	ShortestPath(from, to *Position) ([]Position, error)
	Hint() (Position, bool)
	SetOverlay(opts OverlayOptions) *GameState

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Rendering helpers
	Grid() *maze.Grid
	Render() string
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers serialize access.
type GameEngine struct {
	state  *GameState
	config *GameConfig

	grid   *maze.Grid
	gen    *maze.Generator
	route  []Position
	player *Player

	now func() time.Time
	log logrus.FieldLogger
}

// Option customizes a GameEngine.
type Option func(*GameEngine)

// WithClock replaces the time source used for elapsed time and history
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *GameEngine) { e.now = now }
}

// WithLogger sets the logger used for game lifecycle events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *GameEngine) { e.log = log }
}

// NewEngine creates a new game engine with the provided configuration and
// generates its first maze.
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config: withDefaults(config),
		now:    time.Now,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	engine.gen = maze.NewGenerator(engine.config.Seed)
	engine.state = &GameState{
		MoveHistory:  []MoveHistoryEntry{},
		CurrentMoves: []MoveHistoryEntry{},
		Overlay: OverlayOptions{
			ShowPath:        engine.config.ShowPath,
			ShowHint:        engine.config.ShowHint,
			ShowBreadcrumbs: engine.config.ShowBreadcrumbs,
		},
	}
	engine.generate(engine.config.Size)

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with default configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	engine, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// generate builds a fresh grid of the given size, carves it and starts a new
// run. A carved grid that is not a perfect maze is a defect and panics.
func (e *GameEngine) generate(size int) {
	grid, err := maze.NewGrid(size, e.config.WorldSize)
	if err != nil {
		panic(err)
	}
	e.gen.Generate(grid)
	if err := maze.Verify(grid); err != nil {
		panic(err)
	}

	start, goal := Position{}, Position{Row: size - 1, Col: size - 1}
	route := maze.FindShortestPath(grid, start, goal)
	if route == nil {
		panic(fmt.Errorf("%w: no route from %v to %v", maze.ErrGenerationInvariant, start, goal))
	}

	e.grid = grid
	e.route = route
	e.state.Size = size
	e.state.WorldSize = grid.WorldSize()
	e.state.CellSize = grid.CellSize()
	e.state.Cells = cellViews(grid)
	e.state.GameNumber++
	e.startRun()

	e.log.WithFields(logrus.Fields{
		"size":  size,
		"game":  e.state.GameNumber,
		"route": len(route),
	}).Debug("maze generated")
}

// startRun puts a new player on the current grid.
func (e *GameEngine) startRun() {
	e.player = NewPlayer(e.grid, e.route, e.now)

	e.state.ConfigName = e.config.Name
	e.state.Start = e.player.Start()
	e.state.Goal = e.player.Goal()
	e.state.Message = e.config.Messages.Welcome
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0
	e.syncPlayer()
}

// syncPlayer copies the player's view into the state and refreshes the
// overlay.
func (e *GameEngine) syncPlayer() {
	p := e.player
	e.state.PlayerPos = p.Position()
	e.state.Visited = p.Visited()
	e.state.Score = p.Score()
	e.state.GameOver = p.Finished()
	e.state.StartedAt = p.StartedAt()
	e.state.FinishedAt = nil
	if p.Finished() {
		t := p.FinishedAt()
		e.state.FinishedAt = &t
	}
	e.state.ElapsedMs = p.Elapsed().Milliseconds()
	e.refreshOverlay()
}

// refreshOverlay recomputes the route from the player to the goal when a
// path or hint overlay is active.
func (e *GameEngine) refreshOverlay() {
	e.state.OverlayPath = nil
	e.state.Hint = nil
	if !e.state.Overlay.ShowPath && !e.state.Overlay.ShowHint {
		return
	}
	path := maze.FindShortestPath(e.grid, e.player.Position(), e.player.Goal())
	if e.state.Overlay.ShowPath {
		e.state.OverlayPath = path
	}
	if e.state.Overlay.ShowHint && len(path) > 1 {
		next := path[1]
		e.state.Hint = &next
	}
}

func cellViews(g *maze.Grid) [][]CellView {
	n := g.Size()
	rows := make([][]CellView, n)
	for r := 0; r < n; r++ {
		rows[r] = make([]CellView, n)
		for c := 0; c < n; c++ {
			cell, _ := g.Cell(Position{Row: r, Col: c})
			x, y := cell.Center()
			w := cell.Walls()
			rows[r][c] = CellView{
				Row: r,
				Col: c,
				X:   x,
				Y:   y,
				Walls: Walls{
					Top:    w[maze.Up],
					Bottom: w[maze.Down],
					Left:   w[maze.Left],
					Right:  w[maze.Right],
				},
			}
		}
	}
	return rows
}

// GetState returns a copy of the current game state with the elapsed time
// brought up to date. The engine is not modified.
func (e *GameEngine) GetState() *GameState {
	return e.snapshot()
}

// snapshot copies the state so callers can hold it past later moves.
func (e *GameEngine) snapshot() *GameState {
	s := *e.state
	s.ElapsedMs = e.player.Elapsed().Milliseconds()
	s.Visited = slices.Clone(e.state.Visited)
	s.OverlayPath = slices.Clone(e.state.OverlayPath)
	s.MoveHistory = slices.Clone(e.state.MoveHistory)
	s.CurrentMoves = slices.Clone(e.state.CurrentMoves)
	if e.state.Hint != nil {
		h := *e.state.Hint
		s.Hint = &h
	}
	if e.state.FinishedAt != nil {
		f := *e.state.FinishedAt
		s.FinishedAt = &f
	}
	return &s
}

// Reset puts the player back at the start of the same maze. Cumulative
// history is preserved; the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	e.startRun()
	return e.snapshot()
}

// NewGame generates a new maze of the given size. A size of 0 keeps the
// current size.
func (e *GameEngine) NewGame(size int) (*GameState, error) {
	if size == 0 {
		size = e.state.Size
	}
	if !IsPresetSize(size) {
		return nil, fmt.Errorf("%w: %d (presets are %v)", ErrUnsupportedSize, size, PresetSizes)
	}
	e.generate(size)
	return e.snapshot(), nil
}

// IsGameOver returns whether the player has reached the goal
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.state.PlayerPos
}

// Move attempts to move the player in the specified direction
func (e *GameEngine) Move(direction string) bool {
	prevPos := e.player.Position()

	if e.player.Finished() {
		e.state.Message = e.config.Messages.AlreadyOver
		e.state.AddMoveToHistory(e.now(), direction, prevPos, prevPos, OutcomeGameOver, 0, false)
		return false
	}

	d, err := maze.ParseDirection(direction)
	if err != nil {
		e.state.Message = fmt.Sprintf("Unknown direction %q. Use up, down, left or right.", direction)
		e.state.AddMoveToHistory(e.now(), direction, prevPos, prevPos, OutcomeInvalid, 0, false)
		return false
	}

	res := e.player.AttemptMove(d)
	e.syncPlayer()
	e.state.Message = e.messageFor(res, d)
	e.state.AddMoveToHistory(e.now(), d.String(), res.From, res.To, res.Outcome(), res.ScoreDelta, res.Accepted)

	if res.ReachedGoal {
		e.log.WithFields(logrus.Fields{
			"size":    e.state.Size,
			"score":   e.state.Score,
			"elapsed": e.player.Elapsed().String(),
		}).Info("maze solved")
	}
	return res.Accepted
}

func (e *GameEngine) messageFor(res MoveResult, d maze.Direction) string {
	m := e.config.Messages
	switch res.Outcome() {
	case OutcomeBlocked:
		if formatVerbs(m.Blocked) == "s" {
			return fmt.Sprintf(m.Blocked, d)
		}
		return m.Blocked
	case OutcomeGoal:
		return fmt.Sprintf(m.Goal, e.player.Score(), e.player.Elapsed().Round(time.Millisecond))
	case OutcomeRevisit:
		return m.Revisit
	case OutcomeOnRoute:
		return fmt.Sprintf(m.OnRoute, e.player.Score())
	default:
		return fmt.Sprintf(m.Detour, e.player.Score())
	}
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(direction string) bool {
	d, err := maze.ParseDirection(direction)
	if err != nil {
		return false
	}
	return e.player.CanMove(d)
}

// GetPossibleMoves returns all valid directions the player can move
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, d := range maze.Directions {
		if e.player.CanMove(d) {
			possible = append(possible, d.String())
		}
	}
	return possible
}

// BulkMove executes multiple moves in sequence, returning success status for each
func (e *GameEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))

	for _, direction := range moves {
		// Stop if game is over
		if e.IsGameOver() {
			break
		}

		success := e.Move(direction)
		results = append(results, success)
	}

	return results
}

// ShortestPath returns the route between two cells. A nil from means the
// player's cell and a nil to means the goal.
func (e *GameEngine) ShortestPath(from, to *Position) ([]Position, error) {
	src, dst := e.player.Position(), e.player.Goal()
	if from != nil {
		src = *from
	}
	if to != nil {
		dst = *to
	}
	for _, p := range []Position{src, dst} {
		if _, err := e.grid.Cell(p); err != nil {
			return nil, err
		}
	}
	path := maze.FindShortestPath(e.grid, src, dst)
	if path == nil {
		panic(fmt.Errorf("%w: no route from %v to %v", maze.ErrGenerationInvariant, src, dst))
	}
	return path, nil
}

// Hint returns the next cell on the route to the goal. ok is false once the
// goal is reached.
func (e *GameEngine) Hint() (next Position, ok bool) {
	path, _ := e.ShortestPath(nil, nil)
	if len(path) < 2 {
		return Position{}, false
	}
	return path[1], true
}

// SetOverlay replaces the overlay toggles and recomputes the overlay route.
func (e *GameEngine) SetOverlay(opts OverlayOptions) *GameState {
	e.state.Overlay = opts
	e.refreshOverlay()
	return e.snapshot()
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and starts a new game with it
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = withDefaults(config)
	e.gen = maze.NewGenerator(e.config.Seed)
	e.state.Overlay = OverlayOptions{
		ShowPath:        e.config.ShowPath,
		ShowHint:        e.config.ShowHint,
		ShowBreadcrumbs: e.config.ShowBreadcrumbs,
	}
	e.generate(e.config.Size)
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// Grid returns the current maze.
func (e *GameEngine) Grid() *maze.Grid {
	return e.grid
}

// Route returns the start-to-goal route of the current maze.
func (e *GameEngine) Route() []Position {
	out := make([]Position, len(e.route))
	copy(out, e.route)
	return out
}

// Render draws the maze as text with the player, goal and active overlays
// marked.
func (e *GameEngine) Render() string {
	marks := make(map[Position]rune)
	if e.state.Overlay.ShowBreadcrumbs {
		for _, p := range e.state.Visited {
			marks[p] = maze.MarkCrumb
		}
	}
	for _, p := range e.state.OverlayPath {
		marks[p] = maze.MarkPath
	}
	if e.state.Hint != nil {
		marks[*e.state.Hint] = maze.MarkPath
	}
	marks[e.state.Start] = maze.MarkStart
	marks[e.state.Goal] = maze.MarkGoal
	marks[e.state.PlayerPos] = maze.MarkPlayer
	return e.grid.Render(marks)
}

// AddMoveToHistory adds a move made at time at to the game's move history
func (gs *GameState) AddMoveToHistory(at time.Time, action string, fromPos, toPos Position, outcome string, delta int, success bool) {
	entry := MoveHistoryEntry{
		Action:       action,
		FromPosition: fromPos,
		ToPosition:   toPos,
		Outcome:      outcome,
		ScoreDelta:   delta,
		Score:        gs.Score,
		Timestamp:    at.Unix(),
		Success:      success,
		MoveNumber:   gs.TotalMoves + 1,
		GameNumber:   gs.GameNumber,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	// Append to current segment history and increment its counter
	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}
