package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/maze-game/game/maze"
)

func createTestConfig() *GameConfig {
	return &GameConfig{
		Name:        "engine-test",
		Description: "Configuration for engine integration tests",
		Size:        5,
		WorldSize:   0.8,
		Seed:        42,
		Messages: Messages{
			Welcome:     "Welcome to engine test!",
			Blocked:     "Blocked %s",
			OnRoute:     "On route: %d",
			Detour:      "Detour: %d",
			Revisit:     "Been here",
			Goal:        "Goal! %d in %s",
			AlreadyOver: "Already over",
		},
	}
}

func routeDirections(t *testing.T, route []Position) []string {
	t.Helper()
	dirs := make([]string, 0, len(route)-1)
	for i := 1; i < len(route); i++ {
		d, ok := route[i-1].DirectionTo(route[i])
		if !ok {
			t.Fatalf("route step %v -> %v is not adjacent", route[i-1], route[i])
		}
		dirs = append(dirs, d.String())
	}
	return dirs
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}

	state := engine.GetState()
	if state.Size != 5 || len(state.Cells) != 5 || len(state.Cells[0]) != 5 {
		t.Fatalf("Expected 5x5 state, got size %d with %d rows", state.Size, len(state.Cells))
	}
	if engine.GetPlayerPosition() != (Position{}) {
		t.Errorf("Expected player at (0,0), got %v", engine.GetPlayerPosition())
	}
	if state.Goal != (Position{Row: 4, Col: 4}) {
		t.Errorf("Expected goal at (4,4), got %v", state.Goal)
	}
	if engine.GetScore() != 0 {
		t.Errorf("Expected initial score 0, got %d", engine.GetScore())
	}
	if engine.IsGameOver() {
		t.Error("Expected game not to be over initially")
	}
	if state.Message != config.Messages.Welcome {
		t.Errorf("Expected welcome message, got %q", state.Message)
	}
	if engine.Grid().EdgeCount() != 24 {
		t.Errorf("Expected 24 carved passages, got %d", engine.Grid().EdgeCount())
	}
	if state.GameNumber != 1 {
		t.Errorf("Expected game number 1, got %d", state.GameNumber)
	}

	if !state.Cells[0][0].Walls.Top || !state.Cells[0][0].Walls.Left {
		t.Error("Expected outer walls of the start cell to be present")
	}
}

func TestNewEngineInvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Size = 7
	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for non-preset size")
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	engine := NewEngineWithDefaults()
	if engine.GetState().Size != 10 {
		t.Errorf("Expected default size 10, got %d", engine.GetState().Size)
	}
	if engine.GetConfig().Name != "classic" {
		t.Errorf("Expected default config name classic, got %q", engine.GetConfig().Name)
	}
}

func TestEngineSeededGamesMatch(t *testing.T) {
	a, _ := NewEngine(createTestConfig())
	b, _ := NewEngine(createTestConfig())
	if a.Render() != b.Render() {
		t.Errorf("Expected identical mazes for identical seeds:\n%s\n%s", a.Render(), b.Render())
	}
}

func TestEngineSolveFollowingRoute(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	engine, err := NewEngine(createTestConfig(), WithClock(clock.now))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	route := engine.Route()
	for i, dir := range routeDirections(t, route) {
		clock.advance(500 * time.Millisecond)
		if !engine.Move(dir) {
			t.Fatalf("Move %d (%s) along the route was rejected", i, dir)
		}
	}

	state := engine.GetState()
	if !state.GameOver {
		t.Fatal("Expected game over at the goal")
	}
	if state.Score != len(route)-1 {
		t.Errorf("Expected score %d, got %d", len(route)-1, state.Score)
	}
	if state.FinishedAt == nil {
		t.Error("Expected finish time to be recorded")
	}
	wantElapsed := int64(len(route)-1) * 500
	if state.ElapsedMs != wantElapsed {
		t.Errorf("Expected elapsed %dms, got %d", wantElapsed, state.ElapsedMs)
	}
	if !strings.HasPrefix(state.Message, "Goal!") {
		t.Errorf("Expected goal message, got %q", state.Message)
	}
	if len(state.Visited) != len(route) {
		t.Errorf("Expected %d visited cells, got %d", len(route), len(state.Visited))
	}

	if engine.Move("up") {
		t.Error("Expected moves after the goal to fail")
	}
	if last := engine.GetLastMove(); last == nil || last.Outcome != OutcomeGameOver {
		t.Errorf("Expected last move outcome %q, got %+v", OutcomeGameOver, last)
	}
	if engine.GetState().Message != "Already over" {
		t.Errorf("Expected already-over message, got %q", engine.GetState().Message)
	}
}

func TestEngineBlockedMove(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	if engine.Move("up") {
		t.Fatal("Expected move through the outer wall to fail")
	}
	state := engine.GetState()
	if state.PlayerPos != (Position{}) {
		t.Errorf("Expected player to stay at (0,0), got %v", state.PlayerPos)
	}
	if state.Message != "Blocked up" {
		t.Errorf("Expected blocked message, got %q", state.Message)
	}
	last := engine.GetLastMove()
	if last == nil || last.Success || last.Outcome != OutcomeBlocked {
		t.Errorf("Expected failed blocked history entry, got %+v", last)
	}
	if state.Score != 0 || len(state.Visited) != 1 {
		t.Errorf("Expected blocked move to leave score and visits unchanged")
	}
}

func TestEngineInvalidDirection(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	if engine.Move("sideways") {
		t.Error("Expected invalid direction to fail")
	}
	if engine.CanMove("sideways") {
		t.Error("Expected CanMove to reject invalid direction")
	}
	if last := engine.GetLastMove(); last == nil || last.Outcome != OutcomeInvalid {
		t.Errorf("Expected invalid outcome, got %+v", last)
	}
}

func TestEngineGetPossibleMoves(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	moves := engine.GetPossibleMoves()
	if len(moves) == 0 || len(moves) > 2 {
		t.Fatalf("Expected 1 or 2 moves from the corner, got %v", moves)
	}
	for _, m := range moves {
		if m != "down" && m != "right" {
			t.Errorf("Unexpected move %q from the top-left corner", m)
		}
		if !engine.CanMove(m) {
			t.Errorf("CanMove(%q) disagrees with GetPossibleMoves", m)
		}
	}
}

func TestEngineReset(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())
	before := engine.Render()
	dirs := routeDirections(t, engine.Route())

	engine.Move(dirs[0])
	engine.Move(dirs[1])
	engine.Move("up")

	state := engine.Reset()
	if state.PlayerPos != (Position{}) {
		t.Errorf("Expected player back at start, got %v", state.PlayerPos)
	}
	if state.Score != 0 {
		t.Errorf("Expected score reset to 0, got %d", state.Score)
	}
	if len(state.Visited) != 1 {
		t.Errorf("Expected visited reset to start only, got %v", state.Visited)
	}
	if state.CurrentMovesCount != 0 || len(state.CurrentMoves) != 0 {
		t.Errorf("Expected current moves cleared, got %d", state.CurrentMovesCount)
	}
	if state.TotalMoves != 3 || len(state.MoveHistory) != 3 {
		t.Errorf("Expected cumulative history of 3 moves, got %d", state.TotalMoves)
	}
	if engine.Render() != before {
		t.Error("Expected reset to keep the same maze")
	}
	if state.GameNumber != 1 {
		t.Errorf("Expected reset to keep the game number, got %d", state.GameNumber)
	}
}

func TestEngineNewGame(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())
	engine.Move(routeDirections(t, engine.Route())[0])

	state, err := engine.NewGame(20)
	if err != nil {
		t.Fatalf("NewGame(20): %v", err)
	}
	if state.Size != 20 || len(state.Cells) != 20 {
		t.Errorf("Expected 20x20 maze, got %d", state.Size)
	}
	if state.Goal != (Position{Row: 19, Col: 19}) {
		t.Errorf("Expected goal at (19,19), got %v", state.Goal)
	}
	if state.PlayerPos != (Position{}) || state.Score != 0 {
		t.Error("Expected fresh player state after new game")
	}
	if state.GameNumber != 2 {
		t.Errorf("Expected game number 2, got %d", state.GameNumber)
	}
	if err := maze.Verify(engine.Grid()); err != nil {
		t.Errorf("New maze failed verification: %v", err)
	}

	state, err = engine.NewGame(0)
	if err != nil || state.Size != 20 {
		t.Errorf("Expected NewGame(0) to keep size 20, got %d (%v)", state.Size, err)
	}

	for _, size := range []int{1, 7, 25, -5} {
		if _, err := engine.NewGame(size); !errors.Is(err, ErrUnsupportedSize) {
			t.Errorf("NewGame(%d): expected ErrUnsupportedSize, got %v", size, err)
		}
	}
}

func TestEngineOverlay(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())
	route := engine.Route()

	state := engine.SetOverlay(OverlayOptions{ShowPath: true, ShowHint: true})
	if len(state.OverlayPath) != len(route) {
		t.Fatalf("Expected overlay of %d cells, got %d", len(route), len(state.OverlayPath))
	}
	if state.Hint == nil || *state.Hint != route[1] {
		t.Errorf("Expected hint %v, got %v", route[1], state.Hint)
	}

	dirs := routeDirections(t, route)
	engine.Move(dirs[0])
	state = engine.GetState()
	if state.OverlayPath[0] != route[1] {
		t.Errorf("Expected overlay to start at player cell %v, got %v", route[1], state.OverlayPath[0])
	}
	if len(state.OverlayPath) != len(route)-1 {
		t.Errorf("Expected overlay to shrink by one, got %d", len(state.OverlayPath))
	}

	next, ok := engine.Hint()
	if !ok || next != route[2] {
		t.Errorf("Expected Hint() %v, got %v (%v)", route[2], next, ok)
	}

	state = engine.SetOverlay(OverlayOptions{})
	if state.OverlayPath != nil || state.Hint != nil {
		t.Error("Expected overlay cleared when toggled off")
	}
}

func TestEngineShortestPath(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	path, err := engine.ShortestPath(nil, nil)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(path) != len(engine.Route()) {
		t.Errorf("Expected default path to match the route")
	}

	from := Position{Row: 4, Col: 0}
	to := Position{Row: 0, Col: 4}
	path, err = engine.ShortestPath(&from, &to)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if path[0] != from || path[len(path)-1] != to {
		t.Errorf("Expected path %v..%v, got %v", from, to, path)
	}

	bad := Position{Row: 5, Col: 0}
	if _, err := engine.ShortestPath(&bad, nil); !errors.Is(err, maze.ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
}

func TestEngineBulkMoveStopsAtGoal(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())
	dirs := routeDirections(t, engine.Route())
	moves := append(dirs, "up", "left")

	results := engine.BulkMove(moves)
	if len(results) != len(dirs) {
		t.Errorf("Expected bulk move to stop after %d moves, got %d", len(dirs), len(results))
	}
	if !engine.IsGameOver() {
		t.Error("Expected game over after bulk move along the route")
	}
}

func TestEngineRender(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())
	out := engine.Render()

	if strings.Count(out, "@") != 1 || strings.Count(out, "G") != 1 {
		t.Errorf("Expected one player and one goal marker:\n%s", out)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 11 {
		t.Errorf("Expected 11 lines for a 5x5 maze, got %d", len(lines))
	}
}

func TestEngineHistoryUsesClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	engine, _ := NewEngine(createTestConfig(), WithClock(clock.now))

	clock.advance(90 * time.Second)
	engine.Move("up")
	engine.Move("sideways")

	for _, entry := range engine.GetMoveHistory() {
		if entry.Timestamp != start.Add(90*time.Second).Unix() {
			t.Errorf("Expected %s timestamp from the injected clock, got %d", entry.Outcome, entry.Timestamp)
		}
	}
}

func TestEngineStateIsSnapshot(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	engine, _ := NewEngine(createTestConfig(), WithClock(clock.now))
	engine.SetOverlay(OverlayOptions{ShowPath: true, ShowHint: true})

	before := engine.GetState()
	clock.advance(time.Second)
	if engine.GetState().ElapsedMs != 1000 {
		t.Errorf("Expected elapsed 1000ms, got %d", engine.GetState().ElapsedMs)
	}
	if before.ElapsedMs != 0 {
		t.Errorf("Reading state again must not change an earlier copy, got %dms", before.ElapsedMs)
	}

	engine.Move(routeDirections(t, engine.Route())[0])
	if before.PlayerPos != (Position{}) || before.Score != 0 || len(before.MoveHistory) != 0 {
		t.Errorf("Expected earlier copy to keep the start position, got %+v", before.PlayerPos)
	}
	if len(before.Visited) != 1 || before.Hint == nil || *before.Hint != engine.Route()[1] {
		t.Errorf("Expected earlier copy to keep its overlay, got hint %v", before.Hint)
	}
}
