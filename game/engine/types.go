package engine

import (
	"time"

	"github.com/wricardo/maze-game/game/maze"
)

const (
	// Validation constants
	DefaultWorldSize    = 0.8
	MaxWorldSize        = 100.0
	MaxBulkMoves        = 50
	WebSocketBufferSize = 256
)

// PresetSizes are the only maze side lengths a game may be played at.
var PresetSizes = []int{5, 10, 15, 20}

// Position is a cell coordinate in the maze.
type Position = maze.Position

// Messages holds the player-facing text for game events. Goal takes the
// score (%d) followed by the elapsed time (%s).
type Messages struct {
	Welcome     string `json:"welcome"`
	Blocked     string `json:"blocked"`
	OnRoute     string `json:"on_route"`
	Detour      string `json:"detour"`
	Revisit     string `json:"revisit"`
	Goal        string `json:"goal"`
	AlreadyOver string `json:"already_over"`
}

// GameConfig represents a maze preset loaded from JSON.
type GameConfig struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Size            int      `json:"size"`
	WorldSize       float64  `json:"world_size,omitempty"`
	Seed            uint64   `json:"seed,omitempty"`
	ShowPath        bool     `json:"show_path"`
	ShowHint        bool     `json:"show_hint"`
	ShowBreadcrumbs bool     `json:"show_breadcrumbs"`
	Messages        Messages `json:"messages"`
}

// OverlayOptions toggles the optional drawing aids.
type OverlayOptions struct {
	ShowPath        bool `json:"show_path"`
	ShowHint        bool `json:"show_hint"`
	ShowBreadcrumbs bool `json:"show_breadcrumbs"`
}

// Walls mirrors a cell's wall flags for JSON consumers.
type Walls struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// CellView is the renderer-facing description of one cell.
type CellView struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Walls Walls   `json:"walls"`
}

// Move outcomes recorded in history entries.
const (
	OutcomeInvalid  = "invalid"
	OutcomeBlocked  = "blocked"
	OutcomeGameOver = "game_over"
	OutcomeOnRoute  = "on_route"
	OutcomeDetour   = "detour"
	OutcomeRevisit  = "revisit"
	OutcomeGoal     = "goal"
)

// GameState represents the complete game state
type GameState struct {
	Size       int          `json:"size"`
	WorldSize  float64      `json:"world_size"`
	CellSize   float64      `json:"cell_size"`
	Cells      [][]CellView `json:"cells"`
	PlayerPos  Position     `json:"player_pos"`
	Start      Position     `json:"start"`
	Goal       Position     `json:"goal"`
	Visited    []Position   `json:"visited"`
	Score      int          `json:"score"`
	Message    string       `json:"message"`
	GameOver   bool         `json:"game_over"`
	ConfigName string       `json:"config_name"`
	GameNumber int          `json:"game_number"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	ElapsedMs  int64      `json:"elapsed_ms"`

	Overlay     OverlayOptions `json:"overlay"`
	OverlayPath []Position     `json:"overlay_path,omitempty"`
	Hint        *Position      `json:"hint,omitempty"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset or new game.
	// MoveHistory stays cumulative for the lifetime of the engine.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Outcome      string   `json:"outcome"`
	ScoreDelta   int      `json:"score_delta"`
	Score        int      `json:"score"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
	GameNumber   int      `json:"game_number"`
}
