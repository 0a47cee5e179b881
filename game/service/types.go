package service

import (
	"time"

	"github.com/wricardo/maze-game/game/engine"
)

// Event types reported in move results
const (
	EventReset    = "reset"
	EventNewGame  = "new_game"
	EventMove     = "move"
	EventOnRoute  = "on_route"
	EventDetour   = "detour"
	EventRevisit  = "revisit"
	EventGoal     = "goal"
	EventBlocked  = "blocked"
	EventInvalid  = "invalid"
	EventGameOver = "game_over"
)

// Stop reason codes for bulk moves
const (
	StopBlockedWall      = "blocked_wall"
	StopBlockedBoundary  = "blocked_boundary"
	StopInvalidDirection = "invalid_direction"
	StopGameOver         = "game_over"
	StopGoal             = "goal"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool              `json:"success"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
	Step        *StepInfo         `json:"step,omitempty"`
	AttemptedTo *AttemptInfo      `json:"attempted_to,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked_wall|blocked_boundary|invalid_direction|game_over|goal
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos   engine.Position `json:"start_pos"`
	EndPos     engine.Position `json:"end_pos"`
	ScoreDelta int             `json:"score_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Failure diagnostics
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx        int             `json:"idx"`
	Dir        string          `json:"dir"`
	From       engine.Position `json:"from"`
	To         engine.Position `json:"to"`
	Outcome    string          `json:"outcome"`
	ScoreDelta int             `json:"score_delta"`
	Success    bool            `json:"success"`
	Goal       bool            `json:"goal,omitempty"`
}

// AttemptInfo details the cell a rejected move tried to enter
type AttemptInfo struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Reason   string `json:"reason"` // wall|boundary|invalid_direction|game_over
	InBounds bool   `json:"in_bounds"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// PathResult is a shortest-path query answer
type PathResult struct {
	From   engine.Position   `json:"from"`
	To     engine.Position   `json:"to"`
	Path   []engine.Position `json:"path"`
	Length int               `json:"length"` // number of moves
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Size        int    `json:"size"`
	ShowPath    bool   `json:"show_path"`
	ShowHint    bool   `json:"show_hint"`
}
