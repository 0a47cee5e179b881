package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/maze-game/game/engine"
	"github.com/wricardo/maze-game/game/maze"
	"github.com/wricardo/maze-game/game/scoreboard"
)

// ErrScoresUnavailable is returned by ListScores when no store is configured.
var ErrScoresUnavailable = errors.New("high scores are not enabled")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	scores   scoreboard.Store
	log      logrus.FieldLogger
	mu       sync.RWMutex
}

// Option customizes the game service.
type Option func(*gameServiceImpl)

// WithScoreStore records every solved maze in store.
func WithScoreStore(store scoreboard.Store) Option {
	return func(s *gameServiceImpl) { s.scores = store }
}

// WithLogger sets the service logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *gameServiceImpl) { s.log = log }
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// session marks a session as accessed and looks it up.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	return sess, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config := s.configs.GetDefault()
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			var ids []string
			if available, listErr := s.configs.ListConfigs(); listErr == nil {
				for _, cfg := range available {
					ids = append(ids, cfg.ConfigID)
				}
			}
			return nil, fmt.Errorf("failed to load config '%s' (available: %v): %w", configName, ids, err)
		}
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"config":  config.Name,
		"size":    config.Size,
	}).Info("session created")

	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	s.log.WithField("session", sessionID).Info("session deleted")
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent(sess.Engine.GetPlayerPosition()))
	}

	sess.Engine.Move(direction)
	last := sess.Engine.GetLastMove()
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:   last.Success,
		GameState: state,
		Message:   state.Message,
		Events:    append(events, s.extractMoveEvents(state, last)...),
	}
	if last.Success {
		step := stepInfo(1, last)
		result.Step = &step
		if step.Goal {
			s.recordScore(ctx, sess)
		}
	} else {
		result.AttemptedTo = attemptInfo(sess.Engine, last)
	}

	s.log.WithFields(logrus.Fields{
		"session": sessionID,
		"dir":     last.Action,
		"from":    last.FromPosition.String(),
		"to":      last.ToPosition.String(),
		"status":  last.Outcome,
		"score":   state.Score,
	}).Debug("move")

	return result, nil
}

// BulkMove executes multiple moves in sequence, stopping at the first one
// that fails.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent(sess.Engine.GetPlayerPosition()))
	}

	start := sess.Engine.GetState()
	result.StartPos = start.PlayerPos
	startScore := start.Score

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("game already over before move %d", i+1)
			result.StopReasonCode = StopGameOver
			result.StoppedOnMove = i + 1
			break
		}

		sess.Engine.Move(move)
		last := sess.Engine.GetLastMove()
		result.Events = append(result.Events, s.extractMoveEvents(sess.Engine.GetState(), last)...)

		if !last.Success {
			result.Success = false
			result.StoppedOnMove = i + 1
			result.AttemptedTo = attemptInfo(sess.Engine, last)
			result.StopReasonCode = stopCode(result.AttemptedTo.Reason)
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s (%s)", i+1, move, result.AttemptedTo.Reason)
			break
		}

		result.MovesExecuted++
		step := stepInfo(i+1, last)
		result.Steps = append(result.Steps, step)
		if step.Goal {
			result.StopReasonCode = StopGoal
			if i+1 < len(moves) {
				result.StoppedOnMove = i + 1
				result.StoppedReason = fmt.Sprintf("goal reached on move %d", i+1)
			}
			s.recordScore(ctx, sess)
			break
		}
	}

	end := sess.Engine.GetState()
	result.GameState = end
	result.EndPos = end.PlayerPos
	result.ScoreDelta = end.Score - startScore
	result.GameOver = end.GameOver
	result.Message = end.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	s.log.WithFields(logrus.Fields{
		"session":  sessionID,
		"executed": result.MovesExecuted,
		"request":  result.RequestedMoves,
		"stop":     result.StopReasonCode,
		"end":      result.EndPos.String(),
	}).Debug("bulk move")

	return result, nil
}

// Reset puts the player back at the start of the same maze
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Reset(), nil
}

// NewGame replaces the session's maze with a freshly generated one
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string, size int) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	state, err := sess.Engine.NewGame(size)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session": sessionID,
		"size":    state.Size,
		"game":    state.GameNumber,
	}).Info("new game")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// RenderGame draws the session's maze as text
func (s *gameServiceImpl) RenderGame(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return "", err
	}
	return sess.Engine.Render(), nil
}

// ShortestPath answers a route query; nil endpoints default to the player
// cell and the goal
func (s *gameServiceImpl) ShortestPath(ctx context.Context, sessionID string, from, to *engine.Position) (*PathResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	path, err := sess.Engine.ShortestPath(from, to)
	if err != nil {
		return nil, err
	}
	return &PathResult{
		From:   path[0],
		To:     path[len(path)-1],
		Path:   path,
		Length: len(path) - 1,
	}, nil
}

// Hint returns the next cell on the route to the goal
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*engine.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	next, ok := sess.Engine.Hint()
	if !ok {
		return nil, engine.ErrGameOver
	}
	return &next, nil
}

// SetOverlay replaces the session's overlay toggles
func (s *gameServiceImpl) SetOverlay(ctx context.Context, sessionID string, opts engine.OverlayOptions) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.SetOverlay(opts), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// ListScores returns the best completed runs for a maze size
func (s *gameServiceImpl) ListScores(ctx context.Context, size, limit int) ([]scoreboard.Record, error) {
	if s.scores == nil {
		return nil, ErrScoresUnavailable
	}
	if !engine.IsPresetSize(size) {
		return nil, fmt.Errorf("%w: %d", engine.ErrUnsupportedSize, size)
	}
	return s.scores.Top(ctx, size, limit)
}

// recordScore stores the finished run. Store failures are logged, not
// returned: the move itself succeeded.
func (s *gameServiceImpl) recordScore(ctx context.Context, sess *Session) {
	if s.scores == nil {
		return
	}
	state := sess.Engine.GetState()
	rec := scoreboard.NewRecord(
		sess.ID,
		s.getConfigID(sess.Config.Name),
		state.Size,
		state.Score,
		state.CurrentMovesCount,
		time.Duration(state.ElapsedMs)*time.Millisecond,
	)
	log := s.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"size":    rec.Size,
		"score":   rec.Score,
	})
	if err := s.scores.Add(ctx, rec); err != nil {
		log.WithError(err).Warn("failed to record score")
		return
	}
	log.Info("score recorded")
}

// extractMoveEvents generates events from the history entry of a move
func (s *gameServiceImpl) extractMoveEvents(state *engine.GameState, last *engine.MoveHistoryEntry) []GameEvent {
	now := time.Now()
	pos := last.ToPosition

	switch last.Outcome {
	case engine.OutcomeInvalid:
		return []GameEvent{{Type: EventInvalid, Message: state.Message, Timestamp: now, Position: pos}}
	case engine.OutcomeGameOver:
		return []GameEvent{{Type: EventGameOver, Message: state.Message, Timestamp: now, Position: pos}}
	case engine.OutcomeBlocked:
		return []GameEvent{{Type: EventBlocked, Message: state.Message, Timestamp: now, Position: pos}}
	}

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved %s to %v", last.Action, pos),
		Timestamp: now,
		Position:  pos,
	}}

	switch last.Outcome {
	case engine.OutcomeOnRoute:
		events = append(events, GameEvent{Type: EventOnRoute, Message: fmt.Sprintf("On route, score %d", last.Score), Timestamp: now, Position: pos})
	case engine.OutcomeDetour:
		events = append(events, GameEvent{Type: EventDetour, Message: fmt.Sprintf("Off route, score %d", last.Score), Timestamp: now, Position: pos})
	case engine.OutcomeRevisit:
		events = append(events, GameEvent{Type: EventRevisit, Message: "Cell already visited", Timestamp: now, Position: pos})
	case engine.OutcomeGoal:
		events = append(events, GameEvent{Type: EventGoal, Message: state.Message, Timestamp: now, Position: pos})
	}
	return events
}

func resetEvent(pos engine.Position) GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Player returned to the start",
		Timestamp: time.Now(),
		Position:  pos,
	}
}

func stepInfo(idx int, last *engine.MoveHistoryEntry) StepInfo {
	return StepInfo{
		Idx:        idx,
		Dir:        last.Action,
		From:       last.FromPosition,
		To:         last.ToPosition,
		Outcome:    last.Outcome,
		ScoreDelta: last.ScoreDelta,
		Success:    last.Success,
		Goal:       last.Outcome == engine.OutcomeGoal,
	}
}

// attemptInfo explains why a move failed.
func attemptInfo(e *engine.GameEngine, last *engine.MoveHistoryEntry) *AttemptInfo {
	from := last.FromPosition
	info := &AttemptInfo{Row: from.Row, Col: from.Col, InBounds: true}

	switch last.Outcome {
	case engine.OutcomeGameOver:
		info.Reason = "game_over"
		return info
	case engine.OutcomeInvalid:
		info.Reason = "invalid_direction"
		return info
	}

	d, err := maze.ParseDirection(last.Action)
	if err != nil {
		info.Reason = "invalid_direction"
		return info
	}
	target := from.Step(d)
	info.Row, info.Col = target.Row, target.Col
	info.InBounds = e.Grid().InBounds(target)
	if info.InBounds {
		info.Reason = "wall"
	} else {
		info.Reason = "boundary"
	}
	return info
}

func stopCode(reason string) string {
	switch reason {
	case "wall":
		return StopBlockedWall
	case "boundary":
		return StopBlockedBoundary
	case "invalid_direction":
		return StopInvalidDirection
	default:
		return StopGameOver
	}
}
