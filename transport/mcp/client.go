package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/maze-game/game/engine"
	"github.com/wricardo/maze-game/game/scoreboard"
	"github.com/wricardo/maze-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Maze Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk from the start cell (top-left) to the goal cell (bottom-right) of a
perfect maze. Every first visit to a cell on the shortest route scores +1,
every first visit off it scores -1.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage sessions
- game_state: ASCII maze plus position, score and open directions
- move / bulk_move: walk the maze (requires intent explanation)
- reset_game: restart the same maze
- new_game: generate a fresh maze (sizes 5, 10, 15, 20)
- shortest_path: route between two cells (defaults: you -> goal)
- move_history: past moves
- list_configs: presets
- high_scores: best solves per size
- game_instructions: full rules

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	directions := []string{"up", "down", "left", "right"}

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use: tiny, classic, large or huge (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with an ASCII drawing of the maze",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directions,
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping at the first blocked one or at the goal", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": directions,
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Put the player back at the start of the same maze",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Generate a brand new maze for the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"size": map[string]interface{}{
					"type":        "integer",
					"enum":        engine.PresetSizes,
					"description": "Maze size (optional, defaults to the current size)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shortest_path",
		Description: "Find the shortest route between two cells. Defaults to the player's cell and the goal.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"from_row":   intProp("Start row (optional)"),
				"from_col":   intProp("Start column (optional)"),
				"to_row":     intProp("Target row (optional)"),
				"to_col":     intProp("Target column (optional)"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleShortestPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"page":       intProp("Page number"),
				"limit":      intProp("Items per page"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "high_scores",
		Description: "Best completed runs for a maze size",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"size": map[string]interface{}{
					"type":        "integer",
					"enum":        engine.PresetSizes,
					"description": "Maze size",
				},
				"limit": intProp("Number of entries (default 10)"),
			},
			Required: []string{"size"},
		},
	}, c.handleHighScores)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) apiText(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, "GET", path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument.
func intArg(args map[string]interface{}, key string) (int, bool) {
	v, ok := args[key].(float64)
	return int(v), ok
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "playing"
		size := 0
		if s.GameState != nil {
			size = s.GameState.Size
			if s.GameState.GameOver {
				status = "solved"
			}
		}
		fmt.Fprintf(&b, "- %s (Config: %s, %dx%d, %s, Created: %s)\n",
			s.ID, s.ConfigName, size, size, status, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	drawing, err := c.apiText(ctx, sessionPath(sessionID, "/render"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state) + "\n\n" + drawing + mazeLegend
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if s, ok := m.(string); ok {
			moves = append(moves, s)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	size, _ := intArg(args, "size")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/new-game"), map[string]int{"size": size}, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleShortestPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	for _, end := range []string{"from", "to"} {
		row, okRow := intArg(args, end+"_row")
		col, okCol := intArg(args, end+"_col")
		if okRow != okCol {
			return mcp.NewToolResultError(fmt.Sprintf("%s_row and %s_col must be given together", end, end)), nil
		}
		if okRow {
			query.Set(end, fmt.Sprintf("%d,%d", row, col))
		}
	}
	path := sessionPath(sessionID, "/path")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result service.PathResult
	if err := c.apiCall(ctx, "GET", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatPath(&result)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Maze: %dx%d\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Size, cfg.Size)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleHighScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	size, _ := intArg(args, "size")
	query := url.Values{"size": {fmt.Sprint(size)}}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}

	var response struct {
		Scores []scoreboard.Record `json:"scores"`
	}
	if err := c.apiCall(ctx, "GET", "/api/scores?"+query.Encode(), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatScores(size, response.Scores)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const mazeLegend = `
Legend: @ you, S start, G goal, . shortest route (overlay), ~ visited cells
`

const instructions = `Maze Game - Complete Instructions

GAME OBJECTIVE:
Walk from the start cell S at (0,0) to the goal cell G at (N-1,N-1).

THE MAZE:
• An N x N grid of cells, N is 5, 10, 15 or 20
• Every pair of cells is joined by exactly one path (a perfect maze)
• Rows grow downwards, columns grow to the right; positions are (row,col)
• Walls are drawn as | and ---; you cannot pass through them or leave the grid

SCORING:
• First visit to a cell on the shortest start-goal route: +1
• First visit to a cell off that route: -1
• Revisiting a cell: 0
• A perfect run therefore scores exactly the route length
• Reaching G ends the run and records your score and time

TOOLS:
• game_state: draw the maze and list open directions
• move / bulk_move: walk; blocked moves change nothing
• shortest_path: ask for the route from any cell to any cell
• reset_game: restart the same maze, new_game: new maze
• high_scores: best runs per size

STRATEGY TIPS:
• Read the open directions before moving
• bulk_move stops at the first blocked move, so plan corridors in one call
• Dead ends cost points on the way in; back out and pick another branch
`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Maze: %dx%d (game #%d) | Position: %s | Goal: %s | Score: %d | Moves: %d\n",
		state.Size, state.Size, state.GameNumber,
		state.PlayerPos, state.Goal, state.Score, state.CurrentMovesCount)

	if open := openDirections(state); len(open) > 0 {
		fmt.Fprintf(&b, "Open directions: %s\n", strings.Join(open, ","))
	}
	if state.Hint != nil {
		fmt.Fprintf(&b, "Hint: next cell %s\n", *state.Hint)
	}
	if len(state.OverlayPath) > 0 {
		fmt.Fprintf(&b, "Cells to goal: %d\n", len(state.OverlayPath)-1)
	}

	if state.GameOver {
		fmt.Fprintf(&b, "\n🎉 SOLVED in %s with score %d\n",
			(time.Duration(state.ElapsedMs) * time.Millisecond).Round(time.Millisecond), state.Score)
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s", state.Message)
	}
	return b.String()
}

// openDirections reads the player's cell walls from the state.
func openDirections(state *engine.GameState) []string {
	p := state.PlayerPos
	if p.Row < 0 || p.Row >= len(state.Cells) || p.Col < 0 || p.Col >= len(state.Cells[p.Row]) {
		return nil
	}
	w := state.Cells[p.Row][p.Col].Walls
	var open []string
	for _, d := range []struct {
		name   string
		walled bool
	}{{"up", w.Top}, {"down", w.Bottom}, {"left", w.Left}, {"right", w.Right}} {
		if !d.walled {
			open = append(open, d.name)
		}
	}
	return open
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&b, "Step: %s %s→%s %s (%+d)\n", s.Dir, s.From, s.To, s.Outcome, s.ScoreDelta)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d) reason=%s\n", a.Row, a.Col, a.Reason)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	size := 0
	configName := ""
	if result.GameState != nil {
		size = result.GameState.Size
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s • Maze: %dx%d\n", sessionID, configName, size, size)

	fmt.Fprintf(&b, "Executed %d/%d moves (%s → %s, score %+d)\n",
		result.MovesExecuted, result.RequestedMoves, result.StartPos, result.EndPos, result.ScoreDelta)
	if result.Truncated {
		fmt.Fprintf(&b, "Only the first %d moves were considered\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s\n", result.StoppedReason)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d) reason=%s\n", a.Row, a.Col, a.Reason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			fmt.Fprintf(&b, "%2d. %-5s %s→%s %s (%+d)\n", s.Idx, s.Dir, s.From, s.To, s.Outcome, s.ScoreDelta)
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatPath(p *service.PathResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shortest path %s → %s: %d moves\n", p.From, p.To, p.Length)

	cells := make([]string, len(p.Path))
	for i, c := range p.Path {
		cells[i] = c.String()
	}
	fmt.Fprintf(&b, "Cells: %s\n", strings.Join(cells, " "))

	var dirs []string
	for i := 1; i < len(p.Path); i++ {
		if d, ok := p.Path[i-1].DirectionTo(p.Path[i]); ok {
			dirs = append(dirs, d.String())
		}
	}
	if len(dirs) > 0 {
		fmt.Fprintf(&b, "Moves: %s\n", strings.Join(dirs, ","))
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, %d total moves):\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "#%d [game %d] %s: %s → %s %s %+d (score %d)\n",
			move.MoveNumber, move.GameNumber, move.Action,
			move.FromPosition, move.ToPosition, status, move.ScoreDelta, move.Score)
	}
	if history.HasNext {
		fmt.Fprintf(&b, "\nMore moves on page %d\n", history.Page+1)
	}
	return b.String()
}

func formatScores(size int, records []scoreboard.Record) string {
	if len(records) == 0 {
		return fmt.Sprintf("No solved %dx%d mazes yet", size, size)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "High scores for %dx%d:\n\n", size, size)
	for i, r := range records {
		fmt.Fprintf(&b, "%2d. score %d in %d moves, %s (session %s, %s)\n",
			i+1, r.Score, r.Moves,
			(time.Duration(r.ElapsedMs) * time.Millisecond).Round(time.Millisecond),
			r.SessionID, r.CompletedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}
