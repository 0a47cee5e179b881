// Package mcp exposes the maze game to MCP-capable agents.
//
// Client is a thin proxy: every tool call becomes one or two REST calls
// against the api package, and the JSON answer is turned into compact text.
// The same Client backs the /mcp HTTP endpoint and the stdio server.
//
// Tools: create_session, list_sessions, get_session, game_state, move,
// bulk_move, reset_game, new_game, shortest_path, move_history,
// list_configs, high_scores and game_instructions.
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
