// Package service provides the business logic layer for the maze game.
//
// The service package implements:
//   - Multi-session game management
//   - Preset loading and selection
//   - Move processing, bulk moves and move history
//   - Shortest-path queries, hints and overlays
//   - High score recording for solved mazes
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine and maze; the service
// serializes access to them and turns engine history entries into events.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	store, _ := scoreboard.NewFileStore("scores", scoreboard.DefaultMaxEntries)
//	gameService := service.NewGameService(sessionMgr, configMgr, service.WithScoreStore(store))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := gameService.Move(ctx, info.ID, "right", false)
//
// When a move reaches the goal the run is written to the score store. A
// failing store is logged and never fails the move.
package service
