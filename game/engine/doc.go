// Package engine provides the game logic for the maze game.
//
// The engine package implements the game mechanics including:
//   - Maze generation per game through the maze package
//   - Move validation against the carved walls
//   - Route-based scoring and the goal condition
//   - Path and hint overlays recomputed after every accepted move
//   - Preset configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. Player is the movement controller for a single
// run. GameState is the renderer-facing snapshot, while GameConfig describes a
// preset loaded from JSON.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Move the player
//	success := gameEngine.Move("right")
//	state := gameEngine.GetState()
//
// Game Rules:
//
// The player starts in the top-left cell and must reach the bottom-right one.
// Moves into a wall are ignored. Entering a cell for the first time scores
// +1 when it lies on the shortest start-to-goal route and -1 otherwise;
// revisiting a cell scores nothing. Reaching the goal ends the game and
// freezes the score and elapsed time.
package engine
