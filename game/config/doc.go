// Package config manages the maze presets a game can be started from.
//
// Presets are JSON files in a configs directory, one per file, named after
// the file without its extension. Each preset fixes a maze size (5, 10, 15
// or 20), an optional generator seed, the default overlay toggles and the
// player-facing messages.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("large")
//	defaultConfig := manager.GetDefault()
//	presets, err := manager.ListConfigs()
//
// The default preset is "classic" when present, otherwise the first valid
// preset, otherwise engine.DefaultConfig.
package config
