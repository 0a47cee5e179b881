package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Default player-facing messages, used when a preset leaves one empty.
const (
	defaultWelcome     = "Find your way from the top-left corner to the bottom-right!"
	defaultBlocked     = "A wall blocks the way %s."
	defaultOnRoute     = "On the right track. Score: %d"
	defaultDetour      = "Dead end ahead? Score: %d"
	defaultRevisit     = "You have been here before."
	defaultGoal        = "You escaped the maze! Final score: %d in %s"
	defaultAlreadyOver = "The maze is solved. Start a new game or reset."
)

// IsPresetSize reports whether n is one of PresetSizes.
func IsPresetSize(n int) bool {
	return slices.Contains(PresetSizes, n)
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if !IsPresetSize(config.Size) {
		return fmt.Errorf("config validation: size must be one of %v, got %d", PresetSizes, config.Size)
	}
	if config.WorldSize < 0 || config.WorldSize > MaxWorldSize {
		return fmt.Errorf("config validation: world_size must be between 0 and %g, got %g", MaxWorldSize, config.WorldSize)
	}

	// Validate format strings
	m := config.Messages
	for _, f := range []struct {
		name, msg string
		allowed   []string
		want      string
	}{
		{"welcome", m.Welcome, []string{""}, "no format verbs"},
		{"revisit", m.Revisit, []string{""}, "no format verbs"},
		{"already_over", m.AlreadyOver, []string{""}, "no format verbs"},
		{"blocked", m.Blocked, []string{"", "s"}, "at most one %s for direction"},
		{"on_route", m.OnRoute, []string{"d"}, "exactly one %d for score"},
		{"detour", m.Detour, []string{"d"}, "exactly one %d for score"},
		{"goal", m.Goal, []string{"ds"}, "%d for score followed by %s for time, and no other verbs"},
	} {
		if f.msg != "" && !slices.Contains(f.allowed, formatVerbs(f.msg)) {
			return fmt.Errorf("config validation: messages.%s must contain %s", f.name, f.want)
		}
	}

	return nil
}

// formatVerbs returns the verb letters of the fmt directives in msg, in
// order. Flags, width and precision are skipped and %% is not a verb.
func formatVerbs(msg string) string {
	var verbs []byte
	for i := 0; i < len(msg); i++ {
		if msg[i] != '%' {
			continue
		}
		i++
		for i < len(msg) && strings.IndexByte("+-# 0123456789.", msg[i]) >= 0 {
			i++
		}
		if i == len(msg) {
			verbs = append(verbs, '!')
			break
		}
		if msg[i] != '%' {
			verbs = append(verbs, msg[i])
		}
	}
	return string(verbs)
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configPath, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns the built-in preset used when no configuration is
// supplied.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "A 10x10 maze with no drawing aids",
		Size:        10,
		WorldSize:   DefaultWorldSize,
		Messages: Messages{
			Welcome:     defaultWelcome,
			Blocked:     defaultBlocked,
			OnRoute:     defaultOnRoute,
			Detour:      defaultDetour,
			Revisit:     defaultRevisit,
			Goal:        defaultGoal,
			AlreadyOver: defaultAlreadyOver,
		},
	}
}

// withDefaults fills empty optional fields from DefaultConfig.
func withDefaults(config *GameConfig) *GameConfig {
	c := *config
	d := DefaultConfig()
	if c.WorldSize == 0 {
		c.WorldSize = d.WorldSize
	}
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&c.Messages.Welcome, d.Messages.Welcome)
	fill(&c.Messages.Blocked, d.Messages.Blocked)
	fill(&c.Messages.OnRoute, d.Messages.OnRoute)
	fill(&c.Messages.Detour, d.Messages.Detour)
	fill(&c.Messages.Revisit, d.Messages.Revisit)
	fill(&c.Messages.Goal, d.Messages.Goal)
	fill(&c.Messages.AlreadyOver, d.Messages.AlreadyOver)
	return &c
}
