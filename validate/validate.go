// Command validate checks the maze preset JSON files in a configs
// directory (default ./configs, or the first argument). It checks:
//   - JSON structure, with unknown keys rejected to catch typos
//   - required fields, preset size and world size
//   - message format verbs (score and time placeholders)
//   - that a maze carved with the preset's seed passes maze.Verify
//   - that no two presets share a file-derived config_id with different case
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/maze-game/game/engine"
	"github.com/wricardo/maze-game/game/maze"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", strings.TrimPrefix(err.Error(), "config validation: "))
	}
	validatePlainMessages(&result, config.Messages)
	if !result.Valid {
		return result
	}

	return validatePlayability(&config, result)
}

// validatePlainMessages rejects format verbs in messages printed verbatim.
func validatePlainMessages(result *ValidationResult, m engine.Messages) {
	for name, msg := range map[string]string{
		"welcome":      m.Welcome,
		"revisit":      m.Revisit,
		"already_over": m.AlreadyOver,
	} {
		if strings.Contains(msg, "%") {
			result.fail("messages.%s must not contain format verbs", name)
		}
	}
}

// validatePlayability carves one maze for the preset and reports its route
// length as information.
func validatePlayability(config *engine.GameConfig, result ValidationResult) ValidationResult {
	worldSize := config.WorldSize
	if worldSize == 0 {
		worldSize = engine.DefaultWorldSize
	}
	grid, err := maze.NewGrid(config.Size, worldSize)
	if err != nil {
		result.fail("Grid: %v", err)
		return result
	}

	seed := config.Seed
	if seed == 0 {
		seed = 1
	}
	maze.NewGenerator(seed).Generate(grid)
	if err := maze.Verify(grid); err != nil {
		result.fail("Generated maze failed verification: %v", err)
		return result
	}

	route := maze.FindShortestPath(grid, maze.Position{}, maze.Position{Row: config.Size - 1, Col: config.Size - 1})
	result.Errors = append(result.Errors,
		fmt.Sprintf("%dx%d maze, sample route %d moves, %d dead ends", config.Size, config.Size, len(route)-1, maze.DeadEnds(grid)))
	if config.Seed != 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Fixed seed %d: every session starts with the same maze", config.Seed))
	}
	return result
}

// validateDir validates every *.json file in dir.
func validateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	results := make([]ValidationResult, 0, len(files))
	ids := make(map[string]string)
	for _, file := range files {
		result := validateConfig(file)
		id := strings.ToLower(strings.TrimSuffix(result.File, ".json"))
		if other, ok := ids[id]; ok {
			result.fail("config_id clashes with %s", other)
		}
		ids[id] = result.File
		results = append(results, result)
	}
	return results, nil
}

// report prints results and returns whether all of them are valid.
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if len(results) == 0 {
		fmt.Fprintln(w, "❌ No configurations found")
		return false
	}
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

// main validates the presets, printing a concise report and exiting with
// non-zero status if any are invalid.
func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	results, err := validateDir(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if !report(os.Stdout, results) {
		os.Exit(1)
	}
}
