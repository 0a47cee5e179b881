package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validPreset = `{
	"name": "Test Config",
	"description": "Test configuration",
	"size": 5,
	"world_size": 0.8,
	"seed": 3,
	"show_path": true,
	"messages": {
		"welcome": "Welcome!",
		"blocked": "Wall %s.",
		"on_route": "Score: %d",
		"detour": "Detour, score: %d",
		"goal": "Done: %d in %s"
	}
}`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasError(result ValidationResult, substr string) bool {
	for _, err := range result.Errors {
		if strings.Contains(err, substr) {
			return true
		}
	}
	return false
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "test.json", validPreset)

	result := validateConfig(path)
	if !result.Valid {
		t.Errorf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "test.json" {
		t.Errorf("Expected file name test.json, got %s", result.File)
	}
	if !hasError(result, "5x5 maze, sample route") {
		t.Errorf("Expected route information, got %v", result.Errors)
	}
	if !hasError(result, "Fixed seed 3") {
		t.Errorf("Expected fixed seed note, got %v", result.Errors)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad json", `{"name": "test", invalid json}`, "Invalid JSON"},
		{"unknown key", `{"name": "t", "description": "d", "grid_size": 5}`, "Invalid JSON"},
		{"missing name", `{"description": "d", "size": 5}`, "name is required"},
		{"missing description", `{"name": "t", "size": 5}`, "description is required"},
		{"not a preset size", `{"name": "t", "description": "d", "size": 7}`, "size must be one of"},
		{"world size", `{"name": "t", "description": "d", "size": 5, "world_size": -1}`, "world_size"},
		{"score verb", `{"name": "t", "description": "d", "size": 5, "messages": {"on_route": "no score"}}`, "on_route"},
		{"goal order", `{"name": "t", "description": "d", "size": 5, "messages": {"goal": "%s then %d"}}`, "goal"},
		{"plain message verb", `{"name": "t", "description": "d", "size": 5, "messages": {"welcome": "hi %d"}}`, "messages.welcome"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "bad.json", tt.content)
			result := validateConfig(path)
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !hasError(result, tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasError(result, "Failed to read file") {
		t.Error("Expected 'Failed to read file' error")
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tiny.json", validPreset)
	writeConfig(t, dir, "Tiny.json", validPreset)
	writeConfig(t, dir, "notes.txt", "ignored")

	results, err := validateDir(dir)
	if err != nil {
		t.Fatalf("validateDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Valid == results[1].Valid {
		t.Errorf("Expected exactly one clash, got %+v", results)
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	ok := report(&buf, []ValidationResult{
		{File: "a.json", Valid: true, Errors: []string{"5x5 maze"}},
		{File: "b.json", Valid: false, Errors: []string{"size must be one of"}},
	})
	if ok {
		t.Error("Expected report to fail with an invalid file")
	}
	out := buf.String()
	for _, want := range []string{"✅ VALID", "❌ INVALID", "  ❌ size must be one of", "Some configurations have errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in report:\n%s", want, out)
		}
	}

	buf.Reset()
	if report(&buf, nil) {
		t.Error("Expected empty report to fail")
	}
}

func TestShippedPresets(t *testing.T) {
	results, err := validateDir(filepath.Join("..", "configs"))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Skip("Skipping test - configs directory not found")
	}
	for _, result := range results {
		if !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
	}
}
